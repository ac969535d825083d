package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"enricher-worker/domain"
)

func newStateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "state <route>",
		Short: "Hydrate and enrich the page state for a route",
		Example: "  enricher state /trending/photography\n" +
			"  enricher state /@alice/transfers",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			state, err := a.enricher.GetState(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), state)
		},
	}
}

func newFeedCmd() *cobra.Command {
	var query domain.FeedQuery

	cmd := &cobra.Command{
		Use:   "feed <call>",
		Short: "Fetch one enriched feed page",
		Long: "Fetch one enriched feed page. <call> is one of get_discussions_by_trending, _hot, _created,\n" +
			"_promoted, _blog, _feed or _comments.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			call, err := domain.ParseFeedCall(args[0])
			if err != nil {
				return err
			}
			if query.Limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a.enricher.FetchFeed(cmd.Context(), call, query))
		},
	}

	cmd.Flags().StringVar(&query.Tag, "tag", "", "tag, or account name for blog/feed/comments")
	cmd.Flags().IntVar(&query.Limit, "limit", domain.StateFeedLimit, "page size")
	cmd.Flags().StringVar(&query.StartAuthor, "start-author", "", "pagination cursor author")
	cmd.Flags().StringVar(&query.StartPermlink, "start-permlink", "", "pagination cursor permlink")

	return cmd
}

func newContentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "content <author> <permlink>",
		Short: "Fetch one post with its curation data",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), a.enricher.FetchContent(cmd.Context(), args[0], args[1]))
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
