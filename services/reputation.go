package services

import (
	"context"

	"enricher-worker/domain"
)

// resolveReputations looks up every distinct author in one batch. Authors the
// primary API does not return are simply absent from the result.
func (s *EnricherService) resolveReputations(ctx context.Context, authors []string) map[string]any {
	reps := make(map[string]any)

	seen := make(map[string]bool, len(authors))
	names := make([]string, 0, len(authors))
	for _, a := range authors {
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		names = append(names, a)
	}
	if len(names) == 0 {
		return reps
	}

	accounts, err := s.contentAPI.GetAccounts(ctx, names)
	if err != nil {
		s.logger.WithError(err).WithField("authors", len(names)).Error("failed to resolve author reputations")
		return reps
	}

	for _, acct := range accounts {
		name, _ := acct["name"].(string)
		if name == "" {
			continue
		}
		if rep, ok := acct["reputation"]; ok {
			reps[name] = rep
		}
	}
	return reps
}

func contentAuthors(feed []domain.Content) []string {
	authors := make([]string, 0, len(feed))
	for _, c := range feed {
		authors = append(authors, c.Author())
	}
	return authors
}

func curationAuthors(records []domain.CurationRecord) []string {
	authors := make([]string, 0, len(records))
	for _, r := range records {
		authors = append(authors, r.Author())
	}
	return authors
}
