package repositories

import (
	"strings"

	"golang.org/x/net/html"
)

const maxIndexedText = 100000

// BodyText is the searchable part of a post body.
type BodyText struct {
	Text   string
	Links  []string
	Images []string
}

// ExtractBodyText strips markup from a post body. Bodies are markdown with
// embedded HTML; the tokenizer passes plain markdown through as text.
func ExtractBodyText(body string) BodyText {
	tokenizer := html.NewTokenizer(strings.NewReader(body))
	var out BodyText
	var text strings.Builder

	inScript := false
	inStyle := false

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			break
		}

		switch tt {
		case html.TextToken:
			if inScript || inStyle || text.Len() >= maxIndexedText {
				continue
			}
			chunk := strings.TrimSpace(string(tokenizer.Text()))
			if chunk == "" {
				continue
			}
			if text.Len() > 0 {
				text.WriteString(" ")
			}
			text.WriteString(chunk)
		case html.StartTagToken, html.SelfClosingTagToken:
			token := tokenizer.Token()
			switch token.Data {
			case "script":
				inScript = tt == html.StartTagToken
			case "style":
				inStyle = tt == html.StartTagToken
			case "a":
				out.Links = appendAttr(out.Links, token, "href")
			case "img":
				out.Images = appendAttr(out.Images, token, "src")
			}
		case html.EndTagToken:
			token := tokenizer.Token()
			if token.Data == "script" {
				inScript = false
			} else if token.Data == "style" {
				inStyle = false
			}
		}
	}

	out.Text = text.String()
	return out
}

func appendAttr(dst []string, token html.Token, key string) []string {
	for _, attr := range token.Attr {
		if attr.Key == key && attr.Val != "" {
			dst = append(dst, attr.Val)
		}
	}
	return dst
}
