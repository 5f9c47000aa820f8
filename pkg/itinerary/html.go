package itinerary

import (
	"strings"

	"golang.org/x/net/html"
)

// StripHTML reduces pasted rich text to plain text. Script and style bodies
// are discarded; block boundaries become newlines so place names written on
// separate lines stay separated.
func StripHTML(input string) string {
	if !strings.Contains(input, "<") {
		return strings.TrimSpace(input)
	}

	tokenizer := html.NewTokenizer(strings.NewReader(input))
	var sb strings.Builder
	skipDepth := 0

	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return collapseWhitespace(sb.String())
		case html.StartTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				skipDepth++
			case "br", "p", "div", "li", "tr", "h1", "h2", "h3", "h4":
				sb.WriteByte('\n')
			}
		case html.EndTagToken:
			name, _ := tokenizer.TagName()
			switch string(name) {
			case "script", "style":
				if skipDepth > 0 {
					skipDepth--
				}
			case "p", "div", "li", "tr", "h1", "h2", "h3", "h4":
				sb.WriteByte('\n')
			}
		case html.TextToken:
			if skipDepth == 0 {
				sb.Write(tokenizer.Text())
			}
		}
	}
}

func collapseWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}
