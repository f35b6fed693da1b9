package feedsrc

import htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

// toMarkdown converts HTML content to Markdown, matching the original's use
// of the html2md crate. On conversion failure the raw HTML is kept rather
// than dropping the entry.
func toMarkdown(html string) string {
	if html == "" {
		return ""
	}
	md, err := htmltomarkdown.ConvertString(html)
	if err != nil {
		return html
	}
	return md
}
