package markdown

import (
	"regexp"

	"github.com/yuin/goldmark"
	gmast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

var imageDestinationRe = regexp.MustCompile(`(?i)^(https?:|data:)`)

// ImageURLs returns the destinations of all Markdown images in md, in document order.
// Only http(s) and data: URLs are reported.
func ImageURLs(md string) []string {
	source := []byte(lineEndings.Replace(md))
	root := goldmark.New().Parser().Parse(text.NewReader(source))

	var urls []string
	_ = gmast.Walk(root, func(n gmast.Node, entering bool) (gmast.WalkStatus, error) {
		if !entering {
			return gmast.WalkContinue, nil
		}
		if img, ok := n.(*gmast.Image); ok {
			dest := string(img.Destination)
			if imageDestinationRe.MatchString(dest) {
				urls = append(urls, dest)
			}
		}
		return gmast.WalkContinue, nil
	})

	return urls
}
