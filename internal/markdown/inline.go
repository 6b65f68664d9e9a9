package markdown

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

const linkClass = "t-link"

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// Inline rules run on already escaped text, so quotes around titles show up as &quot;.
var (
	codeSpanRe = regexp.MustCompile("`([^`]+?)`")
	imageRe    = regexp.MustCompile(`!\[([^\]]*)\]\(([^\s)]+)(?:\s+&quot;(.*?)&quot;)?\)`)
	linkRe     = regexp.MustCompile(`\[([^\]]+)\]\(([^\s)]+)(?:\s+&quot;(.*?)&quot;)?\)`)
	boldRe     = regexp.MustCompile(`\*\*([^*]+?)\*\*`)
	italicRe   = regexp.MustCompile(`\*([^*]+?)\*`)
)

func escape(s string) string {
	return htmlEscaper.Replace(s)
}

// formatInline escapes raw and applies the inline rules in order:
// code spans, images, links, bold, italic.
func formatInline(raw string) string {
	sp := &spans{}

	s := escape(raw)
	s = codeSpanRe.ReplaceAllStringFunc(s, func(m string) string {
		inner := m[1 : len(m)-1]
		return sp.hold("<code>"+inner+"</code>", inner)
	})
	s = imageRe.ReplaceAllStringFunc(s, sp.image)
	s = linkRe.ReplaceAllStringFunc(s, sp.link)
	s = emphasis(s)

	return sp.restore(s)
}

func emphasis(s string) string {
	s = boldRe.ReplaceAllString(s, "<strong>${1}</strong>")
	return italicRe.ReplaceAllString(s, "<em>${1}</em>")
}

// spans keeps finished HTML fragments out of reach of later rules.
// Each fragment is replaced by a NUL delimited index, NUL never survives input normalisation.
type spans struct {
	html  []string
	plain []string
}

func (sp *spans) hold(html, plain string) string {
	sp.html = append(sp.html, html)
	sp.plain = append(sp.plain, plain)
	return placeholder(len(sp.html) - 1)
}

func (sp *spans) restore(s string) string {
	// fragments only ever contain fragments held before them
	for i := len(sp.html) - 1; i >= 0; i-- {
		s = strings.ReplaceAll(s, placeholder(i), sp.html[i])
	}
	return s
}

// text restores held fragments as plain escaped text, for use inside attributes.
func (sp *spans) text(s string) string {
	for i := len(sp.plain) - 1; i >= 0; i-- {
		s = strings.ReplaceAll(s, placeholder(i), sp.plain[i])
	}
	return s
}

func (sp *spans) image(m string) string {
	parts := imageRe.FindStringSubmatch(m)
	src, ok := safeURL(parts[2])
	if !ok {
		return m
	}

	alt := sp.text(parts[1])
	tag := `<img src="` + src + `" alt="` + alt + `"`
	if parts[3] != "" {
		tag += ` title="` + sp.text(parts[3]) + `"`
	}
	tag += " />"

	return sp.hold(tag, alt)
}

func (sp *spans) link(m string) string {
	parts := linkRe.FindStringSubmatch(m)
	href, ok := safeURL(parts[2])
	if !ok {
		return m
	}

	tag := `<a href="` + href + `" target="_blank" rel="noopener noreferrer" class="` + linkClass + `"`
	if parts[3] != "" {
		tag += ` title="` + sp.text(parts[3]) + `"`
	}
	tag += ">" + emphasis(parts[1]) + "</a>"

	return sp.hold(tag, sp.text(parts[1]))
}

// safeURL accepts http(s) and root relative URLs. The URL is passed in escaped form
// and returned as is, ready for an attribute value.
func safeURL(escaped string) (string, bool) {
	if strings.ContainsRune(escaped, 0) {
		return "", false
	}

	raw := html.UnescapeString(escaped)
	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, "https://"):
		return escaped, len(raw) > len("https://")
	case strings.HasPrefix(lower, "http://"):
		return escaped, len(raw) > len("http://")
	case strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//"):
		return escaped, true
	default:
		return "", false
	}
}

func placeholder(i int) string {
	return "\x00" + strconv.Itoa(i) + "\x00"
}
