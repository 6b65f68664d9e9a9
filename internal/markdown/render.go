// Package markdown renders the small Markdown dialect used in plans, notes,
// exercise descriptions and recipes into HTML that is safe to embed as is.
//
// Supported blocks: headings (#, ##, ###), paragraphs, unordered lists with
// optional checkboxes, ordered lists ("1." or "1-"), fenced code (``` or ~~~).
// Supported inline spans: `code`, images, links, **bold**, *italic*.
package markdown

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	checkClass = "t-md-check"
	stepsClass = "t-steps"
)

var (
	headingRe   = regexp.MustCompile(`^(#{1,3})[ \t]+(.*)$`)
	unorderedRe = regexp.MustCompile(`^\s*[-*]\s+(.*)$`)
	orderedRe   = regexp.MustCompile(`^\s*\d+[.\-]\s+(.*)$`)
	checkboxRe  = regexp.MustCompile(`^\[( |x|X)\]\s+(.*)$`)
)

var lineEndings = strings.NewReplacer("\r\n", "\n", "\r", "\n", "\x00", "�")

// Render converts md into HTML. It never fails: anything it does not recognise
// ends up as escaped paragraph text.
func Render(md string) string {
	if md == "" {
		return ""
	}

	r := &renderer{lines: strings.Split(lineEndings.Replace(md), "\n")}
	r.run()
	return r.out.String()
}

type renderer struct {
	lines []string
	pos   int
	out   strings.Builder
}

func (r *renderer) run() {
	for r.pos < len(r.lines) {
		line := r.lines[r.pos]

		switch {
		case fenceMarker(line) != "":
			r.codeBlock(fenceMarker(line))
		case isBlank(line):
			r.out.WriteString("\n")
			r.pos++
		case headingRe.MatchString(line):
			m := headingRe.FindStringSubmatch(line)
			level := strconv.Itoa(len(m[1]))
			r.out.WriteString("<h" + level + ">" + formatInline(m[2]) + "</h" + level + ">")
			r.pos++
		case unorderedRe.MatchString(line):
			r.unorderedList()
		case orderedRe.MatchString(line):
			r.orderedList()
		default:
			r.paragraph()
		}
	}
}

func (r *renderer) codeBlock(marker string) {
	r.pos++ // opening fence

	var code []string
	for r.pos < len(r.lines) {
		line := r.lines[r.pos]
		r.pos++
		if fenceMarker(line) == marker {
			break
		}
		code = append(code, line)
	}

	// an unterminated fence is closed at the end of the input
	r.out.WriteString("<pre><code>" + escape(strings.Join(code, "\n")) + "</code></pre>")
}

func (r *renderer) unorderedList() {
	r.out.WriteString("<ul>")
	for r.pos < len(r.lines) {
		m := unorderedRe.FindStringSubmatch(r.lines[r.pos])
		if m == nil {
			break
		}
		r.pos++

		body := m[1]
		if cb := checkboxRe.FindStringSubmatch(body); cb != nil {
			input := `<input type="checkbox" disabled />`
			if strings.EqualFold(cb[1], "x") {
				input = `<input type="checkbox" disabled checked />`
			}
			r.out.WriteString(`<li><label class="` + checkClass + `">` + input + " " + formatInline(cb[2]) + "</label></li>")
			continue
		}
		r.out.WriteString("<li>" + formatInline(body) + "</li>")
	}
	r.out.WriteString("</ul>")
}

func (r *renderer) orderedList() {
	r.out.WriteString(`<ol class="` + stepsClass + `">`)
	for r.pos < len(r.lines) {
		m := orderedRe.FindStringSubmatch(r.lines[r.pos])
		if m == nil {
			break
		}
		r.pos++
		r.out.WriteString("<li>" + formatInline(m[1]) + "</li>")
	}
	r.out.WriteString("</ol>")
}

func (r *renderer) paragraph() {
	buf := []string{r.lines[r.pos]}
	r.pos++
	for r.pos < len(r.lines) && !startsBlock(r.lines[r.pos]) {
		buf = append(buf, r.lines[r.pos])
		r.pos++
	}

	html := formatInline(strings.Join(buf, "\n"))
	r.out.WriteString("<p>" + strings.ReplaceAll(html, "\n", "<br/>") + "</p>")
}

// startsBlock reports whether line ends a running paragraph.
func startsBlock(line string) bool {
	return isBlank(line) ||
		fenceMarker(line) != "" ||
		headingRe.MatchString(line) ||
		unorderedRe.MatchString(line) ||
		orderedRe.MatchString(line)
}

// fenceMarker returns "```" or "~~~" when line is a code fence, "" otherwise.
func fenceMarker(line string) string {
	switch strings.TrimSpace(line) {
	case "```":
		return "```"
	case "~~~":
		return "~~~"
	default:
		return ""
	}
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
