package markdown

import (
	"regexp"
	"strings"
)

var (
	sectionHeadingRe  = regexp.MustCompile(`^(#{1,6})\s+(.*)$`)
	ingredientsHeadRe = regexp.MustCompile(`^ingredients?\b`)
	stepsHeadRe       = regexp.MustCompile(`^(steps|directions?|method)\b`)
)

// RecipeSections holds the Markdown of a recipe split by its headings.
// An empty field means the recipe has no such section.
type RecipeSections struct {
	Ingredients string
	Steps       string
	Rest        string
}

// Sections splits md into ingredients, steps and everything else.
// Ingredient and step headings themselves are dropped; other headings stay in Rest.
// Lines inside a code fence are never headings.
func Sections(md string) RecipeSections {
	var ingredients, steps, rest []string
	current := &rest
	fence := ""

	for _, line := range strings.Split(lineEndings.Replace(md), "\n") {
		if marker := fenceMarker(line); marker != "" && (fence == "" || fence == marker) {
			if fence == "" {
				fence = marker
			} else {
				fence = ""
			}
		} else if fence != "" {
			*current = append(*current, line)
			continue
		}

		if m := sectionHeadingRe.FindStringSubmatch(strings.TrimSpace(line)); m != nil {
			title := strings.ToLower(strings.TrimSpace(m[2]))
			switch {
			case ingredientsHeadRe.MatchString(title):
				current = &ingredients
				continue
			case stepsHeadRe.MatchString(title):
				current = &steps
				continue
			default:
				current = &rest
			}
		}
		*current = append(*current, line)
	}

	return RecipeSections{
		Ingredients: strings.TrimSpace(strings.Join(ingredients, "\n")),
		Steps:       strings.TrimSpace(strings.Join(steps, "\n")),
		Rest:        strings.TrimSpace(strings.Join(rest, "\n")),
	}
}
