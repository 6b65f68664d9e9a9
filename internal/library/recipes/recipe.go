package recipes

import (
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/media"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Recipe struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (req CreateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required.Error("title is required"), validation.Length(1, 200)),
	)
}

// Patch is a partial update. Nil fields stay untouched, an empty description
// or image url clears it.
type Patch struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	ImageURL    *string `json:"imageUrl"`
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.When(p.Title != nil, validation.By(notBlank("title")))),
		validation.Field(&p.Slug, validation.When(p.Slug != nil, validation.By(notBlank("slug")))),
	)
}

// Sections is the rendered HTML of a recipe description split by headings.
type Sections struct {
	Ingredients string `json:"ingredients,omitempty"`
	Steps       string `json:"steps,omitempty"`
	Rest        string `json:"rest,omitempty"`
}

// View is everything the recipe page needs in one response.
type View struct {
	Recipe
	DescriptionHTML string         `json:"descriptionHtml"`
	Sections        Sections       `json:"sections"`
	Images          []string       `json:"images"`
	Album           []media.Object `json:"album"`
}

func notBlank(name string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(*string)
		if s == nil || strings.TrimSpace(*s) == "" {
			return validation.NewError("validation_blank", name+" cannot be blank")
		}
		return nil
	}
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
