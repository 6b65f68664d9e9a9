package exercises

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Exercise struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	MuscleGroup *string   `json:"muscleGroup,omitempty"`
	Equipment   *string   `json:"equipment,omitempty"`
	Description *string   `json:"description,omitempty"`
	VideoURL    *string   `json:"videoUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateRequest struct {
	Title       string `json:"title"`
	MuscleGroup string `json:"muscleGroup"`
	Equipment   string `json:"equipment"`
	Description string `json:"description"`
}

func (req CreateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.Required.Error("title is required"), validation.Length(1, 200)),
		validation.Field(&req.MuscleGroup, validation.Length(0, 100)),
		validation.Field(&req.Equipment, validation.Length(0, 100)),
	)
}

// Patch is a partial update. Nil fields stay untouched, an empty string clears
// an optional field.
type Patch struct {
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	MuscleGroup *string `json:"muscleGroup"`
	Equipment   *string `json:"equipment"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl"`
}

func (p Patch) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Title, validation.When(p.Title != nil, validation.By(notBlank("title")))),
		validation.Field(&p.Slug, validation.When(p.Slug != nil, validation.By(notBlank("slug")))),
	)
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.MuscleGroup == nil &&
		p.Equipment == nil && p.Description == nil && p.VideoURL == nil
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
