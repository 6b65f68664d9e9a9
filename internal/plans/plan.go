package plans

import (
	"errors"
	"fmt"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/markdown"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// DailyPlan is what the coach prepares for one trainee and one calendar day.
// All three texts are Markdown.
type DailyPlan struct {
	TraineeID int        `json:"traineeId"`
	Date      string     `json:"date"`
	CoachNote string     `json:"coachNote"`
	Program   string     `json:"program"`
	Meal      string     `json:"meal"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

type PlanView struct {
	DailyPlan
	CoachNoteHTML string `json:"coachNoteHtml"`
	ProgramHTML   string `json:"programHtml"`
	MealHTML      string `json:"mealHtml"`
}

func NewPlanView(plan DailyPlan) PlanView {
	return PlanView{
		DailyPlan:     plan,
		CoachNoteHTML: markdown.Render(plan.CoachNote),
		ProgramHTML:   markdown.Render(plan.Program),
		MealHTML:      markdown.Render(plan.Meal),
	}
}

type NoteView struct {
	Date     string `json:"date"`
	Note     string `json:"note"`
	NoteHTML string `json:"noteHtml"`
}

// ParseDate accepts real calendar dates only, 2025-02-30 is rejected.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}
