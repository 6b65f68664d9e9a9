package tracking

import (
	"errors"
	"strings"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/progress"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Kind string

const (
	KindWeight      Kind = "weight"
	KindMeasurement Kind = "measurement"
	KindStrength    Kind = "strength"
)

var ErrUnknownKind = errors.New("unknown entry kind")

func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindWeight, KindMeasurement, KindStrength:
		return k, nil
	default:
		return "", ErrUnknownKind
	}
}

// Entry is one recorded value. Value is canonical: kilograms for weight and
// strength entries, centimeters for measurements.
type Entry struct {
	ID         int       `json:"id"`
	TraineeID  int       `json:"traineeId"`
	Kind       Kind      `json:"kind"`
	Site       string    `json:"site,omitempty"`
	Exercise   string    `json:"exercise,omitempty"`
	Value      float64   `json:"value"`
	Reps       int       `json:"reps,omitempty"`
	RecordedAt time.Time `json:"recordedAt"`
	Note       string    `json:"note,omitempty"`
}

func (e Entry) Sample() progress.Sample {
	return progress.Sample{Value: e.Value, Time: e.RecordedAt, Note: e.Note}
}

// EntryView is an entry converted to the unit the reader asked for.
type EntryView struct {
	Entry
	Unit string `json:"unit"`
}

func (e Entry) View(weightUnit progress.WeightUnit, lengthUnit progress.LengthUnit) EntryView {
	view := EntryView{Entry: e}
	if e.Kind == KindMeasurement {
		view.Value = progress.FromCm(e.Value, lengthUnit)
		view.Unit = string(lengthUnit)
	} else {
		view.Value = progress.FromKg(e.Value, weightUnit)
		view.Unit = string(weightUnit)
	}
	return view
}

// EntryRequest is what clients send. Unit must match the kind: kg or lb for
// weight and strength, cm or in for measurements.
type EntryRequest struct {
	Kind       string     `json:"kind"`
	Site       string     `json:"site"`
	Exercise   string     `json:"exercise"`
	Value      float64    `json:"value"`
	Unit       string     `json:"unit"`
	Reps       int        `json:"reps"`
	RecordedAt *time.Time `json:"recordedAt"`
	Note       string     `json:"note"`
}

func (req EntryRequest) Validate() error {
	kind, _ := ParseKind(req.Kind)
	return validation.ValidateStruct(&req,
		validation.Field(&req.Kind, validation.Required, validation.By(func(any) error {
			if kind == "" {
				return ErrUnknownKind
			}
			return nil
		})),
		validation.Field(&req.Value, validation.Required, validation.Min(0.0).Exclusive()),
		validation.Field(&req.Unit, validation.By(func(any) error {
			return validUnit(kind, req.Unit)
		})),
		validation.Field(&req.Site, validation.When(kind == KindMeasurement, validation.Required), validation.Length(0, 60)),
		validation.Field(&req.Exercise, validation.When(kind == KindStrength, validation.Required), validation.Length(0, 120)),
		validation.Field(&req.Reps, validation.When(kind == KindStrength, validation.Required, validation.Min(1))),
		validation.Field(&req.Note, validation.Length(0, 2000)),
	)
}

func validUnit(kind Kind, unit string) error {
	if unit == "" {
		return nil
	}
	var err error
	switch kind {
	case KindMeasurement:
		_, err = progress.ParseLengthUnit(unit)
	case KindWeight, KindStrength:
		_, err = progress.ParseWeightUnit(unit)
	}
	return err
}

// ToEntry converts the request to canonical units. An empty unit means kg or cm.
// Call Validate first.
func (req EntryRequest) ToEntry(traineeID int, now time.Time) Entry {
	kind, _ := ParseKind(req.Kind)
	entry := Entry{
		TraineeID:  traineeID,
		Kind:       kind,
		RecordedAt: now,
		Note:       strings.TrimSpace(req.Note),
	}
	if req.RecordedAt != nil {
		entry.RecordedAt = *req.RecordedAt
	}

	switch kind {
	case KindMeasurement:
		unit, err := progress.ParseLengthUnit(req.Unit)
		if err != nil {
			unit = progress.Centimeters
		}
		entry.Site = strings.ToLower(strings.TrimSpace(req.Site))
		entry.Value = progress.ToCm(req.Value, unit)
	default:
		unit, err := progress.ParseWeightUnit(req.Unit)
		if err != nil {
			unit = progress.Kilograms
		}
		entry.Value = progress.ToKg(req.Value, unit)
		if kind == KindStrength {
			entry.Exercise = strings.TrimSpace(req.Exercise)
			entry.Reps = req.Reps
		}
	}

	return entry
}
