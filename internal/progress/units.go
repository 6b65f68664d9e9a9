package progress

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrUnknownUnit = errors.New("unknown unit")

const (
	KgPerLb = 0.45359237
	CmPerIn = 2.54
)

type WeightUnit string

const (
	Kilograms WeightUnit = "kg"
	Pounds    WeightUnit = "lb"
)

type LengthUnit string

const (
	Centimeters LengthUnit = "cm"
	Inches      LengthUnit = "in"
)

func ParseWeightUnit(s string) (WeightUnit, error) {
	switch u := WeightUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case Kilograms, Pounds:
		return u, nil
	default:
		return "", fmt.Errorf("%w: weight [%s]", ErrUnknownUnit, s)
	}
}

func ParseLengthUnit(s string) (LengthUnit, error) {
	switch u := LengthUnit(strings.ToLower(strings.TrimSpace(s))); u {
	case Centimeters, Inches:
		return u, nil
	default:
		return "", fmt.Errorf("%w: length [%s]", ErrUnknownUnit, s)
	}
}

func ToKg(v float64, from WeightUnit) float64 {
	if from == Pounds {
		return v * KgPerLb
	}
	return v
}

func FromKg(kg float64, to WeightUnit) float64 {
	if to == Pounds {
		return kg / KgPerLb
	}
	return kg
}

func ConvertWeight(v float64, from, to WeightUnit) float64 {
	if from == to {
		return v
	}
	return FromKg(ToKg(v, from), to)
}

func ToCm(v float64, from LengthUnit) float64 {
	if from == Inches {
		return v * CmPerIn
	}
	return v
}

func FromCm(cm float64, to LengthUnit) float64 {
	if to == Inches {
		return cm / CmPerIn
	}
	return cm
}

func ConvertLength(v float64, from, to LengthUnit) float64 {
	if from == to {
		return v
	}
	return FromCm(ToCm(v, from), to)
}

// Round is meant for display only; stored values are never rounded.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
