package prefs

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/progress"
)

const (
	KeyDisplayUnit  = "progress.displayUnit"
	KeyGoalWeightKg = "progress.goalWeightKg"
)

// TraineeKey scopes a preference name to one trainee.
func TraineeKey(traineeID int, name string) string {
	return fmt.Sprintf("trainee:%d:%s", traineeID, name)
}

// ProgressSettings are the per trainee choices for the progress dashboard.
type ProgressSettings struct {
	DisplayUnit  progress.WeightUnit `json:"displayUnit"`
	GoalWeightKg *float64            `json:"goalWeightKg,omitempty"`
}

func LoadProgressSettings(ctx context.Context, repo Repository, traineeID int) (ProgressSettings, error) {
	settings := ProgressSettings{DisplayUnit: progress.Kilograms}

	unit, err := repo.Get(ctx, TraineeKey(traineeID, KeyDisplayUnit))
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return settings, err
	default:
		if u, err := progress.ParseWeightUnit(unit); err == nil {
			settings.DisplayUnit = u
		}
	}

	goal, err := repo.Get(ctx, TraineeKey(traineeID, KeyGoalWeightKg))
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		return settings, err
	default:
		if g, err := strconv.ParseFloat(goal, 64); err == nil {
			settings.GoalWeightKg = &g
		}
	}

	return settings, nil
}

func SaveProgressSettings(ctx context.Context, repo Repository, traineeID int, settings ProgressSettings) error {
	unit, err := progress.ParseWeightUnit(string(settings.DisplayUnit))
	if err != nil {
		return err
	}
	if err := repo.Set(ctx, TraineeKey(traineeID, KeyDisplayUnit), string(unit)); err != nil {
		return err
	}

	goal := ""
	if settings.GoalWeightKg != nil {
		goal = strconv.FormatFloat(*settings.GoalWeightKg, 'f', -1, 64)
	}
	return repo.Set(ctx, TraineeKey(traineeID, KeyGoalWeightKg), goal)
}
