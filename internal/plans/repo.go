package plans

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrPlanNotFound   = errors.New("daily plan not found")
	ErrUnknownTrainee = errors.New("unknown trainee")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) GetDailyPlan(ctx context.Context, traineeID int, date time.Time) (_ *DailyPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trainee", traineeID))

	plan := DailyPlan{
		TraineeID: traineeID,
		Date:      date.Format(DateLayout),
	}
	var updatedAt time.Time
	if err := r.db.QueryRow(
		ctx,
		`
			SELECT
				coach_note, program, meal, updated_at
			FROM daily_plan
			WHERE trainee_id = $1 AND date = $2;`,
		traineeID, date,
	).Scan(&plan.CoachNote, &plan.Program, &plan.Meal, &updatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	plan.UpdatedAt = &updatedAt

	return &plan, nil
}

func (r *Repo) UpsertDailyPlan(ctx context.Context, plan DailyPlan, date time.Time) (_ *DailyPlan, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.upsert")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trainee", plan.TraineeID))

	var updatedAt time.Time
	if err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO daily_plan (trainee_id, date, coach_note, program, meal, updated_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (trainee_id, date) DO UPDATE SET
				coach_note = EXCLUDED.coach_note,
				program = EXCLUDED.program,
				meal = EXCLUDED.meal,
				updated_at = now()
			RETURNING updated_at;`,
		plan.TraineeID, date, plan.CoachNote, plan.Program, plan.Meal,
	).Scan(&updatedAt); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownTrainee
		}
		return nil, fmt.Errorf("upsert daily plan: %w", err)
	}

	plan.Date = date.Format(DateLayout)
	plan.UpdatedAt = &updatedAt
	return &plan, nil
}

// LoadNotes returns all notes of a trainee keyed by YYYY-MM-DD.
func (r *Repo) LoadNotes(ctx context.Context, traineeID int) (_ map[string]string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.loadNotes")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trainee", traineeID))

	rows, err := r.db.Query(ctx, `SELECT date, note FROM trainee_note WHERE trainee_id = $1;`, traineeID)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	defer rows.Close()

	notes := map[string]string{}
	for rows.Next() {
		var (
			date time.Time
			note string
		)
		if err := rows.Scan(&date, &note); err != nil {
			return nil, err
		}
		notes[date.Format(DateLayout)] = note
	}

	return notes, rows.Err()
}

func (r *Repo) SaveNote(ctx context.Context, traineeID int, date time.Time, note string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.plans.saveNote")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trainee", traineeID))

	if _, err := r.db.Exec(
		ctx,
		`
			INSERT INTO trainee_note (trainee_id, date, note, updated_at)
			VALUES ($1, $2, $3, now())
			ON CONFLICT (trainee_id, date) DO UPDATE SET
				note = EXCLUDED.note,
				updated_at = now();`,
		traineeID, date, note,
	); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return ErrUnknownTrainee
		}
		return fmt.Errorf("save note: %w", err)
	}

	return nil
}
