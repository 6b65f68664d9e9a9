package exercises

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/library"
	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var ErrExerciseNotFound = errors.New("exercise not found")

const exerciseColumns = `id, title, slug, muscle_group, equipment, description, video_url, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanExercise(row pgx.Row) (*Exercise, error) {
	var e Exercise
	if err := row.Scan(
		&e.ID, &e.Title, &e.Slug, &e.MuscleGroup, &e.Equipment, &e.Description, &e.VideoURL, &e.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *Repo) List(ctx context.Context) (_ []Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercise ORDER BY created_at DESC, id DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list exercises: %w", err)
	}
	defer rows.Close()

	exercises := []Exercise{}
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, err
		}
		exercises = append(exercises, *e)
	}

	return exercises, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return scanExercise(r.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercise WHERE id = $1;`, id))
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.getBySlug")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("slug", slug))

	return scanExercise(r.db.QueryRow(ctx, `SELECT `+exerciseColumns+` FROM exercise WHERE slug = $1;`, slug))
}

func (r *Repo) Add(ctx context.Context, exercise *Exercise) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	added, err := scanExercise(r.db.QueryRow(
		ctx,
		`
			INSERT INTO exercise (title, slug, muscle_group, equipment, description, video_url)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+exerciseColumns+`;`,
		exercise.Title, exercise.Slug, exercise.MuscleGroup, exercise.Equipment, exercise.Description, exercise.VideoURL,
	))
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, library.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert exercise: %w", err)
	}

	return added, nil
}

func (r *Repo) Update(ctx context.Context, id int, patch Patch) (_ *Exercise, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.update")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	var (
		sets []string
		args []any
	)
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		set("title", strings.TrimSpace(*patch.Title))
	}
	if patch.Slug != nil {
		set("slug", *patch.Slug)
	}
	if patch.MuscleGroup != nil {
		set("muscle_group", optional(*patch.MuscleGroup))
	}
	if patch.Equipment != nil {
		set("equipment", optional(*patch.Equipment))
	}
	if patch.Description != nil {
		set("description", optional(*patch.Description))
	}
	if patch.VideoURL != nil {
		set("video_url", optional(*patch.VideoURL))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	updated, err := scanExercise(r.db.QueryRow(
		ctx,
		fmt.Sprintf(`UPDATE exercise SET %s WHERE id = $%d RETURNING %s;`, strings.Join(sets, ", "), len(args), exerciseColumns),
		args...,
	))
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, library.ErrSlugTaken
		}
		return nil, err
	}

	return updated, nil
}

func (r *Repo) SetVideoURL(ctx context.Context, id int, url string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.exercises.setVideoUrl")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `UPDATE exercise SET video_url = $1 WHERE id = $2;`, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExerciseNotFound
	}
	return nil
}
