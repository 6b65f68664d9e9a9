package trainees

import (
	"context"
	"errors"
	"fmt"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTraineeNotFound = errors.New("trainee not found")
	ErrEmailTaken      = errors.New("email already registered")
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, trainee *Trainee) (_ *Trainee, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainees.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := r.db.QueryRow(
		ctx,
		`INSERT INTO trainee (full_name, email, password_hash) VALUES ($1, $2, $3) RETURNING id, created_at;`,
		trainee.FullName, trainee.Email, trainee.PasswordHash,
	).Scan(&trainee.ID, &trainee.CreatedAt); err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert trainee: %w", err)
	}

	return trainee, nil
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Trainee, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainees.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `SELECT id, full_name, email, password_hash, created_at FROM trainee WHERE id = $1;`, id)
}

func (r *Repo) GetByEmail(ctx context.Context, email string) (_ *Trainee, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainees.getByEmail")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return r.getOne(ctx, `SELECT id, full_name, email, password_hash, created_at FROM trainee WHERE email = $1;`, email)
}

func (r *Repo) getOne(ctx context.Context, query string, arg any) (*Trainee, error) {
	var t Trainee
	if err := r.db.QueryRow(ctx, query, arg).Scan(
		&t.ID, &t.FullName, &t.Email, &t.PasswordHash, &t.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrTraineeNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *Repo) List(ctx context.Context) (_ []Trainee, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.trainees.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(
		ctx,
		`
			SELECT
				id, full_name, email, password_hash, created_at
			FROM trainee
			ORDER BY created_at ASC, id ASC;`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trainees := []Trainee{}
	for rows.Next() {
		var t Trainee
		if err := rows.Scan(&t.ID, &t.FullName, &t.Email, &t.PasswordHash, &t.CreatedAt); err != nil {
			return nil, err
		}
		trainees = append(trainees, t)
	}

	return trainees, rows.Err()
}
