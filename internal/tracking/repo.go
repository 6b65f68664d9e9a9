package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/SoroushGhorbanimehr/tigo-app/internal/telemetry/tracing"
	"github.com/SoroushGhorbanimehr/tigo-app/pkg"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel/attribute"
)

var (
	ErrEntryNotFound  = errors.New("progress entry not found")
	ErrUnknownTrainee = errors.New("unknown trainee")
)

const entryColumns = `id, trainee_id, kind, site, exercise, value, reps, recorded_at, note`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func (r *Repo) Add(ctx context.Context, entry Entry) (_ *Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracking.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trainee", entry.TraineeID), attribute.String("kind", string(entry.Kind)))

	if err := r.db.QueryRow(
		ctx,
		`
			INSERT INTO progress_entry (trainee_id, kind, site, exercise, value, reps, recorded_at, note)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id;`,
		entry.TraineeID, string(entry.Kind), entry.Site, entry.Exercise, entry.Value, entry.Reps, entry.RecordedAt, entry.Note,
	).Scan(&entry.ID); err != nil {
		if pkg.IsForeignKeyViolationError(err) {
			return nil, ErrUnknownTrainee
		}
		if pkg.IsCheckViolationError(err) {
			return nil, ErrUnknownKind
		}
		return nil, fmt.Errorf("insert progress entry: %w", err)
	}

	return &entry, nil
}

// List returns the entries of a trainee oldest first. An empty kind lists all kinds.
func (r *Repo) List(ctx context.Context, traineeID int, kind Kind) (_ []Entry, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracking.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("trainee", traineeID), attribute.String("kind", string(kind)))

	rows, err := r.db.Query(
		ctx,
		`
			SELECT `+entryColumns+`
			FROM progress_entry
			WHERE trainee_id = $1 AND ($2 = '' OR kind = $2)
			ORDER BY recorded_at ASC, id ASC;`,
		traineeID, string(kind),
	)
	if err != nil {
		return nil, fmt.Errorf("list progress entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var (
			e       Entry
			kindStr string
		)
		if err := rows.Scan(
			&e.ID, &e.TraineeID, &kindStr, &e.Site, &e.Exercise, &e.Value, &e.Reps, &e.RecordedAt, &e.Note,
		); err != nil {
			return nil, err
		}
		e.Kind = Kind(kindStr)
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, traineeID, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.tracking.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM progress_entry WHERE trainee_id = $1 AND id = $2;`, traineeID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrEntryNotFound
	}
	return nil
}
