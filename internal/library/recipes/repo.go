package recipes

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

var ErrRecipeNotFound = errors.New("recipe not found")

const recipeColumns = `id, title, slug, description, image_url, created_at`

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{
		db: db,
	}
}

func scanRecipe(row pgx.Row) (*Recipe, error) {
	var rcp Recipe
	if err := row.Scan(&rcp.ID, &rcp.Title, &rcp.Slug, &rcp.Description, &rcp.ImageURL, &rcp.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRecipeNotFound
		}
		return nil, err
	}
	return &rcp, nil
}

func (r *Repo) List(ctx context.Context) (_ []Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.list")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	rows, err := r.db.Query(ctx, `SELECT `+recipeColumns+` FROM recipe ORDER BY created_at DESC, id DESC;`)
	if err != nil {
		return nil, fmt.Errorf("list recipes: %w", err)
	}
	defer rows.Close()

	recipes := []Recipe{}
	for rows.Next() {
		rcp, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		recipes = append(recipes, *rcp)
	}

	return recipes, rows.Err()
}

func (r *Repo) Get(ctx context.Context, id int) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.get")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.Int("id", id))

	return scanRecipe(r.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipe WHERE id = $1;`, id))
}

func (r *Repo) GetBySlug(ctx context.Context, slug string) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.getBySlug")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("slug", slug))

	return scanRecipe(r.db.QueryRow(ctx, `SELECT `+recipeColumns+` FROM recipe WHERE slug = $1;`, slug))
}

func (r *Repo) Add(ctx context.Context, recipe *Recipe) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.add")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	added, err := scanRecipe(r.db.QueryRow(
		ctx,
		`INSERT INTO recipe (title, slug, description, image_url) VALUES ($1, $2, $3, $4) RETURNING `+recipeColumns+`;`,
		recipe.Title, recipe.Slug, recipe.Description, recipe.ImageURL,
	))
	if err != nil {
		if pkg.IsUniqueViolationError(err) {
			return nil, library.ErrSlugTaken
		}
		return nil, fmt.Errorf("insert recipe: %w", err)
	}

	return added, nil
}

func (r *Repo) Update(ctx context.Context, id int, patch Patch) (_ *Recipe, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.update")
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
	if patch.Description != nil {
		set("description", optional(*patch.Description))
	}
	if patch.ImageURL != nil {
		set("image_url", optional(*patch.ImageURL))
	}
	if len(sets) == 0 {
		return r.Get(ctx, id)
	}

	args = append(args, id)
	updated, err := scanRecipe(r.db.QueryRow(
		ctx,
		fmt.Sprintf(`UPDATE recipe SET %s WHERE id = $%d RETURNING %s;`, strings.Join(sets, ", "), len(args), recipeColumns),
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

func (r *Repo) SetImageURL(ctx context.Context, id int, url string) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.setImageUrl")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `UPDATE recipe SET image_url = $1 WHERE id = $2;`, url, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id int) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "repo.recipes.delete")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	tag, err := r.db.Exec(ctx, `DELETE FROM recipe WHERE id = $1;`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrRecipeNotFound
	}
	return nil
}
