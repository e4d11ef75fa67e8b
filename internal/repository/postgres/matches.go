package postgres

import (
	"context"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

// MatchRepository implements port.MatchRepository using PostgreSQL. Rows are
// stored with the pair normalized; a unique index on (user_a, user_b) makes
// duplicate matches impossible regardless of creation order.
type MatchRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMatchRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewMatchRepository(exec pgExecutor) *MatchRepository {
	return &MatchRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var matchColumns = []string{
	"id",
	"user_a",
	"user_b",
	"status",
	"matched_interests",
	"last_interaction",
	"created_at",
	"updated_at",
}

// Create inserts a match row. The pair must already be normalized.
func (r *MatchRepository) Create(ctx context.Context, match domain.Match) error {
	stmt, args, err := r.builder.Insert("meme.matches").
		Columns(matchColumns...).
		Values(
			match.ID,
			match.UserA,
			match.UserB,
			match.Status,
			match.MatchedInterests,
			match.LastInteraction,
			match.CreatedAt,
			match.UpdatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert match sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if mapped := mapWriteError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		return fmt.Errorf("insert match: %w", err)
	}

	return nil
}

// GetByID retrieves a match by identifier.
func (r *MatchRepository) GetByID(ctx context.Context, id string) (*domain.Match, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

// GetByPair retrieves the match between two accounts, if any. The arguments
// may arrive in either order.
func (r *MatchRepository) GetByPair(ctx context.Context, userA, userB string) (*domain.Match, error) {
	a, b := domain.NormalizePair(userA, userB)
	return r.getOne(ctx, squirrel.Eq{"user_a": a, "user_b": b})
}

func (r *MatchRepository) getOne(ctx context.Context, pred squirrel.Eq) (*domain.Match, error) {
	stmt, args, err := r.builder.
		Select(matchColumns...).
		From("meme.matches").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select match sql: %w", err)
	}

	var match domain.Match
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&match.ID,
		&match.UserA,
		&match.UserB,
		&match.Status,
		&match.MatchedInterests,
		&match.LastInteraction,
		&match.CreatedAt,
		&match.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan match: %w", err)
	}

	return &match, nil
}

// ListByUser retrieves every match the account participates in, most recently
// touched first.
func (r *MatchRepository) ListByUser(ctx context.Context, accountID string) ([]domain.Match, error) {
	stmt, args, err := r.builder.
		Select(matchColumns...).
		From("meme.matches").
		Where(squirrel.Or{
			squirrel.Eq{"user_a": accountID},
			squirrel.Eq{"user_b": accountID},
		}).
		OrderBy("last_interaction DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select matches sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}
	defer rows.Close()

	var matches []domain.Match
	for rows.Next() {
		var match domain.Match
		if err := rows.Scan(
			&match.ID,
			&match.UserA,
			&match.UserB,
			&match.Status,
			&match.MatchedInterests,
			&match.LastInteraction,
			&match.CreatedAt,
			&match.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}

	return matches, nil
}

// UpdateStatus transitions a match and refreshes its interaction time.
func (r *MatchRepository) UpdateStatus(ctx context.Context, id string, status domain.MatchStatus) error {
	stmt, args, err := r.builder.
		Update("meme.matches").
		Set("status", status).
		Set("last_interaction", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update match status sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update match status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a match row.
func (r *MatchRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("meme.matches").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete match sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete match: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
