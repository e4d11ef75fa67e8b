package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

// MemeRepository implements port.MemeRepository using PostgreSQL. Likes and
// comments live in their own tables; read paths stitch them back onto the
// meme aggregate.
type MemeRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewMemeRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewMemeRepository(exec pgExecutor) *MemeRepository {
	return &MemeRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new meme row.
func (r *MemeRepository) Create(ctx context.Context, meme domain.Meme) error {
	stmt, args, err := r.builder.Insert("meme.memes").
		Columns("id", "creator_id", "image_url", "caption", "tags", "created_at", "updated_at").
		Values(meme.ID, meme.CreatorID, meme.ImageURL, meme.Caption, meme.Tags, meme.CreatedAt, meme.UpdatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert meme sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert meme: %w", err)
	}

	return nil
}

// GetByID retrieves a meme aggregate including likes and comments.
func (r *MemeRepository) GetByID(ctx context.Context, id string) (*domain.Meme, error) {
	memes, err := r.selectMemes(ctx, squirrel.Eq{"m.id": id}, 1, 0)
	if err != nil {
		return nil, err
	}
	if len(memes) == 0 {
		return nil, repository.ErrNotFound
	}

	if err := r.attachLikesAndComments(ctx, memes); err != nil {
		return nil, err
	}

	return &memes[0], nil
}

// List retrieves memes newest first, optionally narrowed by creator or tag.
func (r *MemeRepository) List(ctx context.Context, filter port.MemeFilter) ([]domain.Meme, error) {
	pred := squirrel.And{}
	if filter.CreatorID != "" {
		pred = append(pred, squirrel.Eq{"m.creator_id": filter.CreatorID})
	}
	if filter.Tag != "" {
		pred = append(pred, squirrel.Expr("? = ANY(m.tags)", filter.Tag))
	}

	memes, err := r.selectMemes(ctx, pred, uint64(filter.Limit), uint64(filter.Offset))
	if err != nil {
		return nil, err
	}

	if err := r.attachLikesAndComments(ctx, memes); err != nil {
		return nil, err
	}

	return memes, nil
}

func (r *MemeRepository) selectMemes(ctx context.Context, pred any, limit, offset uint64) ([]domain.Meme, error) {
	query := r.builder.
		Select(
			"m.id",
			"m.creator_id",
			"m.image_url",
			"m.caption",
			"m.tags",
			"m.created_at",
			"m.updated_at",
			"a.username",
			"a.avatar_url",
		).
		From("meme.memes m").
		Join("meme.accounts a ON a.id = m.creator_id").
		OrderBy("m.created_at DESC")

	if and, ok := pred.(squirrel.And); !ok || len(and) > 0 {
		query = query.Where(pred)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select memes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select memes: %w", err)
	}
	defer rows.Close()

	var memes []domain.Meme
	for rows.Next() {
		var (
			meme      domain.Meme
			username  string
			avatarURL sql.NullString
		)
		if err := rows.Scan(
			&meme.ID,
			&meme.CreatorID,
			&meme.ImageURL,
			&meme.Caption,
			&meme.Tags,
			&meme.CreatedAt,
			&meme.UpdatedAt,
			&username,
			&avatarURL,
		); err != nil {
			return nil, fmt.Errorf("scan meme: %w", err)
		}

		ref := domain.AccountRef{ID: meme.CreatorID, Username: username}
		if avatarURL.Valid {
			val := avatarURL.String
			ref.AvatarURL = &val
		}
		meme.Creator = &ref
		meme.Likes = []string{}
		meme.Comments = []domain.Comment{}
		memes = append(memes, meme)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate memes: %w", err)
	}

	return memes, nil
}

func (r *MemeRepository) attachLikesAndComments(ctx context.Context, memes []domain.Meme) error {
	if len(memes) == 0 {
		return nil
	}

	ids := make([]string, 0, len(memes))
	index := make(map[string]*domain.Meme, len(memes))
	for i := range memes {
		ids = append(ids, memes[i].ID)
		index[memes[i].ID] = &memes[i]
	}

	if err := r.fetchLikes(ctx, ids, index); err != nil {
		return err
	}
	return r.fetchComments(ctx, ids, index)
}

func (r *MemeRepository) fetchLikes(ctx context.Context, ids []string, index map[string]*domain.Meme) error {
	stmt, args, err := r.builder.
		Select("meme_id", "account_id").
		From("meme.meme_likes").
		Where(squirrel.Eq{"meme_id": ids}).
		OrderBy("created_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build select likes sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("select likes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var memeID, accountID string
		if err := rows.Scan(&memeID, &accountID); err != nil {
			return fmt.Errorf("scan like: %w", err)
		}
		if meme, ok := index[memeID]; ok {
			meme.Likes = append(meme.Likes, accountID)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate likes: %w", err)
	}

	return nil
}

func (r *MemeRepository) fetchComments(ctx context.Context, ids []string, index map[string]*domain.Meme) error {
	stmt, args, err := r.builder.
		Select("c.id", "c.meme_id", "c.author_id", "c.body", "c.created_at", "a.username", "a.avatar_url").
		From("meme.meme_comments c").
		Join("meme.accounts a ON a.id = c.author_id").
		Where(squirrel.Eq{"c.meme_id": ids}).
		OrderBy("c.created_at ASC").
		ToSql()
	if err != nil {
		return fmt.Errorf("build select comments sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("select comments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return err
		}
		if meme, ok := index[comment.MemeID]; ok {
			meme.Comments = append(meme.Comments, comment)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate comments: %w", err)
	}

	return nil
}

func scanComment(row pgx.Row) (domain.Comment, error) {
	var (
		comment   domain.Comment
		username  string
		avatarURL sql.NullString
	)
	if err := row.Scan(
		&comment.ID,
		&comment.MemeID,
		&comment.AuthorID,
		&comment.Text,
		&comment.CreatedAt,
		&username,
		&avatarURL,
	); err != nil {
		return domain.Comment{}, err
	}

	ref := domain.AccountRef{ID: comment.AuthorID, Username: username}
	if avatarURL.Valid {
		val := avatarURL.String
		ref.AvatarURL = &val
	}
	comment.Author = &ref

	return comment, nil
}

// Update persists the mutable fields of a meme.
func (r *MemeRepository) Update(ctx context.Context, meme domain.Meme) error {
	stmt, args, err := r.builder.
		Update("meme.memes").
		Set("image_url", meme.ImageURL).
		Set("caption", meme.Caption).
		Set("tags", meme.Tags).
		Set("updated_at", meme.UpdatedAt).
		Where(squirrel.Eq{"id": meme.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update meme sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update meme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes a meme. Likes and comments cascade at the schema level.
func (r *MemeRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("meme.memes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete meme sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete meme: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddLike records a like. Duplicate likes surface as repository.ErrConflict.
func (r *MemeRepository) AddLike(ctx context.Context, memeID, accountID string) error {
	stmt, args, err := r.builder.
		Insert("meme.meme_likes").
		Columns("meme_id", "account_id").
		Values(memeID, accountID).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert like sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if mapped := mapWriteError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		return fmt.Errorf("insert like: %w", err)
	}

	return nil
}

// RemoveLike deletes a like if present.
func (r *MemeRepository) RemoveLike(ctx context.Context, memeID, accountID string) error {
	stmt, args, err := r.builder.
		Delete("meme.meme_likes").
		Where(squirrel.Eq{"meme_id": memeID, "account_id": accountID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete like sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// AddComment appends a comment to a meme.
func (r *MemeRepository) AddComment(ctx context.Context, comment domain.Comment) error {
	stmt, args, err := r.builder.
		Insert("meme.meme_comments").
		Columns("id", "meme_id", "author_id", "body", "created_at").
		Values(comment.ID, comment.MemeID, comment.AuthorID, comment.Text, comment.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert comment sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}

	return nil
}

// GetComment retrieves a single comment scoped to its meme.
func (r *MemeRepository) GetComment(ctx context.Context, memeID, commentID string) (*domain.Comment, error) {
	stmt, args, err := r.builder.
		Select("c.id", "c.meme_id", "c.author_id", "c.body", "c.created_at", "a.username", "a.avatar_url").
		From("meme.meme_comments c").
		Join("meme.accounts a ON a.id = c.author_id").
		Where(squirrel.Eq{"c.id": commentID, "c.meme_id": memeID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select comment sql: %w", err)
	}

	comment, err := scanComment(r.exec.QueryRow(ctx, stmt, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan comment: %w", err)
	}

	return &comment, nil
}

// DeleteComment removes a comment scoped to its meme.
func (r *MemeRepository) DeleteComment(ctx context.Context, memeID, commentID string) error {
	stmt, args, err := r.builder.
		Delete("meme.meme_comments").
		Where(squirrel.Eq{"id": commentID, "meme_id": memeID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete comment sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}
