package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

// AccountRepository implements port.AccountRepository using PostgreSQL.
type AccountRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAccountRepository constructs a repository backed by any executor that
// satisfies pgExecutor.
func NewAccountRepository(exec pgExecutor) *AccountRepository {
	return &AccountRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

var accountColumns = []string{
	"id",
	"username",
	"email",
	"role",
	"is_verified",
	"avatar_url",
	"bio",
	"interests",
	"last_login",
	"created_at",
	"updated_at",
}

// Create inserts a new account row.
func (r *AccountRepository) Create(ctx context.Context, account domain.Account) error {
	query := r.builder.Insert("meme.accounts").
		Columns(
			"id",
			"username",
			"email",
			"password_hash",
			"role",
			"is_verified",
			"avatar_url",
			"bio",
			"interests",
			"last_login",
			"created_at",
			"updated_at",
		).
		Values(
			account.ID,
			account.Username,
			account.Email,
			account.PasswordHash,
			account.Role,
			account.IsVerified,
			account.AvatarURL,
			account.Bio,
			account.Interests,
			account.LastLogin,
			account.CreatedAt,
			account.UpdatedAt,
		)

	stmt, args, err := query.ToSql()
	if err != nil {
		return fmt.Errorf("build insert account sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		if mapped := mapWriteError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}

// GetByID retrieves an account by identifier without credential material.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, false)
}

// GetByEmail retrieves an account by email without credential material.
func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, false)
}

// GetByEmailWithPassword retrieves an account by email including the password
// hash. Login and password-change flows are the only callers.
func (r *AccountRepository) GetByEmailWithPassword(ctx context.Context, email string) (*domain.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"email": email}, true)
}

// GetByIDWithPassword retrieves an account by id including the password hash.
func (r *AccountRepository) GetByIDWithPassword(ctx context.Context, id string) (*domain.Account, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id}, true)
}

func (r *AccountRepository) getOne(ctx context.Context, pred squirrel.Eq, withPassword bool) (*domain.Account, error) {
	columns := accountColumns
	if withPassword {
		columns = append([]string{}, accountColumns...)
		columns = append(columns, "password_hash")
	}

	stmt, args, err := r.builder.
		Select(columns...).
		From("meme.accounts").
		Where(pred).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account sql: %w", err)
	}

	row := r.exec.QueryRow(ctx, stmt, args...)

	var (
		account   domain.Account
		avatarURL sql.NullString
		lastLogin *time.Time
	)

	dest := []any{
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Role,
		&account.IsVerified,
		&avatarURL,
		&account.Bio,
		&account.Interests,
		&lastLogin,
		&account.CreatedAt,
		&account.UpdatedAt,
	}
	if withPassword {
		dest = append(dest, &account.PasswordHash)
	}

	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if avatarURL.Valid {
		val := avatarURL.String
		account.AvatarURL = &val
	}
	account.LastLogin = lastLogin

	return &account, nil
}

// UpdateProfile persists the mutable profile fields of an account.
func (r *AccountRepository) UpdateProfile(ctx context.Context, account domain.Account) error {
	stmt, args, err := r.builder.
		Update("meme.accounts").
		Set("username", account.Username).
		Set("avatar_url", account.AvatarURL).
		Set("bio", account.Bio).
		Set("interests", account.Interests).
		Set("updated_at", account.UpdatedAt).
		Where(squirrel.Eq{"id": account.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update account sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		if mapped := mapWriteError(err); errors.Is(mapped, repository.ErrConflict) {
			return mapped
		}
		return fmt.Errorf("update account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepository) UpdatePassword(ctx context.Context, id, passwordHash string, changedAt time.Time) error {
	stmt, args, err := r.builder.
		Update("meme.accounts").
		Set("password_hash", passwordHash).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update password sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// UpdateLastLogin stamps the account's last successful login time.
func (r *AccountRepository) UpdateLastLogin(ctx context.Context, id string, at time.Time) error {
	stmt, args, err := r.builder.
		Update("meme.accounts").
		Set("last_login", at).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update last login sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("update last login: %w", err)
	}

	return nil
}

// List returns every account without credential material, newest first.
func (r *AccountRepository) List(ctx context.Context) ([]domain.Account, error) {
	stmt, args, err := r.builder.
		Select(accountColumns...).
		From("meme.accounts").
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select accounts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var (
			account   domain.Account
			avatarURL sql.NullString
			lastLogin *time.Time
		)
		if err := rows.Scan(
			&account.ID,
			&account.Username,
			&account.Email,
			&account.Role,
			&account.IsVerified,
			&avatarURL,
			&account.Bio,
			&account.Interests,
			&lastLogin,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		if avatarURL.Valid {
			val := avatarURL.String
			account.AvatarURL = &val
		}
		account.LastLogin = lastLogin
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return accounts, nil
}

// UpdateRole changes the account's role.
func (r *AccountRepository) UpdateRole(ctx context.Context, id string, role domain.Role, changedAt time.Time) error {
	stmt, args, err := r.builder.
		Update("meme.accounts").
		Set("role", role).
		Set("updated_at", changedAt).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update role sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// Delete removes the account row.
func (r *AccountRepository) Delete(ctx context.Context, id string) error {
	stmt, args, err := r.builder.
		Delete("meme.accounts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete account sql: %w", err)
	}

	tag, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// GetRefs returns the minimal projections for the given account ids. Missing
// ids are silently skipped.
func (r *AccountRepository) GetRefs(ctx context.Context, ids []string) ([]domain.AccountRef, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	stmt, args, err := r.builder.
		Select("id", "username", "avatar_url").
		From("meme.accounts").
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select account refs sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("select account refs: %w", err)
	}
	defer rows.Close()

	refs := make([]domain.AccountRef, 0, len(ids))
	for rows.Next() {
		var (
			ref       domain.AccountRef
			avatarURL sql.NullString
		)
		if err := rows.Scan(&ref.ID, &ref.Username, &avatarURL); err != nil {
			return nil, fmt.Errorf("scan account ref: %w", err)
		}
		if avatarURL.Valid {
			val := avatarURL.String
			ref.AvatarURL = &val
		}
		refs = append(refs, ref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account refs: %w", err)
	}

	return refs, nil
}
