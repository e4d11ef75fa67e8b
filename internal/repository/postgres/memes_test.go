package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/port"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/repository"
)

func TestMemeRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMemeRepository(mock)

	now := time.Now().UTC()
	meme := domain.Meme{
		ID:        "meme-1",
		CreatorID: "acct-1",
		ImageURL:  "https://cdn.example.com/meme-1.png",
		Caption:   "it compiles",
		Tags:      []string{"golang"},
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectExec(`INSERT INTO meme\.memes`).
		WithArgs(meme.ID, meme.CreatorID, meme.ImageURL, meme.Caption, meme.Tags, meme.CreatedAt, meme.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Create(context.Background(), meme); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemeRepository_GetByIDStitchesLikesAndComments(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMemeRepository(mock)

	now := time.Now().UTC()

	memeRows := pgxmock.NewRows([]string{
		"id", "creator_id", "image_url", "caption", "tags", "created_at", "updated_at",
		"username", "avatar_url",
	}).AddRow("meme-1", "acct-1", "https://cdn.example.com/m.png", "cap", []string{"cats"}, now, now, "meme_lord", nil)

	mock.ExpectQuery(`SELECT .+ FROM meme\.memes m JOIN meme\.accounts a`).
		WithArgs("meme-1").
		WillReturnRows(memeRows)

	mock.ExpectQuery(`SELECT meme_id, account_id FROM meme\.meme_likes`).
		WithArgs("meme-1").
		WillReturnRows(pgxmock.NewRows([]string{"meme_id", "account_id"}).
			AddRow("meme-1", "acct-2").
			AddRow("meme-1", "acct-3"))

	mock.ExpectQuery(`SELECT .+ FROM meme\.meme_comments c JOIN meme\.accounts a`).
		WithArgs("meme-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "meme_id", "author_id", "body", "created_at", "username", "avatar_url",
		}).AddRow("cmt-1", "meme-1", "acct-2", "lol", now, "other_user", nil))

	meme, err := repo.GetByID(context.Background(), "meme-1")
	if err != nil {
		t.Fatalf("GetByID returned error: %v", err)
	}

	if meme.Creator == nil || meme.Creator.Username != "meme_lord" {
		t.Fatalf("expected creator projection, got %+v", meme.Creator)
	}
	if len(meme.Likes) != 2 || !meme.LikedBy("acct-3") {
		t.Fatalf("unexpected likes %v", meme.Likes)
	}
	if len(meme.Comments) != 1 || meme.Comments[0].Text != "lol" {
		t.Fatalf("unexpected comments %+v", meme.Comments)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemeRepository_ListByCreator(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMemeRepository(mock)

	mock.ExpectQuery(`SELECT .+ FROM meme\.memes m JOIN meme\.accounts a ON a\.id = m\.creator_id WHERE \(m\.creator_id = \$1\)`).
		WithArgs("acct-1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "creator_id", "image_url", "caption", "tags", "created_at", "updated_at",
			"username", "avatar_url",
		}))

	memes, err := repo.List(context.Background(), port.MemeFilter{CreatorID: "acct-1"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if len(memes) != 0 {
		t.Fatalf("expected no memes, got %d", len(memes))
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemeRepository_AddLikeDuplicate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMemeRepository(mock)

	mock.ExpectExec(`INSERT INTO meme\.meme_likes`).
		WithArgs("meme-1", "acct-1").
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "meme_likes_pkey"})

	if err := repo.AddLike(context.Background(), "meme-1", "acct-1"); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestMemeRepository_DeleteCommentNotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewMemeRepository(mock)

	mock.ExpectExec(`DELETE FROM meme\.meme_comments`).
		WithArgs("cmt-404", "meme-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err = repo.DeleteComment(context.Background(), "meme-1", "cmt-404")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
