package usecase

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap/zaptest"

	"github.com/AyushiSrivastava11/backend-memeMatch/internal/core/domain"
	"github.com/AyushiSrivastava11/backend-memeMatch/internal/infra/security"
)

func TestAccountGet(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	svc := NewAccountService(newMockAccountRepository(account), nil, zaptest.NewLogger(t))

	got, err := svc.Get(context.Background(), "acct-1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if got.PasswordHash != "" {
		t.Fatal("expected sanitized account")
	}

	if _, err := svc.Get(context.Background(), "ghost"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestUpdateInfoPartial(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	account.Bio = "old bio"
	accounts := newMockAccountRepository(account)
	svc := NewAccountService(accounts, nil, zaptest.NewLogger(t))

	bio := "  new bio  "
	interests := []string{" Cats ", "GOLANG", "", "cats"}
	got, err := svc.UpdateInfo(context.Background(), "acct-1", UpdateProfileInput{
		Bio:       &bio,
		Interests: interests,
	})
	if err != nil {
		t.Fatalf("UpdateInfo returned error: %v", err)
	}

	if got.Bio != "new bio" {
		t.Fatalf("unexpected bio %q", got.Bio)
	}
	if len(got.Interests) != 3 {
		t.Fatalf("unexpected interests %v", got.Interests)
	}
	if got.Interests[0] != "cats" || got.Interests[1] != "golang" {
		t.Fatalf("interests not normalized: %v", got.Interests)
	}
	// Username untouched.
	if got.Username != "meme_lord" {
		t.Fatalf("username should be unchanged, got %q", got.Username)
	}
}

func TestUpdateInfoRejectsBadUsername(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	svc := NewAccountService(newMockAccountRepository(account), nil, zaptest.NewLogger(t))

	bad := "no spaces allowed"
	if _, err := svc.UpdateInfo(context.Background(), "acct-1", UpdateProfileInput{Username: &bad}); err == nil {
		t.Fatal("expected error for invalid username")
	}
}

func TestUpdatePasswordSuccess(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	accounts := newMockAccountRepository(account)
	svc := NewAccountService(accounts, nil, zaptest.NewLogger(t))

	newPassword := "An0ther!Passw0rd"
	if err := svc.UpdatePassword(context.Background(), "acct-1", strongTestPassword, newPassword); err != nil {
		t.Fatalf("UpdatePassword returned error: %v", err)
	}

	if accounts.updatePasswordCalls != 1 {
		t.Fatalf("expected one password update, got %d", accounts.updatePasswordCalls)
	}
	if ok, _ := security.VerifyPassword(newPassword, accounts.updatedPasswordHash); !ok {
		t.Fatal("stored hash does not verify against the new password")
	}
}

func TestUpdatePasswordWrongCurrent(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	svc := NewAccountService(newMockAccountRepository(account), nil, zaptest.NewLogger(t))

	err := svc.UpdatePassword(context.Background(), "acct-1", "Wrong!Pass123", "An0ther!Passw0rd")
	if !errors.Is(err, ErrPasswordMismatch) {
		t.Fatalf("expected ErrPasswordMismatch, got %v", err)
	}
}

func TestUpdatePasswordRejectsSamePassword(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	svc := NewAccountService(newMockAccountRepository(account), nil, zaptest.NewLogger(t))

	err := svc.UpdatePassword(context.Background(), "acct-1", strongTestPassword, strongTestPassword)
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestUpdatePasswordSocialAccount(t *testing.T) {
	account := domain.Account{ID: "acct-1", Email: "social@example.com", Role: domain.RoleUser, IsVerified: true}
	svc := NewAccountService(newMockAccountRepository(account), nil, zaptest.NewLogger(t))

	err := svc.UpdatePassword(context.Background(), "acct-1", "whatever", "An0ther!Passw0rd")
	if !errors.Is(err, ErrNoPasswordSet) {
		t.Fatalf("expected ErrNoPasswordSet, got %v", err)
	}
}

func TestListAllRequiresAdmin(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	svc := NewAccountService(newMockAccountRepository(account), nil, zaptest.NewLogger(t))

	if _, err := svc.ListAll(context.Background(), testActor("acct-1", domain.RoleUser)); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}

	accounts, err := svc.ListAll(context.Background(), testActor("acct-admin", domain.RoleAdmin))
	if err != nil {
		t.Fatalf("ListAll returned error: %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].PasswordHash != "" {
		t.Fatal("expected sanitized accounts")
	}
}

func TestUpdateRole(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	accounts := newMockAccountRepository(account)
	svc := NewAccountService(accounts, nil, zaptest.NewLogger(t))
	admin := testActor("acct-admin", domain.RoleAdmin)

	updated, err := svc.UpdateRole(context.Background(), admin, "acct-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("UpdateRole returned error: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role, got %q", updated.Role)
	}

	if _, err := svc.UpdateRole(context.Background(), testActor("acct-2", domain.RoleUser), "acct-1", domain.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), admin, "acct-1", domain.Role("superuser")); !errors.Is(err, ErrInvalidRole) {
		t.Fatalf("expected ErrInvalidRole, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), admin, "ghost", domain.RoleUser); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
	if _, err := svc.UpdateRole(context.Background(), admin, admin.ID, domain.RoleUser); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-demotion, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	account := verifiedAccount(t, "acct-1", "lord@example.com", strongTestPassword)
	accounts := newMockAccountRepository(account)
	svc := NewAccountService(accounts, nil, zaptest.NewLogger(t))
	admin := testActor("acct-admin", domain.RoleAdmin)

	if err := svc.Delete(context.Background(), testActor("acct-2", domain.RoleUser), "acct-1"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
	if err := svc.Delete(context.Background(), admin, admin.ID); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for self-deletion, got %v", err)
	}

	if err := svc.Delete(context.Background(), admin, "acct-1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if err := svc.Delete(context.Background(), admin, "acct-1"); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound after delete, got %v", err)
	}
}
