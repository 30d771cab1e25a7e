package services

import (
	"errors"
	"testing"
	"time"

	"github.com/arunanksharan/rivo/internal/dto"
	"github.com/arunanksharan/rivo/internal/models"
)

func newAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	tokens := NewTokenManager("test-secret", 30*time.Minute, 168*time.Hour)
	return NewAuthService(db, tokens, nil)
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{
		Email:    "Alice@Example.COM",
		Password: "supersecret",
		FullName: "Alice",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.User.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", resp.User.Email)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Error("expected token pair")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("token_type = %q", resp.TokenType)
	}

	login, err := svc.Login(&dto.LoginRequest{Username: "alice@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != resp.User.ID {
		t.Error("login resolved a different user")
	}

	if _, err := svc.Login(&dto.LoginRequest{Username: "alice@example.com", Password: "wrong-password"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("bad password err = %v, want ErrInvalidCredentials", err)
	}
	if _, err := svc.Login(&dto.LoginRequest{Username: "nobody@example.com", Password: "supersecret"}); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown user err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	req := dto.RegisterRequest{Email: "bob@example.com", Password: "supersecret"}
	if _, err := svc.Register(&req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(&req); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}

	// Same address, different case.
	req.Email = "BOB@example.com"
	if _, err := svc.Register(&req); !errors.Is(err, ErrDuplicateEmail) {
		t.Errorf("case-variant err = %v, want ErrDuplicateEmail", err)
	}
}

func TestDuplicateEmailConstraintTranslated(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&dto.RegisterRequest{Email: "gina@example.com", Password: "supersecret"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	// Insert that bypasses the service pre-check, as the loser of a
	// concurrent registration race would. The unique index violation must
	// still surface as the duplicate-email error.
	dup := models.User{Email: "gina@example.com", AuthProvider: "email", IsActive: true}
	err := svc.db.Create(&dup).Error
	if err == nil {
		t.Fatal("unique index did not fire")
	}
	if !errors.Is(translateDBError(err), ErrDuplicateEmail) {
		t.Errorf("translated err = %v, want ErrDuplicateEmail", translateDBError(err))
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newAuthService(t)

	if _, err := svc.Register(&dto.RegisterRequest{Email: "", Password: "supersecret"}); !errors.Is(err, ErrValidation) {
		t.Errorf("empty email err = %v, want ErrValidation", err)
	}
	if _, err := svc.Register(&dto.RegisterRequest{Email: "c@example.com", Password: "short"}); !errors.Is(err, ErrValidation) {
		t.Errorf("short password err = %v, want ErrValidation", err)
	}
}

func TestRefreshFlow(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "d@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	refreshed, err := svc.Refresh(resp.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.User.ID != resp.User.ID {
		t.Error("refresh resolved a different user")
	}

	// Access tokens must not work as refresh tokens.
	if _, err := svc.Refresh(resp.AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
}

func TestReconcileGoogleIdempotent(t *testing.T) {
	svc := newAuthService(t)
	profile := &GoogleProfile{Sub: "google-sub-1", Email: "eve@example.com", Name: "Eve"}

	first, err := svc.ReconcileGoogle(profile)
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if first.AuthProvider != "google" {
		t.Errorf("provider = %q", first.AuthProvider)
	}

	second, err := svc.ReconcileGoogle(profile)
	if err != nil {
		t.Fatalf("reconcile again: %v", err)
	}
	if second.ID != first.ID {
		t.Error("reconcile created a second user")
	}

	var count int64
	svc.db.Model(&models.User{}).Count(&count)
	if count != 1 {
		t.Errorf("user count = %d, want 1", count)
	}
}

func TestReconcileGoogleLinksExistingEmailAccount(t *testing.T) {
	svc := newAuthService(t)

	resp, err := svc.Register(&dto.RegisterRequest{Email: "frank@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	linked, err := svc.ReconcileGoogle(&GoogleProfile{Sub: "google-sub-2", Email: "Frank@Example.com", Name: "Frank"})
	if err != nil {
		t.Fatalf("reconcile: %v", err)
	}
	if linked.ID != resp.User.ID {
		t.Error("Google sign-in did not link the existing email account")
	}
	if linked.GoogleID == nil || *linked.GoogleID != "google-sub-2" {
		t.Error("google_id not backfilled")
	}

	// Password login must still work after linking.
	if _, err := svc.Login(&dto.LoginRequest{Username: "frank@example.com", Password: "supersecret"}); err != nil {
		t.Errorf("login after linking: %v", err)
	}
}
