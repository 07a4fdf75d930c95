package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/toma828/HinaBaby/internal/app/models/dto"
	"github.com/toma828/HinaBaby/internal/app/repositories/repotest"
	"github.com/toma828/HinaBaby/internal/pkg/apperrors"
	"github.com/toma828/HinaBaby/internal/pkg/auth"
)

func newTestAuthService() (AuthService, *repotest.MemoryUserRepository) {
	userRepo := repotest.NewMemoryUserRepository()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:      "test-secret",
		AccessTokenExp: 30 * time.Minute,
		TokenIssuer:    "test",
	})
	return NewAuthService(userRepo, jwtService, zerolog.Nop()), userRepo
}

func registerReq(username, email string, isTeacher bool) *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Username:  username,
		Email:     email,
		Password:  "password123",
		IsTeacher: isTeacher,
	}
}

func TestRegister(t *testing.T) {
	svc, userRepo := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("alice", "alice@example.com", false))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if resp.ID == 0 {
		t.Error("registered account should have an ID")
	}
	if resp.Username != "alice" || resp.Email != "alice@example.com" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.IsTeacher {
		t.Error("account should be a student")
	}

	stored, err := userRepo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if stored == nil {
		t.Fatal("account not persisted")
	}
	if stored.Password == "password123" {
		t.Error("password must be stored hashed")
	}
	if !stored.IsActive {
		t.Error("new accounts should be active")
	}
}

func TestRegisterTeacherRole(t *testing.T) {
	svc, _ := newTestAuthService()

	resp, err := svc.Register(context.Background(), registerReq("bob", "bob@example.com", true))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if !resp.IsTeacher {
		t.Error("account should be a teacher")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("alice", "alice@example.com", false)); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(ctx, registerReq("alice", "other@example.com", false))
	if !errors.Is(err, apperrors.ErrUsernameAlreadyExists) {
		t.Errorf("error = %v, want ErrUsernameAlreadyExists", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("alice", "alice@example.com", false)); err != nil {
		t.Fatalf("first Register returned error: %v", err)
	}

	_, err := svc.Register(ctx, registerReq("alice2", "alice@example.com", false))
	if !errors.Is(err, apperrors.ErrEmailAlreadyExists) {
		t.Errorf("error = %v, want ErrEmailAlreadyExists", err)
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("bob", "bob@example.com", true)); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	resp, err := svc.Login(ctx, &dto.TokenRequest{Username: "bob", Password: "password123"})
	if err != nil {
		t.Fatalf("Login returned error: %v", err)
	}
	if resp.AccessToken == "" {
		t.Error("expected a token")
	}
	if resp.TokenType != "bearer" {
		t.Errorf("tokenType = %q, want %q", resp.TokenType, "bearer")
	}
	if resp.ExpiresIn != 1800 {
		t.Errorf("expiresIn = %d, want 1800", resp.ExpiresIn)
	}
	if !resp.IsTeacher {
		t.Error("isTeacher should be true")
	}
}

func TestLoginBadCredentials(t *testing.T) {
	svc, _ := newTestAuthService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, registerReq("alice", "alice@example.com", false)); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}

	// Unknown account and wrong password report the same error.
	_, err := svc.Login(ctx, &dto.TokenRequest{Username: "nobody", Password: "password123"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("unknown user: error = %v, want ErrInvalidCredentials", err)
	}

	_, err = svc.Login(ctx, &dto.TokenRequest{Username: "alice", Password: "wrong-password"})
	if !errors.Is(err, apperrors.ErrInvalidCredentials) {
		t.Errorf("wrong password: error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, userRepo := newTestAuthService()
	ctx := context.Background()

	resp, err := svc.Register(ctx, registerReq("alice", "alice@example.com", false))
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	userRepo.SetActive(resp.ID, false)

	_, err = svc.Login(ctx, &dto.TokenRequest{Username: "alice", Password: "password123"})
	if !errors.Is(err, apperrors.ErrAccountDisabled) {
		t.Errorf("error = %v, want ErrAccountDisabled", err)
	}
}
