package usecase

import (
	"context"
	"errors"
	"testing"

	"main/dto"
	"main/model"
	"main/repository"
)

func newUserService() *UserService {
	return &UserService{UsersRepo: repository.NewMemoryUserRepo()}
}

func TestRegister(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	req := dto.RegisterRequest{
		Email:     "a@x.com",
		Password:  "pw",
		FirstName: "A",
		LastName:  "B",
	}

	user, err := svc.Register(ctx, req)
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if user.ID == "" {
		t.Error("expected a generated user id")
	}
	if user.Email != "a@x.com" || user.FirstName != "A" || user.LastName != "B" {
		t.Errorf("unexpected user fields: %+v", user)
	}
	if user.Password == "pw" {
		t.Error("password must be stored hashed, not plaintext")
	}
	if user.CreatedAt.IsZero() || user.UpdatedAt.IsZero() {
		t.Error("expected timestamps to be set")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	req := dto.RegisterRequest{Email: "a@x.com", Password: "pw", FirstName: "A", LastName: "B"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first Register error: %v", err)
	}

	_, err := svc.Register(ctx, req)
	if !errors.Is(err, model.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestValidateCredentials(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterRequest{
		Email: "a@x.com", Password: "pw", FirstName: "A", LastName: "B",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	t.Run("correct credentials", func(t *testing.T) {
		user, err := svc.ValidateCredentials(ctx, "a@x.com", "pw")
		if err != nil {
			t.Fatalf("ValidateCredentials error: %v", err)
		}
		if user.Email != "a@x.com" {
			t.Errorf("unexpected user: %+v", user)
		}
	})

	// Unknown email and wrong password must be indistinguishable.
	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.ValidateCredentials(ctx, "a@x.com", "wrong")
		if !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.ValidateCredentials(ctx, "nobody@x.com", "pw")
		if !errors.Is(err, model.ErrInvalidCredentials) {
			t.Fatalf("expected ErrInvalidCredentials, got %v", err)
		}
	})
}

func TestFindUserByEmail(t *testing.T) {
	svc := newUserService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, dto.RegisterRequest{
		Email: "a@x.com", Password: "pw", FirstName: "A", LastName: "B",
	}); err != nil {
		t.Fatalf("Register error: %v", err)
	}

	user, err := svc.FindUserByEmail(ctx, "a@x.com")
	if err != nil {
		t.Fatalf("FindUserByEmail error: %v", err)
	}
	if user == nil {
		t.Fatal("expected a user")
	}

	// Exact, case-sensitive match; a miss is not an error.
	missing, err := svc.FindUserByEmail(ctx, "A@X.COM")
	if err != nil {
		t.Fatalf("FindUserByEmail error: %v", err)
	}
	if missing != nil {
		t.Error("lookup is case-sensitive, expected no match")
	}
}
