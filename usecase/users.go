package usecase

import (
	"context"
	"fmt"
	"time"

	"main/dto"
	"main/model"
	"main/repository"
	"main/services"
	"main/utils"
)

type UserService struct {
	UsersRepo repository.UserRepository
}

// FindUserByEmail is an exact, case-sensitive lookup. A miss is
// (nil, nil), not an error.
func (svc *UserService) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return svc.UsersRepo.FindUserByEmail(ctx, email)
}

// Register creates a new user with a hashed password. The existence
// check and the insert are separate calls; a concurrent registration
// with the same email is caught by the unique index and surfaces as
// ErrEmailExists either way.
func (svc *UserService) Register(ctx context.Context, req dto.RegisterRequest) (*model.User, error) {
	existing, err := svc.UsersRepo.FindUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, model.ErrEmailExists
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	user := &model.User{
		ID:        utils.GenerateID(),
		Email:     req.Email,
		Password:  hash,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := svc.UsersRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	utils.TrackAuthAttempt("success", "register")
	return user, nil
}

// ValidateCredentials returns the user when email and password match.
// Unknown email and wrong password are the same outcome, so a caller
// cannot probe which one failed.
func (svc *UserService) ValidateCredentials(ctx context.Context, email, password string) (*model.User, error) {
	user, err := svc.UsersRepo.FindUserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		utils.TrackAuthAttempt("failure", "login")
		return nil, model.ErrInvalidCredentials
	}

	match, err := services.VerifyPassword(user.Password, password)
	if err != nil || !match {
		utils.TrackAuthAttempt("failure", "login")
		return nil, model.ErrInvalidCredentials
	}

	return user, nil
}
