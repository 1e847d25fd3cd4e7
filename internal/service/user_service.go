package service

import (
	"context"
	"fmt"
	"strings"

	app_errors "lumen-ai/backend/internal/errors"
	"lumen-ai/backend/internal/model"
	"lumen-ai/backend/internal/repository"
)

// UserService owns the self-service account surface: reading the
// current user, materializing accounts at login, storing the provider
// credential and updating the profile.
type UserService struct {
	store repository.Store
}

func NewUserService(store repository.Store) *UserService {
	return &UserService{store: store}
}

// GetCurrentUser returns the user with the credential decrypted.
func (s *UserService) GetCurrentUser(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, fromStore(err)
	}
	return user, nil
}

// UpsertUser materializes a user record on login. Existing rows are
// merged, not clobbered: fields the auth collaborator did not supply
// keep their stored value. The last-login timestamp is refreshed.
func (s *UserService) UpsertUser(ctx context.Context, data *model.UpsertUser) (*model.User, error) {
	if strings.TrimSpace(data.ID) == "" {
		return nil, fmt.Errorf("%w: user id cannot be empty", app_errors.ErrValidation)
	}
	user, err := s.store.UpsertUser(ctx, data)
	if err != nil {
		return nil, fromStore(err)
	}
	return user, nil
}

// SetCredential seals and stores the user's provider API key. The
// returned view carries the plaintext so the caller can use the fresh
// credential within the same request.
func (s *UserService) SetCredential(ctx context.Context, userID, apiKey string) (*model.User, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("%w: API key cannot be empty", app_errors.ErrValidation)
	}
	user, err := s.store.SetUserCredential(ctx, userID, apiKey)
	if err != nil {
		return nil, fromStore(err)
	}
	return user, nil
}

// UpdateProfile applies the supplied subset of profile fields. The
// theme must be one of the supported colors.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, upd *model.ProfileUpdate) (*model.User, error) {
	if upd.ThemeColor != nil && !model.ValidTheme(*upd.ThemeColor) {
		return nil, fmt.Errorf("%w: unknown theme color %q", app_errors.ErrValidation, *upd.ThemeColor)
	}
	user, err := s.store.UpdateUserProfile(ctx, userID, upd)
	if err != nil {
		return nil, fromStore(err)
	}
	return user, nil
}
