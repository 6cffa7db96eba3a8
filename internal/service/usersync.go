// Package service implements the application operations on top of the
// repositories: identity synchronization, the money ledger, currency
// conversion, the category tree, and health reporting.
package service

import (
	"context"
	"errors"
	"fmt"

	"fintrack/internal/auth"
	"fintrack/internal/logger"
	"fintrack/internal/models"
	"fintrack/internal/repository"
	"fintrack/internal/util"
)

// UserSyncService mirrors external identities into local user rows on every
// authenticated request. First login creates the user and seeds the default
// category catalog; later logins refresh mutable profile fields.
type UserSyncService struct {
	users      *repository.UserRepository
	categories *repository.CategoryRepository
}

// NewUserSyncService creates a sync-on-login service.
func NewUserSyncService(users *repository.UserRepository, categories *repository.CategoryRepository) *UserSyncService {
	return &UserSyncService{users: users, categories: categories}
}

var _ auth.UserSyncer = (*UserSyncService)(nil)

// Sync resolves the token subject to a local user, creating it on first
// login. Tokens without an email claim get a deterministic placeholder so
// the email column's uniqueness still holds.
func (s *UserSyncService) Sync(ctx context.Context, subject string, profile auth.Profile) (*models.User, error) {
	user, err := s.users.GetByAuthID(ctx, subject)
	if err == nil {
		return s.refresh(ctx, user, profile)
	}
	if !errors.Is(err, util.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	user = &models.User{
		AuthID:    subject,
		Email:     profile.Email,
		FirstName: profile.FirstName,
		LastName:  profile.LastName,
		Timezone:  profile.Timezone,
		Locale:    profile.Locale,
	}
	if user.Email == "" {
		user.Email = fmt.Sprintf("%s@placeholder.local", subject)
	}
	if user.Timezone == "" {
		user.Timezone = models.DefaultTimezone
	}
	if user.Locale == "" {
		user.Locale = models.DefaultLocale
	}

	if err := s.users.Create(ctx, user); err != nil {
		// A concurrent first login can beat us to the insert. Fall back to
		// the row the winner created.
		if errors.Is(err, util.ErrDuplicateEntry) {
			return s.users.GetByAuthID(ctx, subject)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.categories.Seed(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to seed default categories: %w", err)
	}

	logger.Log.Info().
		Str("subject", logger.HashSubject(subject)).
		Str("email", logger.MaskEmail(user.Email)).
		Msg("new user provisioned")

	return user, nil
}

// refresh writes profile changes back to the local row. The auth id never
// changes here; email and display profile follow the latest claims, so a
// placeholder email is replaced once a real claim shows up.
func (s *UserSyncService) refresh(ctx context.Context, user *models.User, profile auth.Profile) (*models.User, error) {
	changed := false

	if profile.Email != "" && profile.Email != user.Email {
		user.Email = profile.Email
		changed = true
	}
	if profile.FirstName != "" && profile.FirstName != user.FirstName {
		user.FirstName = profile.FirstName
		changed = true
	}
	if profile.LastName != "" && profile.LastName != user.LastName {
		user.LastName = profile.LastName
		changed = true
	}
	if profile.Timezone != "" && profile.Timezone != user.Timezone {
		user.Timezone = profile.Timezone
		changed = true
	}
	if profile.Locale != "" && profile.Locale != user.Locale {
		user.Locale = profile.Locale
		changed = true
	}

	if !changed {
		return user, nil
	}
	if err := s.users.UpdateProfile(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to refresh user profile: %w", err)
	}
	return user, nil
}
