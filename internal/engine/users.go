package engine

import (
	"context"

	apierrors "github.com/kutbudev/aha-mcp/internal/errors"
	"github.com/kutbudev/aha-mcp/internal/models"
)

// ResolveUserID returns the id of the single user registered under email.
func (e *Engine) ResolveUserID(ctx context.Context, email string) (string, error) {
	u, err := e.GetUserByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return u.ID, nil
}

// GetUserByEmail looks a user up by email. No match is a caller error;
// several matches are refused rather than guessed between.
func (e *Engine) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	if err := required(email, "Email"); err != nil {
		return nil, err
	}

	users, err := e.up.FindUsersByEmail(ctx, email)
	if err != nil {
		return nil, e.wrap("look up user", err)
	}

	switch len(users) {
	case 0:
		return nil, apierrors.InvalidParams("No user found with email %s", email).
			WithKind(apierrors.KindUserNotFound)
	case 1:
		return &users[0], nil
	default:
		return nil, apierrors.Internal("Multiple users found with email %s", email).
			WithKind(apierrors.KindAmbiguousUser)
	}
}

// GetConfiguredUser resolves the requester email from configuration.
func (e *Engine) GetConfiguredUser(ctx context.Context) (*models.ConfiguredUser, error) {
	if e.cfg.UserEmail == "" {
		return nil, apierrors.InvalidParams("No user email configured. Set AHA_USER_EMAIL")
	}
	id, err := e.ResolveUserID(ctx, e.cfg.UserEmail)
	if err != nil {
		return nil, err
	}
	return &models.ConfiguredUser{Email: e.cfg.UserEmail, UserID: id}, nil
}
