package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/session"
	"github.com/voatnetwork/voat/internal/client/validation"
	"github.com/voatnetwork/voat/internal/logging"
)

// Login signs an existing account in: it validates the form, asks the API,
// persists the returned record as the session user and publishes
// UserLoggedIn. Rejections come back as a ValidationError on "general" with
// the server message when there is one.
func Login(ctx context.Context, c client.Client, store *session.Store, bus *events.Bus, log logging.Logger, f models.LoginForm) (models.User, error) {
	if errs := validation.New().Login(f); !errs.Empty() {
		return models.User{}, &models.ValidationError{Fields: errs}
	}

	email := strings.TrimSpace(f.Email)
	patch, err := c.Login(ctx, email, f.Password)
	if err != nil {
		var se *client.ServerError
		if errors.Is(err, client.ErrRejected) || (errors.As(err, &se) && se.IsClientError()) {
			log.Info(ctx, "login rejected", "email", email)
			return models.User{}, &models.ValidationError{Fields: models.ErrorMap{
				GeneralErrorKey: client.UserMessage(err, MsgLoginFailed),
			}}
		}
		log.Warn(ctx, "login failed", "email", email, "error", err)
		return models.User{}, fmt.Errorf("login: %w", err)
	}

	user := patch.ToUser()
	if user.Email == "" {
		user.Email = email
	}
	if err := store.ReplaceUser(ctx, user); err != nil {
		return models.User{}, fmt.Errorf("persist session user: %w", err)
	}
	n := bus.UserLoggedIn.Publish(events.UserLoggedIn{User: user})
	log.Info(ctx, "logged in", "user_id", string(user.ID), "subscribers", n)
	return user, nil
}
