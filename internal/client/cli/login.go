package cli

import (
	"context"
	"errors"

	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/services"
)

// Login prompts for credentials, signs in and opens the dashboard.
// Rejected credentials are reported and nil is returned; transport
// failures are returned.
func (a *App) Login(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already logged in, logout first")
		return nil
	}

	email, err := a.prompt("Email")
	if err != nil {
		return err
	}
	password, err := a.secret("Password")
	if err != nil {
		return err
	}

	_, err = services.Login(ctx, a.client, a.store, a.bus, a.log, models.LoginForm{Email: email, Password: password})
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		a.println("Login unsuccessful:")
		a.printErrors(verr.Fields)
		return nil
	}
	if err != nil {
		return err
	}
	return a.openDashboard(ctx)
}

// Logout clears the session user and drops the dashboard. Cached data
// for the account stays on disk.
func (a *App) Logout(ctx context.Context) error {
	d := a.dashboard()
	if d == nil {
		return nil
	}
	if err := d.Logout(ctx); err != nil {
		return err
	}
	a.mu.Lock()
	a.dash = nil
	a.userName = ""
	a.mu.Unlock()
	a.println("Logged out")
	return nil
}
