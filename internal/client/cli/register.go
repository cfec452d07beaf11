package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/services"
)

// Register walks the user through signup and OTP verification, then opens
// the dashboard.
//
// At the code prompt the user can type the 6-digit code, "resend" once the
// countdown has run out, or "back" to return to the form.
func (a *App) Register(ctx context.Context) error {
	if a.isLoggedIn() {
		a.println("Already logged in, logout first")
		return nil
	}

	reg := services.NewRegistration(a.client, a.store, a.bus, a.sched, a.log)
	defer reg.Close()

	form := models.SignupForm{Role: models.RoleFreelancer}
	for {
		var err error
		form, err = a.readSignupForm(form)
		if err != nil {
			return err
		}

		_, err = reg.SubmitSignup(ctx, form)
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			a.println("Please fix the following:")
			a.printErrors(verr.Fields)
			if !yes(a.mustPrompt("Try again? (y/n)")) {
				return nil
			}
			continue
		}
		if err != nil {
			if stop(ctx, err) {
				return err
			}
			a.println(reg.State().Errors[services.GeneralErrorKey])
			if !yes(a.mustPrompt("Try again? (y/n)")) {
				return nil
			}
			continue
		}

		a.printf("A %d-digit code was sent to %s.\n", len(reg.State().Otp), strings.TrimSpace(form.Email))
		done, err := a.verifyOtp(ctx, reg)
		if err != nil || done {
			return err
		}
		// back to the form, fields kept
	}
}

func (a *App) readSignupForm(prev models.SignupForm) (models.SignupForm, error) {
	f := prev
	var err error
	if f.Name, err = a.promptDefault("Full name", prev.Name); err != nil {
		return f, err
	}
	if f.Email, err = a.promptDefault("Email", prev.Email); err != nil {
		return f, err
	}
	role, err := a.promptDefault("Role (Freelancer/Client)", string(prev.Role))
	if err != nil {
		return f, err
	}
	f.Role = parseRole(role)
	if f.Location, err = a.promptDefault("Location", prev.Location); err != nil {
		return f, err
	}
	if f.Password, err = a.secret("Password"); err != nil {
		return f, err
	}
	if f.ConfirmPassword, err = a.secret("Confirm password"); err != nil {
		return f, err
	}
	agree, err := a.prompt("Agree to the Terms & Conditions? (y/n)")
	if err != nil {
		return f, err
	}
	f.AgreeToTerms = yes(agree)
	return f, nil
}

// verifyOtp runs the code prompt. It reports done=false when the user went
// back to the form.
func (a *App) verifyOtp(ctx context.Context, reg *services.Registration) (done bool, err error) {
	for {
		st := reg.State()
		hint := "resend available"
		if st.Countdown > 0 {
			hint = "resend in " + formatCountdown(st.Countdown)
		}
		line, err := a.prompt(fmt.Sprintf("Enter code, 'resend' or 'back' (%s)", hint))
		if err != nil {
			return false, err
		}

		switch strings.ToLower(line) {
		case "back":
			if err := reg.Back(); err != nil {
				return false, err
			}
			return false, nil
		case "resend":
			err := reg.RequestOtpResend(ctx)
			switch {
			case errors.Is(err, services.ErrResendLocked):
				a.printf("You can request a new code in %s\n", formatCountdown(reg.State().Countdown))
			case err != nil:
				a.println(reg.State().OtpError)
			default:
				a.println("A new code has been sent")
			}
			continue
		}

		if !reg.PasteOtp(line) {
			a.println(services.MsgIncompleteOtp)
			continue
		}
		user, err := reg.SubmitOtp(ctx)
		if errors.Is(err, services.ErrInvalidOtp) {
			a.println(reg.State().OtpError)
			continue
		}
		if err != nil {
			if stop(ctx, err) {
				return false, err
			}
			// still awaiting the code; the user can retry, resend or go back
			a.println(reg.State().OtpError)
			continue
		}

		a.printf("Welcome to VOAT Network, %s! Your account is ready.\n", user.Name)
		select {
		case <-reg.Ready():
		case <-ctx.Done():
			return true, ctx.Err()
		}
		return true, a.openDashboard(ctx)
	}
}

// stop reports whether err ends the registration flow rather than being a
// failure the user can retry.
func stop(ctx context.Context, err error) bool {
	return ctx.Err() != nil || errors.Is(err, services.ErrClosed) || errors.Is(err, services.ErrWrongPhase)
}

// formatCountdown renders seconds as m:ss.
func formatCountdown(sec int) string {
	return fmt.Sprintf("%d:%02d", sec/60, sec%60)
}

// mustPrompt reads a line and treats read errors as an empty answer.
func (a *App) mustPrompt(text string) string {
	v, err := a.prompt(text)
	if err != nil {
		return ""
	}
	return v
}
