package services

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/common"
)

func validForm() models.SignupForm {
	return models.SignupForm{
		Name:            "Jordan Lee",
		Email:           "jordan@example.com",
		Role:            models.RoleFreelancer,
		Location:        "Lisbon",
		Password:        "secret1",
		ConfirmPassword: "secret1",
		AgreeToTerms:    true,
	}
}

func signupOK(req client.SignupRequest) (models.UserPatch, error) {
	return models.UserPatch{
		ID:    ptr(models.FlexString("u1")),
		Name:  ptr(req.Name),
		Email: ptr(req.Email),
		Role:  ptr(req.Role),
	}, nil
}

// awaitingOtp returns a controller that has passed signup.
func awaitingOtp(t *testing.T, h *harness) *Registration {
	t.Helper()
	h.client.SignupFn = signupOK
	r := h.registration()
	t.Cleanup(r.Close)
	_, err := r.SubmitSignup(context.Background(), validForm())
	require.NoError(t, err)
	require.Equal(t, PhaseAwaitingOtp, r.State().Phase)
	return r
}

func TestRegistration_ValidateIsPure(t *testing.T) {
	h := newHarness(t)
	r := h.registration()

	f := validForm()
	f.Name = "J"
	errs := r.Validate(f)
	assert.Equal(t, []string{"name"}, errs.Fields())

	st := r.State()
	assert.Equal(t, PhaseForm, st.Phase)
	assert.Empty(t, st.Errors)
	assert.Zero(t, h.client.count("Signup"))
}

func TestRegistration_SubmitSignupValidationFailure(t *testing.T) {
	h := newHarness(t)
	r := h.registration()

	f := validForm()
	f.ConfirmPassword = "other"
	_, err := r.SubmitSignup(context.Background(), f)

	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, []string{"confirmPassword"}, ve.Fields.Fields())
	assert.Zero(t, h.client.count("Signup"))

	st := r.State()
	assert.Equal(t, PhaseForm, st.Phase)
	assert.Equal(t, "Passwords don't match", st.Errors["confirmPassword"])
	assert.Equal(t, f, st.Form)
}

func TestRegistration_SignupServerErrorSurfacesMessage(t *testing.T) {
	h := newHarness(t)
	h.client.SignupFn = func(client.SignupRequest) (models.UserPatch, error) {
		return models.UserPatch{}, &client.ServerError{Status: http.StatusConflict, Message: "Email already registered"}
	}
	r := h.registration()

	_, err := r.SubmitSignup(context.Background(), validForm())
	require.Error(t, err)

	st := r.State()
	assert.Equal(t, PhaseForm, st.Phase)
	assert.Equal(t, "Email already registered", st.Errors[GeneralErrorKey])
	assert.Zero(t, h.clock.Pending())
}

func TestRegistration_SignupNetworkErrorUsesFallback(t *testing.T) {
	h := newHarness(t)
	h.client.SignupFn = func(client.SignupRequest) (models.UserPatch, error) {
		return models.UserPatch{}, fmt.Errorf("%w: timeout", client.ErrUnavailable)
	}
	r := h.registration()

	_, err := r.SubmitSignup(context.Background(), validForm())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.Equal(t, MsgGeneralError, r.State().Errors[GeneralErrorKey])
	assert.Equal(t, 1, h.client.count("Signup"))
}

func TestRegistration_CountdownTicksToZero(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)

	assert.Equal(t, 600, r.State().Countdown)
	assert.False(t, r.State().CanResend())

	h.clock.Advance(time.Second)
	assert.Equal(t, 599, r.State().Countdown)

	h.clock.Advance(500 * time.Millisecond)
	assert.Equal(t, 599, r.State().Countdown)

	h.clock.Advance(9*time.Minute + 57*time.Second + 500*time.Millisecond)
	assert.Equal(t, 1, r.State().Countdown)

	h.clock.Advance(time.Second)
	assert.Equal(t, 0, r.State().Countdown)
	assert.Zero(t, h.clock.Pending())

	h.clock.Advance(time.Hour)
	assert.Equal(t, 0, r.State().Countdown)
	assert.True(t, r.State().CanResend())
}

func TestRegistration_ResendLockedWhileCountingDown(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	h.clock.Advance(10 * time.Second)

	err := r.RequestOtpResend(context.Background())
	require.ErrorIs(t, err, ErrResendLocked)
	assert.Zero(t, h.client.count("SendOTP"))
	assert.Equal(t, 590, r.State().Countdown)
}

func TestRegistration_ResendResetsCountdown(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	var sentTo string
	h.client.SendOTPFn = func(email string) error {
		sentTo = email
		return nil
	}

	h.clock.Advance(common.OtpResendCooldownSec * time.Second)
	require.Equal(t, 0, r.State().Countdown)

	require.NoError(t, r.RequestOtpResend(context.Background()))
	assert.Equal(t, "jordan@example.com", sentTo)
	assert.Equal(t, 600, r.State().Countdown)

	h.clock.Advance(3 * time.Second)
	assert.Equal(t, 597, r.State().Countdown)
}

func TestRegistration_ResendFailureKeepsPhase(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	h.client.SendOTPFn = func(string) error { return client.ErrUnavailable }
	h.clock.Advance(common.OtpResendCooldownSec * time.Second)

	err := r.RequestOtpResend(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)

	st := r.State()
	assert.Equal(t, PhaseAwaitingOtp, st.Phase)
	assert.Equal(t, MsgResendFailed, st.OtpError)
	assert.Equal(t, 0, st.Countdown)
	assert.False(t, st.OtpSubmitting)
}

func TestRegistration_OtpBuffer(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)

	assert.True(t, r.PasteOtp("482913"))
	assert.Equal(t, [6]string{"4", "8", "2", "9", "1", "3"}, r.State().Otp)

	for _, bad := range []string{"48291", "48a913", "", "abcdef", "4829 3"} {
		assert.False(t, r.PasteOtp(bad), bad)
		assert.Equal(t, "482913", r.OtpCode(), bad)
	}

	assert.True(t, r.PasteOtp("1234567"))
	assert.Equal(t, "123456", r.OtpCode())

	// no trimming: a leading space lands in the first six characters
	assert.False(t, r.PasteOtp(" 654321"))
	assert.Equal(t, "123456", r.OtpCode())
	assert.True(t, r.PasteOtp("654321 "))
	assert.Equal(t, "654321", r.OtpCode())

	assert.False(t, r.SetOtpDigit(0, "98"))
	assert.False(t, r.SetOtpDigit(6, "9"))
	assert.True(t, r.SetOtpDigit(0, "9"))
	assert.Equal(t, "923456", r.OtpCode())
}

func TestRegistration_OtpBackspace(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	require.True(t, r.SetOtpDigit(0, "1"))
	require.True(t, r.SetOtpDigit(1, "2"))

	assert.Equal(t, 1, r.BackspaceOtp(1))
	assert.Equal(t, "1", r.OtpCode())

	assert.Equal(t, 0, r.BackspaceOtp(1))
	assert.Equal(t, "1", r.OtpCode())

	assert.Equal(t, 0, r.BackspaceOtp(0))
	assert.Equal(t, 0, r.BackspaceOtp(0))
	assert.Equal(t, "", r.OtpCode())
}

func TestRegistration_IncompleteCodeNeverCallsAPI(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	r.SetOtpDigit(0, "1")
	r.SetOtpDigit(1, "2")

	_, err := r.SubmitOtp(context.Background())
	require.ErrorIs(t, err, ErrIncompleteCode)
	assert.Zero(t, h.client.count("VerifyOTP"))
	assert.Equal(t, MsgIncompleteOtp, r.State().OtpError)

	r.SetOtpDigit(2, "3")
	assert.Empty(t, r.State().OtpError)
}

func TestRegistration_ServerRejectionIsInvalidOtp(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	h.client.VerifyOTPFn = func(string, string) (models.UserPatch, error) {
		return models.UserPatch{}, &client.ServerError{Status: http.StatusBadRequest, Message: "OTP expired"}
	}
	r.PasteOtp("111111")

	_, err := r.SubmitOtp(context.Background())
	require.ErrorIs(t, err, ErrInvalidOtp)

	st := r.State()
	assert.Equal(t, PhaseAwaitingOtp, st.Phase)
	assert.Equal(t, "OTP expired", st.OtpError)
	assert.Equal(t, "111111", r.OtpCode())
}

func TestRegistration_VerifyNetworkFailureIsNotInvalidOtp(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	h.client.VerifyOTPFn = func(string, string) (models.UserPatch, error) {
		return models.UserPatch{}, client.ErrUnavailable
	}
	r.PasteOtp("111111")

	_, err := r.SubmitOtp(context.Background())
	require.ErrorIs(t, err, client.ErrUnavailable)
	assert.NotErrorIs(t, err, ErrInvalidOtp)
	assert.Equal(t, MsgVerificationFailed, r.State().OtpError)
	assert.Equal(t, PhaseAwaitingOtp, r.State().Phase)
}

func TestRegistration_EndToEnd(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	const code = "482913"
	h.client.SignupFn = signupOK
	h.client.VerifyOTPFn = func(email, otp string) (models.UserPatch, error) {
		if otp != code {
			return models.UserPatch{}, fmt.Errorf("verify otp: %w", client.ErrRejected)
		}
		return models.UserPatch{
			ID:         ptr(models.FlexString("u1")),
			Name:       ptr("Jordan Lee"),
			Email:      ptr(email),
			VoatPoints: ptr(120),
		}, nil
	}

	// A stale session from an earlier account must be replaced.
	require.NoError(t, h.store.SaveUser(ctx, models.User{ID: "old", Name: "Old"}))

	var published []events.UserLoggedIn
	h.bus.UserLoggedIn.Subscribe(func(e events.UserLoggedIn) { published = append(published, e) })

	r := h.registration()
	t.Cleanup(r.Close)

	f := validForm()
	f.Name = "J"
	_, err := r.SubmitSignup(ctx, f)
	var ve *models.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "name")

	f.Name = "Jordan Lee"
	pending, err := r.SubmitSignup(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, models.FlexString("u1"), pending.ID)
	assert.Equal(t, PhaseAwaitingOtp, r.State().Phase)
	assert.Equal(t, 600, r.State().Countdown)

	r.PasteOtp("000000")
	_, err = r.SubmitOtp(ctx)
	require.ErrorIs(t, err, ErrInvalidOtp)
	assert.Equal(t, PhaseAwaitingOtp, r.State().Phase)
	assert.Equal(t, MsgInvalidOtp, r.State().OtpError)

	r.PasteOtp(code)
	user, err := r.SubmitOtp(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.BadgeSilver, user.Badge)

	st := r.State()
	assert.Equal(t, PhaseVerified, st.Phase)
	assert.True(t, st.Welcome)
	assert.False(t, st.Ready)
	assert.Equal(t, 0, st.Countdown)

	stored, err := h.store.LoadUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.FlexString("u1"), stored.ID)
	assert.Equal(t, "jordan@example.com", stored.Email)

	require.Len(t, published, 1)
	assert.Equal(t, models.FlexString("u1"), published[0].User.ID)

	h.clock.Advance(4 * time.Second)
	assert.True(t, r.State().Welcome)
	select {
	case <-r.Ready():
		t.Fatal("ready before dismissal")
	default:
	}

	h.clock.Advance(time.Second)
	st = r.State()
	assert.False(t, st.Welcome)
	assert.True(t, st.Ready)
	select {
	case <-r.Ready():
	default:
		t.Fatal("ready channel not closed")
	}

	_, err = r.SubmitOtp(ctx)
	require.ErrorIs(t, err, ErrWrongPhase)
}

func TestRegistration_VerifySuccessWithoutUserIsRejected(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	h.client.VerifyOTPFn = func(string, string) (models.UserPatch, error) {
		return models.UserPatch{}, fmt.Errorf("verify otp: %w", client.ErrRejected)
	}
	r.PasteOtp("123456")

	_, err := r.SubmitOtp(context.Background())
	require.ErrorIs(t, err, ErrInvalidOtp)

	_, err = h.store.LoadUser(context.Background())
	require.ErrorIs(t, err, common.ErrNoSession)
}

func TestRegistration_BackReturnsToForm(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	r.PasteOtp("123456")

	require.NoError(t, r.Back())

	st := r.State()
	assert.Equal(t, PhaseForm, st.Phase)
	assert.Equal(t, "", r.OtpCode())
	assert.Equal(t, 0, st.Countdown)
	assert.Equal(t, validForm(), st.Form)
	assert.Zero(t, h.clock.Pending())

	require.ErrorIs(t, r.Back(), ErrWrongPhase)
	_, err := r.SubmitOtp(context.Background())
	require.ErrorIs(t, err, ErrWrongPhase)
}

func TestRegistration_CloseCancelsTimers(t *testing.T) {
	h := newHarness(t)
	r := awaitingOtp(t, h)
	require.Equal(t, 1, h.clock.Pending())

	r.Close()
	assert.Zero(t, h.clock.Pending())

	h.clock.Advance(time.Minute)
	assert.Equal(t, 600, r.State().Countdown)

	_, err := r.SubmitSignup(context.Background(), validForm())
	require.ErrorIs(t, err, ErrClosed)
}
