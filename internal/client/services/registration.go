// Package services holds the client's state machines: the registration
// controller that drives signup and OTP verification, and the dashboard
// that reconciles the local session cache with the remote API.
//
// Neither type renders anything. Callers read a snapshot with State and
// trigger transitions through methods; timers come from a timex.Scheduler
// so every delay can be driven deterministically in tests.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/voatnetwork/voat/internal/client/client"
	"github.com/voatnetwork/voat/internal/client/events"
	"github.com/voatnetwork/voat/internal/client/models"
	"github.com/voatnetwork/voat/internal/client/session"
	"github.com/voatnetwork/voat/internal/client/validation"
	"github.com/voatnetwork/voat/internal/common"
	"github.com/voatnetwork/voat/internal/logging"
	"github.com/voatnetwork/voat/internal/timex"
)

const (
	countdownTick  = time.Second
	WelcomeTimeout = 5 * time.Second

	// GeneralErrorKey holds form-level errors in RegistrationState.Errors.
	GeneralErrorKey = "general"
)

type Phase int

const (
	PhaseForm Phase = iota
	PhaseSubmitting
	PhaseAwaitingOtp
	PhaseVerified
)

func (p Phase) String() string {
	switch p {
	case PhaseForm:
		return "form"
	case PhaseSubmitting:
		return "submitting"
	case PhaseAwaitingOtp:
		return "awaiting_otp"
	case PhaseVerified:
		return "verified"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// RegistrationState is a copy of the controller's state.
type RegistrationState struct {
	Phase         Phase
	Form          models.SignupForm
	Errors        models.ErrorMap
	Otp           [common.OtpLength]string
	OtpError      string
	OtpSubmitting bool
	Countdown     int
	Pending       models.User
	Welcome       bool
	Ready         bool
}

// CanResend reports whether a new OTP may be requested.
func (s RegistrationState) CanResend() bool {
	return s.Phase == PhaseAwaitingOtp && s.Countdown == 0 && !s.OtpSubmitting
}

// Registration drives Form -> Submitting -> AwaitingOtp -> Verified.
//
// Network calls are made without holding the lock. The resend countdown
// ticks once per second from the scheduler, independent of the network.
type Registration struct {
	client   client.Client
	store    *session.Store
	bus      *events.Bus
	sched    timex.Scheduler
	validate *validation.Validator
	log      logging.Logger

	mu      sync.Mutex
	st      RegistrationState
	ticker  timex.Timer
	tickGen int
	welcome timex.Timer
	ready   chan struct{}
	closed  bool
}

func NewRegistration(c client.Client, store *session.Store, bus *events.Bus, sched timex.Scheduler, log logging.Logger) *Registration {
	return &Registration{
		client:   c,
		store:    store,
		bus:      bus,
		sched:    sched,
		validate: validation.New(),
		log:      log.With("component", "registration"),
		st:       RegistrationState{Errors: models.ErrorMap{}},
		ready:    make(chan struct{}),
	}
}

// Validate checks a signup form without touching any state.
func (r *Registration) Validate(f models.SignupForm) models.ErrorMap {
	return r.validate.Signup(f)
}

// State returns a snapshot.
func (r *Registration) State() RegistrationState {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.st
	s.Errors = make(models.ErrorMap, len(r.st.Errors))
	for k, v := range r.st.Errors {
		s.Errors[k] = v
	}
	return s
}

// Ready is closed once the welcome acknowledgment has been dismissed and
// the caller may navigate away.
func (r *Registration) Ready() <-chan struct{} {
	return r.ready
}

// SubmitSignup validates f and, when valid, sends it. On success the
// controller moves to AwaitingOtp and starts the resend countdown.
func (r *Registration) SubmitSignup(ctx context.Context, f models.SignupForm) (models.User, error) {
	r.mu.Lock()
	if err := r.checkLocked(PhaseForm); err != nil {
		r.mu.Unlock()
		return models.User{}, err
	}
	r.st.Form = f
	errs := r.validate.Signup(f)
	if !errs.Empty() {
		r.st.Errors = errs
		r.mu.Unlock()
		return models.User{}, &models.ValidationError{Fields: errs}
	}
	r.st.Errors = models.ErrorMap{}
	r.st.Phase = PhaseSubmitting
	r.mu.Unlock()

	patch, err := r.client.Signup(ctx, client.SignupRequest{
		Name:     strings.TrimSpace(f.Name),
		Email:    strings.TrimSpace(f.Email),
		Password: f.Password,
		Role:     f.Role,
		Location: strings.TrimSpace(f.Location),
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return models.User{}, ErrClosed
	}
	if err != nil {
		r.st.Phase = PhaseForm
		r.st.Errors[GeneralErrorKey] = client.UserMessage(err, MsgGeneralError)
		r.log.Warn(ctx, "signup failed", "email", f.Email, "error", err)
		return models.User{}, fmt.Errorf("signup: %w", err)
	}

	pending := patch.ToUser()
	if pending.Email == "" {
		pending.Email = strings.TrimSpace(f.Email)
	}
	r.st.Pending = pending
	r.st.Phase = PhaseAwaitingOtp
	r.st.Otp = [common.OtpLength]string{}
	r.st.OtpError = ""
	r.startCountdownLocked()
	r.log.Info(ctx, "signup accepted, awaiting otp", "email", pending.Email)
	return pending, nil
}

// RequestOtpResend asks the API for a new code. It returns ErrResendLocked
// and changes nothing while the countdown is running.
func (r *Registration) RequestOtpResend(ctx context.Context) error {
	r.mu.Lock()
	if err := r.checkLocked(PhaseAwaitingOtp); err != nil {
		r.mu.Unlock()
		return err
	}
	if r.st.Countdown > 0 {
		r.mu.Unlock()
		return ErrResendLocked
	}
	if r.st.OtpSubmitting {
		r.mu.Unlock()
		return ErrBusy
	}
	r.st.OtpSubmitting = true
	email := r.st.Form.Email
	r.mu.Unlock()

	err := r.client.SendOTP(ctx, strings.TrimSpace(email))

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.st.OtpSubmitting = false
	if err != nil {
		r.st.OtpError = MsgResendFailed
		r.log.Warn(ctx, "otp resend failed", "error", err)
		return fmt.Errorf("resend otp: %w", err)
	}
	r.st.OtpError = ""
	r.startCountdownLocked()
	r.log.Info(ctx, "otp resent", "email", email)
	return nil
}

// SetOtpDigit writes one character into slot i. Values longer than one
// character are ignored; an empty value clears the slot. It reports
// whether the buffer changed.
func (r *Registration) SetOtpDigit(i int, v string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.st.Phase != PhaseAwaitingOtp || i < 0 || i >= common.OtpLength {
		return false
	}
	if utf8.RuneCountInString(v) > 1 {
		return false
	}
	r.st.Otp[i] = v
	r.st.OtpError = ""
	return true
}

// PasteOtp fills every slot from s when its first six characters are all
// digits. Anything else leaves the buffer unchanged.
func (r *Registration) PasteOtp(s string) bool {
	code := []rune(s)
	if len(code) > common.OtpLength {
		code = code[:common.OtpLength]
	}
	if len(code) != common.OtpLength {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.st.Phase != PhaseAwaitingOtp {
		return false
	}
	for i, c := range code {
		r.st.Otp[i] = string(c)
	}
	r.st.OtpError = ""
	return true
}

// BackspaceOtp applies backspace in slot i and returns the slot that should
// receive focus: a filled slot is cleared in place, an empty one moves
// focus to the previous slot.
func (r *Registration) BackspaceOtp(i int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if i < 0 || i >= common.OtpLength {
		return i
	}
	if r.st.Otp[i] != "" {
		r.st.Otp[i] = ""
		r.st.OtpError = ""
		return i
	}
	if i > 0 {
		return i - 1
	}
	return i
}

// OtpCode returns the buffer contents joined.
func (r *Registration) OtpCode() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.st.Otp[:], "")
}

// SubmitOtp verifies the buffered code. On success the user is persisted as
// the session user, UserLoggedIn is published and the welcome
// acknowledgment is dismissed after WelcomeTimeout.
func (r *Registration) SubmitOtp(ctx context.Context) (models.User, error) {
	r.mu.Lock()
	if err := r.checkLocked(PhaseAwaitingOtp); err != nil {
		r.mu.Unlock()
		return models.User{}, err
	}
	if r.st.OtpSubmitting {
		r.mu.Unlock()
		return models.User{}, ErrBusy
	}
	code := strings.Join(r.st.Otp[:], "")
	if utf8.RuneCountInString(code) != common.OtpLength {
		r.st.OtpError = MsgIncompleteOtp
		r.mu.Unlock()
		return models.User{}, ErrIncompleteCode
	}
	r.st.OtpSubmitting = true
	r.st.OtpError = ""
	email := strings.TrimSpace(r.st.Form.Email)
	r.mu.Unlock()

	patch, err := r.client.VerifyOTP(ctx, email, code)
	if err != nil {
		return models.User{}, r.failOtp(ctx, err)
	}

	user := patch.ToUser()
	if user.Email == "" {
		user.Email = email
	}
	user.Normalize()
	if err := r.store.ReplaceUser(ctx, user); err != nil {
		r.mu.Lock()
		r.st.OtpSubmitting = false
		r.st.OtpError = MsgCompletionFailed
		r.mu.Unlock()
		r.log.Error(ctx, "persist verified user", "error", err)
		return models.User{}, fmt.Errorf("persist session user: %w", err)
	}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return user, ErrClosed
	}
	r.stopCountdownLocked()
	r.st.OtpSubmitting = false
	r.st.Phase = PhaseVerified
	r.st.Pending = user
	r.st.Welcome = true
	r.welcome = r.sched.AfterFunc(WelcomeTimeout, r.dismissWelcome)
	r.mu.Unlock()

	n := r.bus.UserLoggedIn.Publish(events.UserLoggedIn{User: user})
	r.log.Info(ctx, "otp verified, session established", "user_id", string(user.ID), "subscribers", n)
	return user, nil
}

func (r *Registration) failOtp(ctx context.Context, err error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.st.OtpSubmitting = false

	var se *client.ServerError
	if errors.Is(err, client.ErrRejected) || (errors.As(err, &se) && se.IsClientError()) {
		r.st.OtpError = client.UserMessage(err, MsgInvalidOtp)
		r.log.Info(ctx, "otp rejected", "error", err)
		return fmt.Errorf("%w: %w", ErrInvalidOtp, err)
	}
	r.st.OtpError = client.UserMessage(err, MsgVerificationFailed)
	r.log.Warn(ctx, "otp verification failed", "error", err)
	return fmt.Errorf("verify otp: %w", err)
}

// Back leaves the OTP step and returns to the form, keeping its fields.
func (r *Registration) Back() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.checkLocked(PhaseAwaitingOtp); err != nil {
		return err
	}
	if r.st.OtpSubmitting {
		return ErrBusy
	}
	r.stopCountdownLocked()
	r.st.Phase = PhaseForm
	r.st.Otp = [common.OtpLength]string{}
	r.st.OtpError = ""
	r.st.Pending = models.User{}
	return nil
}

// Close stops every pending timer. Later callbacks and late responses are
// ignored.
func (r *Registration) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	if r.welcome != nil {
		r.welcome.Stop()
		r.welcome = nil
	}
}

func (r *Registration) checkLocked(want Phase) error {
	switch {
	case r.closed:
		return ErrClosed
	case r.st.Phase == want:
		return nil
	case r.st.Phase == PhaseSubmitting:
		return ErrBusy
	default:
		return fmt.Errorf("%w: %s", ErrWrongPhase, r.st.Phase)
	}
}

func (r *Registration) startCountdownLocked() {
	r.stopCountdownLocked()
	r.st.Countdown = common.OtpResendCooldownSec
	r.tickGen++
	gen := r.tickGen
	r.ticker = r.sched.Every(countdownTick, func() { r.tick(gen) })
}

func (r *Registration) stopCountdownLocked() {
	if r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
	r.st.Countdown = 0
}

func (r *Registration) tick(gen int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || gen != r.tickGen || r.st.Countdown <= 0 {
		return
	}
	r.st.Countdown--
	if r.st.Countdown == 0 && r.ticker != nil {
		r.ticker.Stop()
		r.ticker = nil
	}
}

func (r *Registration) dismissWelcome() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.st.Ready {
		return
	}
	r.st.Welcome = false
	r.st.Ready = true
	r.welcome = nil
	close(r.ready)
}
