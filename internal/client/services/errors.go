package services

import "errors"

var (
	ErrIncompleteCode = errors.New("incomplete otp code")
	ErrInvalidOtp     = errors.New("invalid otp")
	ErrBusy           = errors.New("operation already in progress")
	ErrResendLocked   = errors.New("otp resend is locked")
	ErrWrongPhase     = errors.New("operation not allowed in current phase")
	ErrClosed         = errors.New("controller closed")
)

// User-facing messages.
const (
	MsgGeneralError       = "Something went wrong. Please try again."
	MsgIncompleteOtp      = "Please enter the complete 6-digit OTP"
	MsgInvalidOtp         = "Invalid OTP. Please check and try again."
	MsgVerificationFailed = "Verification failed. Please try again."
	MsgResendFailed       = "Failed to resend OTP. Please try again."
	MsgCompletionFailed   = "Registration completion failed. Please try again."
	MsgLoginFailed        = "Invalid email or password."

	MsgLoginAgain       = "You need to login again before updating your profile."
	MsgProfileFailed    = "Failed to update profile. Please try again."
	MsgPortfolioFailed  = "Failed to submit portfolio. Please try again."
	MsgProjectsLoggedIn = "Please log in to save your projects."
	MsgProjectsFailed   = "Failed to save projects. Please try again."
)

var (
	ErrProjectNotFound = errors.New("project not found")
	ErrTooManyImages   = errors.New("project image limit reached")
)
