package cognito

import (
	"errors"
	"net/http"
)

var (
	ErrUserNotFound          = errors.New("user not found")
	ErrUserNotConfirmed      = errors.New("user not confirmed")
	ErrNotAuthorized         = errors.New("not authorized")
	ErrTooManyRequests       = errors.New("too many requests")
	ErrPasswordResetRequired = errors.New("password reset required")
	ErrInvalidParameter      = errors.New("invalid parameter")
	ErrChallengeRequired     = errors.New("authentication challenge required")
)

// ErrorInfo is the HTTP rendering of a sentinel error.
type ErrorInfo struct {
	Status int
	Code   string
}

var errorInfos = []struct {
	err  error
	info ErrorInfo
}{
	{ErrUserNotFound, ErrorInfo{Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS"}},
	{ErrNotAuthorized, ErrorInfo{Status: http.StatusUnauthorized, Code: "INVALID_CREDENTIALS"}},
	{ErrUserNotConfirmed, ErrorInfo{Status: http.StatusForbidden, Code: "USER_NOT_CONFIRMED"}},
	{ErrPasswordResetRequired, ErrorInfo{Status: http.StatusForbidden, Code: "PASSWORD_RESET_REQUIRED"}},
	{ErrChallengeRequired, ErrorInfo{Status: http.StatusForbidden, Code: "CHALLENGE_REQUIRED"}},
	{ErrTooManyRequests, ErrorInfo{Status: http.StatusTooManyRequests, Code: "TOO_MANY_REQUESTS"}},
	{ErrInvalidParameter, ErrorInfo{Status: http.StatusBadRequest, Code: "INVALID_PARAMETER"}},
}

// LookupError returns the HTTP rendering of err when it wraps a known
// sentinel. Unknown users and wrong passwords render the same way.
func LookupError(err error) (ErrorInfo, bool) {
	for _, e := range errorInfos {
		if errors.Is(err, e.err) {
			return e.info, true
		}
	}
	return ErrorInfo{}, false
}
