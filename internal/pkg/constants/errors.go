package constants

import "net/http"

// CodedError is an error that knows which HTTP status it maps to.
type CodedError struct {
	msg  string
	code int
}

func NewCodedError(msg string, code int) *CodedError {
	return &CodedError{msg: msg, code: code}
}

func (e *CodedError) Error() string {
	return e.msg
}

func (e *CodedError) Code() int {
	return e.code
}

var (
	ErrDBNotFound        = NewCodedError("not found", http.StatusNotFound)
	ErrUnauthorized      = NewCodedError("unauthorized", http.StatusUnauthorized)
	ErrMissingAuthCookie = NewCodedError("missing auth cookie", http.StatusUnauthorized)
	ErrInvalidAuthToken  = NewCodedError("invalid auth token", http.StatusUnauthorized)
	ErrBadCredentials    = NewCodedError("invalid email or password", http.StatusUnauthorized)

	// ErrNotAuthorized is returned for every mutation attempted without the admin role,
	// including attempts made before the role check has completed.
	ErrNotAuthorized = NewCodedError("not authorized: administrator role required", http.StatusForbidden)

	// ErrRoleCheckMisconfigured means the privileged is_admin check itself failed,
	// which is a deployment problem rather than a missing role.
	ErrRoleCheckMisconfigured = NewCodedError("admin role check is misconfigured", http.StatusInternalServerError)

	ErrValidation       = NewCodedError("validation failed", http.StatusBadRequest)
	ErrCategoryMismatch = NewCodedError("operation does not apply to the current category", http.StatusConflict)
	ErrUnknownCategory  = NewCodedError("unknown category", http.StatusBadRequest)
	ErrNoSelection      = NewCodedError("no customer selected", http.StatusBadRequest)
	ErrGateway          = NewCodedError("gateway error", http.StatusBadGateway)
)

// GatewayError carries a remote data gateway failure. Its message is the gateway's
// message verbatim.
type GatewayError struct {
	Err error
}

func NewGatewayError(err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{Err: err}
}

func (e *GatewayError) Error() string {
	return e.Err.Error()
}

func (e *GatewayError) Unwrap() []error {
	return []error{e.Err, ErrGateway}
}
