// Package errors provides the structured error type shared by the signup
// service packages.
//
// An *Error carries a stable ErrorCode, a message that is safe to show to the
// caller, optional details (for example the field-level validation list) and
// the wrapped cause for logging.
//
//	err := errors.New(errors.ErrCodeSignupClosed, "This instance is invite only")
//	status := err.HTTPStatusCode() // 404
//
//	if errors.IsCode(err, errors.ErrCodeTokenExpired) {
//		// ...
//	}
//
// Invite failures (TOKEN_NOT_FOUND, TOKEN_EXPIRED, TOKEN_INVALID) are distinct
// codes for logs but map to the same status and are given the same message by
// the signup package.
package errors
