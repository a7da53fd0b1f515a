package signup

import (
	"github.com/tendant/simple-wishlist/pkg/errors"
)

// User-facing messages
const (
	MsgInviteInvalid     = "Invite code is either invalid or already been used"
	MsgSignupClosed      = "This instance is invite only"
	MsgValidationFailed  = "Please check your signup information and try again"
	MsgDuplicateIdentity = "User with username or email already exists"
	MsgSignupFailed      = "Unable to complete signup, please try again later"
	MsgSessionFailed     = "Your account was created but we could not sign you in, please log in"
)

// DetailErrors is the error detail key holding []FieldError
const DetailErrors = "errors"

func errInviteInvalid(code errors.ErrorCode, cause error) *errors.Error {
	if cause == nil {
		return errors.New(code, MsgInviteInvalid)
	}
	return errors.Wrap(cause, code, MsgInviteInvalid)
}

func errValidation(fields []FieldError) *errors.Error {
	return errors.New(errors.ErrCodeValidationFailed, MsgValidationFailed).
		WithDetail(DetailErrors, fields)
}

func errDuplicate(cause error) *errors.Error {
	return errors.Wrap(cause, errors.ErrCodeDuplicateIdentity, MsgDuplicateIdentity).
		WithDetail(DetailErrors, []FieldError{{Field: "username", Message: MsgDuplicateIdentity}})
}

// FieldErrors returns the field list attached to err, if any
func FieldErrors(err error) []FieldError {
	details := errors.GetDetails(err)
	if details == nil {
		return nil
	}
	fields, _ := details[DetailErrors].([]FieldError)
	return fields
}
