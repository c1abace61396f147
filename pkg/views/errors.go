package views

import "errors"

// GenericErrorMessage is shown for every failed backend call.
const GenericErrorMessage = "Something went wrong. Please try again."

// LoadErrorMessage is shown inline when the campaign list cannot be fetched.
const LoadErrorMessage = "Failed to load campaigns. Please try again later."

var ErrUnknownCampaign = errors.New("unknown campaign")

// ValidationError is a client-side rejection. It is raised before any network
// call and is presented as a blocking dialog.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UserMessage maps any error to the text shown to the user.
func UserMessage(err error) string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	return GenericErrorMessage
}
