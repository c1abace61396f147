package views

import (
	"context"

	"fundspark/pkg/auth"
	"fundspark/pkg/backend"
	"fundspark/pkg/models"
)

// Authenticator is the backend's sign-in call.
type Authenticator interface {
	SignIn(ctx context.Context, req models.SignInRequest) (backend.SignInResult, error)
}

// Registrar is the backend's sign-up call.
type Registrar interface {
	SignUp(ctx context.Context, req models.SignUpRequest) (string, error)
}

// Modal identifies which shell dialog is open. At most one is open at a time.
type Modal int

const (
	ModalNone Modal = iota
	ModalSignIn
	ModalSignUp
	ModalSignOut
)

// ParseModal maps the modal query value used by the web front end.
func ParseModal(s string) Modal {
	switch s {
	case "signin":
		return ModalSignIn
	case "signup":
		return ModalSignUp
	case "signout":
		return ModalSignOut
	}
	return ModalNone
}

func (m Modal) String() string {
	switch m {
	case ModalSignIn:
		return "signin"
	case ModalSignUp:
		return "signup"
	case ModalSignOut:
		return "signout"
	}
	return ""
}

// Shell is the navigation shell: the open auth dialog and the identity it
// reads and writes.
type Shell struct {
	Identity *auth.Identity
	modal    Modal
}

// NewShell creates a shell over identity with no dialog open.
func NewShell(identity *auth.Identity) *Shell {
	return &Shell{Identity: identity}
}

// Modal returns the open dialog.
func (s *Shell) Modal() Modal { return s.modal }

// OpenSignIn opens the sign-in dialog and closes any other.
func (s *Shell) OpenSignIn() { s.modal = ModalSignIn }

// OpenSignUp opens the sign-up dialog and closes any other.
func (s *Shell) OpenSignUp() { s.modal = ModalSignUp }

// OpenSignOut asks for sign-out confirmation. Only a signed-in user can be asked.
func (s *Shell) OpenSignOut() {
	if s.Identity.SignedIn() {
		s.modal = ModalSignOut
	}
}

// Open opens m, honouring the same rules as the specific openers.
func (s *Shell) Open(m Modal) {
	switch m {
	case ModalSignIn:
		s.OpenSignIn()
	case ModalSignUp:
		s.OpenSignUp()
	case ModalSignOut:
		s.OpenSignOut()
	default:
		s.Close()
	}
}

// Close closes whichever dialog is open.
func (s *Shell) Close() { s.modal = ModalNone }

// DisplayName is the signed-in name or "".
func (s *Shell) DisplayName() string { return s.Identity.DisplayName() }

// SignIn passes the credentials to the backend. When they are accepted the
// display name derived from email is stored and the dialog closes; otherwise
// nothing changes and the backend's message is returned in the result.
func (s *Shell) SignIn(ctx context.Context, a Authenticator, email, password string) (backend.SignInResult, error) {
	res, err := a.SignIn(ctx, models.SignInRequest{Email: email, Password: password})
	if err != nil {
		return res, err
	}
	return s.ApplySignIn(email, res)
}

// ApplySignIn records the outcome of a sign-in request issued elsewhere.
func (s *Shell) ApplySignIn(email string, res backend.SignInResult) (backend.SignInResult, error) {
	if !res.OK() {
		return res, nil
	}
	if _, err := s.Identity.SignIn(email); err != nil {
		return backend.SignInResult{Kind: backend.SignInRejected, Message: res.Message}, err
	}
	s.Close()
	return res, nil
}

// SignUp passes the new account to the backend. On success the sign-up dialog
// gives way to the sign-in dialog.
func (s *Shell) SignUp(ctx context.Context, r Registrar, fullName, email, password string) (string, error) {
	msg, err := r.SignUp(ctx, models.SignUpRequest{FullName: fullName, Email: email, Password: password})
	if err != nil {
		return "", err
	}
	s.ApplySignUp()
	return msg, nil
}

// ApplySignUp moves from a successful sign-up to the sign-in dialog.
func (s *Shell) ApplySignUp() { s.OpenSignIn() }

// SignOut clears the identity if confirmed and closes the confirmation dialog.
func (s *Shell) SignOut(confirmed bool) error {
	defer s.Close()
	return s.Identity.SignOut(confirmed)
}
