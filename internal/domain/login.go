package domain

type LoginState string

const (
	LoginIdle                 LoginState = "idle"
	LoginPresenting           LoginState = "presenting"
	LoginWaitingForCredential LoginState = "waiting_for_credential"
	LoginAuthenticated        LoginState = "authenticated"
	LoginFailed               LoginState = "failed"
	LoginDismissed            LoginState = "dismissed"
)

// InFlight reports whether a login window is currently open.
func (s LoginState) InFlight() bool {
	return s == LoginPresenting || s == LoginWaitingForCredential
}

type LoginEventKind string

const (
	LoginEventAuthenticated LoginEventKind = "authenticated"
	LoginEventFailed        LoginEventKind = "failed"
	LoginEventDismissed     LoginEventKind = "dismissed"
)

// LoginEvent is the single terminal outcome of a login attempt.
type LoginEvent struct {
	Kind  LoginEventKind
	Token string
	Err   error
}
