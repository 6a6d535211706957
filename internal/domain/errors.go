package domain

// ValidationError is a local, pre-network rejection. It blocks the
// submission it belongs to and is shown inline.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return &ValidationError{Msg: msg} }

// AuthError is a credential rejection or a session found invalid at
// bootstrap. Consumers transition to the unauthenticated state when
// they see one.
type AuthError struct {
	Msg string
}

func (e *AuthError) Error() string { return e.Msg }
