package auth

// ErrorKind classifies a failure shown to the user.
type ErrorKind int

const (
	NoError ErrorKind = iota
	// InputError is detected locally and never reaches a collaborator.
	InputError
	// ValidationRejected means the validator refused the secret or failed.
	ValidationRejected
	// PinMismatch means the store did not accept the code.
	PinMismatch
	// CollaboratorFault is an unexpected store or validator failure.
	CollaboratorFault
)

func (k ErrorKind) String() string {
	switch k {
	case InputError:
		return "input_error"
	case ValidationRejected:
		return "validation_rejected"
	case PinMismatch:
		return "pin_mismatch"
	case CollaboratorFault:
		return "collaborator_fault"
	default:
		return "none"
	}
}

// Severity controls how feedback text is styled.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityInfo
	SeveritySuccess
	SeverityError
)

// Feedback is the message line under the input field.
type Feedback struct {
	Kind     ErrorKind
	Severity Severity
	Text     string
}

// IsError reports whether the feedback describes a failure.
func (f Feedback) IsError() bool {
	return f.Kind != NoError
}

func errorFeedback(kind ErrorKind, text string) Feedback {
	return Feedback{Kind: kind, Severity: SeverityError, Text: text}
}

// User-visible messages.
const (
	msgEmptySecret   = "Enter your API key"
	msgBadPin        = "PIN must be 4 digits"
	msgRejected      = "Invalid API key or insufficient credit"
	msgWrongPin      = "Wrong PIN"
	msgFault         = "Something went wrong, please try again"
	msgStoreFault    = "Could not read saved credentials"
	msgKeySaved      = "Key saved. Use this PIN next time."
	msgCheckingKey   = "Checking key..."
	msgCheckingPin   = "Checking PIN..."
	msgResetHint     = "A new PIN will replace the old one."
	msgEnrollHint    = "Your key stays on this machine."
	msgChallengeHint = "Forgot it? Reset the key."
)

// Session is the transient state of one authentication surface.
type Session struct {
	Mode Mode
	// Input mirrors the active field; cleared on every mode change.
	Input string
	// RevealedCode is non-empty only in ModePinReveal.
	RevealedCode string
	Feedback     Feedback
	// RecordExists is true when a credential record was found at bootstrap
	// or written during this session.
	RecordExists bool
}

// Result is what Dispatch hands back to the surface for re-rendering.
type Result struct {
	Session Session
	// Completed is true only for the dispatch that entered ModeAuthenticated.
	Completed bool
}

// Accepts reports whether kind is a legal action in the session's mode.
func (s Session) Accepts(kind ActionKind) bool {
	switch s.Mode {
	case ModeEnrollment:
		return kind == ActionSubmitSecret || (kind == ActionToggleReset && s.RecordExists)
	case ModeReset:
		return kind == ActionSubmitSecret || kind == ActionToggleReset
	case ModePinChallenge:
		return kind == ActionSubmitPin || kind == ActionToggleReset
	case ModePinReveal:
		return kind == ActionAcknowledge
	default:
		return false
	}
}

// BusyText is the status shown while kind is being processed.
func BusyText(kind ActionKind) string {
	switch kind {
	case ActionSubmitSecret:
		return msgCheckingKey
	case ActionSubmitPin:
		return msgCheckingPin
	default:
		return ""
	}
}
