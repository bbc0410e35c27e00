package auth

// Mode is the single tagged state of an authentication session.
type Mode int

const (
	ModeBootstrap Mode = iota
	ModeEnrollment
	ModeReset
	ModePinReveal
	ModePinChallenge
	ModeAuthenticated
)

var modeNames = [...]string{
	ModeBootstrap:     "bootstrap",
	ModeEnrollment:    "enrollment",
	ModeReset:         "reset",
	ModePinReveal:     "pin_reveal",
	ModePinChallenge:  "pin_challenge",
	ModeAuthenticated: "authenticated",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "unknown"
	}
	return modeNames[m]
}

// ActionKind identifies a user action forwarded by a surface.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionSubmitSecret
	ActionSubmitPin
	ActionToggleReset
	ActionAcknowledge
)

func (k ActionKind) String() string {
	switch k {
	case ActionSubmitSecret:
		return "submit_secret"
	case ActionSubmitPin:
		return "submit_pin"
	case ActionToggleReset:
		return "toggle_reset"
	case ActionAcknowledge:
		return "acknowledge"
	default:
		return "none"
	}
}

// Action is a user intent plus the text it carries, if any.
type Action struct {
	Kind  ActionKind
	Value string
}

// SubmitSecret submits an API key for enrollment or reset.
func SubmitSecret(secret string) Action {
	return Action{Kind: ActionSubmitSecret, Value: secret}
}

// SubmitPin submits an unlock code.
func SubmitPin(pin string) Action {
	return Action{Kind: ActionSubmitPin, Value: pin}
}

// ToggleReset switches between the PIN challenge and key reset.
func ToggleReset() Action {
	return Action{Kind: ActionToggleReset}
}

// Acknowledge confirms the revealed PIN has been noted.
func Acknowledge() Action {
	return Action{Kind: ActionAcknowledge}
}

// Submit builds the submit action appropriate for mode, carrying value.
// It returns an ActionNone action when the mode takes no text input.
func Submit(mode Mode, value string) Action {
	switch mode {
	case ModeEnrollment, ModeReset:
		return SubmitSecret(value)
	case ModePinChallenge:
		return SubmitPin(value)
	case ModePinReveal:
		return Acknowledge()
	default:
		return Action{}
	}
}
