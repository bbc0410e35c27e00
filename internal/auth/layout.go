package auth

// FieldKind identifies which single input a mode shows.
type FieldKind int

const (
	FieldSecret FieldKind = iota + 1
	FieldPin
	FieldCode
)

// SecretMaxLen caps the API key field.
const SecretMaxLen = 100

// Field describes the one input widget of a mode.
type Field struct {
	Kind        FieldKind
	Label       string
	Placeholder string
	Masked      bool
	ReadOnly    bool
	MaxLen      int
	DigitsOnly  bool
	// Value is set for read-only fields.
	Value string
}

// Button is an action offered in a mode, bound to a key.
type Button struct {
	Label  string
	Action ActionKind
	Key    string
}

// Layout is everything a surface draws for a session.
type Layout struct {
	Title    string
	Hint     string
	Field    *Field
	Buttons  []Button
	Feedback Feedback
}

var (
	secretField = Field{
		Kind:        FieldSecret,
		Label:       "OpenRouter API key",
		Placeholder: "sk-or-v1-xxxxxxxxxxxx",
		Masked:      true,
		MaxLen:      SecretMaxLen,
	}
	pinField = Field{
		Kind:        FieldPin,
		Label:       "PIN",
		Placeholder: "4 digits",
		Masked:      true,
		MaxLen:      PinLength,
		DigitsOnly:  true,
	}
)

// Layout returns the field and buttons for the current mode. Both surfaces
// draw exclusively from this, so they cannot disagree.
func (s Session) Layout() Layout {
	l := Layout{Feedback: s.Feedback}
	switch s.Mode {
	case ModeEnrollment:
		f := secretField
		l.Title = "Sign in"
		l.Hint = msgEnrollHint
		l.Field = &f
		l.Buttons = []Button{{Label: "Sign in", Action: ActionSubmitSecret, Key: "enter"}}
		if s.RecordExists {
			l.Buttons = append(l.Buttons, Button{Label: "Use PIN", Action: ActionToggleReset, Key: "ctrl+r"})
		}
	case ModeReset:
		f := secretField
		l.Title = "Reset key"
		l.Hint = msgResetHint
		l.Field = &f
		l.Buttons = []Button{
			{Label: "Sign in", Action: ActionSubmitSecret, Key: "enter"},
			{Label: "Use PIN", Action: ActionToggleReset, Key: "ctrl+r"},
		}
	case ModePinChallenge:
		f := pinField
		l.Title = "Unlock"
		l.Hint = msgChallengeHint
		l.Field = &f
		l.Buttons = []Button{
			{Label: "Sign in", Action: ActionSubmitPin, Key: "enter"},
			{Label: "Reset key", Action: ActionToggleReset, Key: "ctrl+r"},
		}
	case ModePinReveal:
		l.Title = "Your PIN"
		l.Field = &Field{
			Kind:     FieldCode,
			Label:    "Your PIN for future sign-ins",
			ReadOnly: true,
			Value:    s.RevealedCode,
		}
		l.Buttons = []Button{{Label: "OK", Action: ActionAcknowledge, Key: "enter"}}
	case ModeAuthenticated:
		l.Title = "Signed in"
	}
	return l
}

// ButtonFor returns the button bound to key, if the layout has one.
func (l Layout) ButtonFor(key string) (Button, bool) {
	for _, b := range l.Buttons {
		if b.Key == key {
			return b, true
		}
	}
	return Button{}, false
}
