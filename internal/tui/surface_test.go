package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batalabs/pinchat/internal/auth"
	"github.com/batalabs/pinchat/internal/config"
)

func counter(n *int) func() tea.Cmd {
	return func() tea.Cmd {
		*n++
		return nil
	}
}

func TestNewSurface(t *testing.T) {
	ctrl := auth.NewController(&memStore{}, stubValidator{}, nil)
	_, isPanel := NewSurface(config.SurfacePanel, ctrl, 0, nil).(*Panel)
	assert.True(t, isPanel)
	_, isOverlay := NewSurface(config.SurfaceOverlay, ctrl, 0, nil).(*Overlay)
	assert.True(t, isOverlay)
	_, isOverlay = NewSurface("", ctrl, 0, nil).(*Overlay)
	assert.True(t, isOverlay)
}

func TestOverlay_EnrollRevealAcknowledge(t *testing.T) {
	store := &memStore{}
	calls := 0
	o := NewOverlay(auth.NewController(store, stubValidator{accept: true}, nil), 0, counter(&calls))
	require.Equal(t, auth.ModeEnrollment, o.Session().Mode)

	typeInto(o.Update, "sk-or-v1-abc")
	pump(o.Update, keyEnter)
	require.Equal(t, auth.ModePinReveal, o.Session().Mode)
	assert.Contains(t, o.View(0, 0), "4 8 2 1")
	assert.Equal(t, 0, calls)
	assert.True(t, o.Visible())

	pump(o.Update, keyEnter)
	assert.Equal(t, auth.ModeAuthenticated, o.Session().Mode)
	assert.Equal(t, 1, calls)
	assert.False(t, o.Visible())
	assert.Empty(t, o.View(80, 24))
	assert.Equal(t, "sk-or-v1-abc", store.secret)
}

func TestOverlay_DelayedDismissal(t *testing.T) {
	store := &memStore{secret: "sk", code: "1234"}
	calls := 0
	o := NewOverlay(auth.NewController(store, stubValidator{}, nil), 5*time.Millisecond, counter(&calls))

	typeInto(o.Update, "1234")
	pump(o.Update, keyEnter)
	assert.Equal(t, 1, calls)
	assert.False(t, o.Visible())
}

func TestOverlay_CloseBeforeDismissalIsNoop(t *testing.T) {
	store := &memStore{secret: "sk", code: "1234"}
	calls := 0
	o := NewOverlay(auth.NewController(store, stubValidator{}, nil), time.Hour, counter(&calls))

	typeInto(o.Update, "1234")
	var done dispatchedMsg
	found := false
	for _, msg := range collect(o.Update(keyEnter)) {
		if d, ok := msg.(dispatchedMsg); ok {
			done, found = d, true
		}
	}
	require.True(t, found)

	// The dismissal tick is scheduled but never run here.
	require.NotNil(t, o.Update(done))
	assert.True(t, o.Visible(), "overlay waits for the dismissal delay")

	o.Close()
	assert.Nil(t, o.Update(dismissMsg{form: o.form.id, seq: 1}))
	assert.Nil(t, o.Update(dismissMsg{form: o.form.id, seq: o.seq}))
	assert.Equal(t, 0, calls)
}

func TestOverlay_IgnoresStaleDismissal(t *testing.T) {
	store := &memStore{secret: "sk", code: "1234"}
	calls := 0
	o := NewOverlay(auth.NewController(store, stubValidator{}, nil), 0, counter(&calls))

	assert.Nil(t, o.Update(dismissMsg{form: o.form.id, seq: 99}))
	assert.Nil(t, o.Update(dismissMsg{form: -1, seq: 0}))
	assert.True(t, o.Visible())
	assert.Equal(t, 0, calls)
}

func TestPanel_CallbackOnlyOnSuccess(t *testing.T) {
	store := &memStore{secret: "sk", code: "1234"}
	calls := 0
	p := NewPanel(auth.NewController(store, stubValidator{}, nil), counter(&calls))

	typeInto(p.Update, "9999")
	pump(p.Update, keyEnter)
	assert.Equal(t, 0, calls)
	assert.Equal(t, auth.ModePinChallenge, p.Session().Mode)
	assert.Equal(t, auth.PinMismatch, p.Session().Feedback.Kind)
	assert.Empty(t, p.form.input.Value(), "wrong PIN clears the field")
	assert.Contains(t, p.View(80, 24), "Wrong PIN")

	typeInto(p.Update, "1234")
	pump(p.Update, keyEnter)
	assert.Equal(t, 1, calls)
	assert.True(t, p.Done())

	pump(p.Update, keyEnter)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 2, store.verifies)
}

func TestPanel_AcknowledgeCompletesOnce(t *testing.T) {
	store := &memStore{}
	calls := 0
	p := NewPanel(auth.NewController(store, stubValidator{accept: true}, nil), counter(&calls))

	typeInto(p.Update, "sk-or-v1-abc")
	pump(p.Update, keyEnter)
	require.Equal(t, auth.ModePinReveal, p.Session().Mode)
	assert.Equal(t, 0, calls)

	pump(p.Update, keyEnter)
	assert.Equal(t, 1, calls)
	assert.Empty(t, p.View(80, 24))
}

func TestPanel_RejectedSecretNeverCompletes(t *testing.T) {
	store := &memStore{}
	calls := 0
	p := NewPanel(auth.NewController(store, stubValidator{accept: false}, nil), counter(&calls))

	typeInto(p.Update, "sk-bad")
	pump(p.Update, keyEnter)
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, store.saves)
	assert.Equal(t, auth.ValidationRejected, p.Session().Feedback.Kind)
	assert.Equal(t, "sk-bad", p.form.input.Value(), "rejected key stays in the field")
}

// Both surfaces must draw the same form for the same session.
func TestSurfaces_RenderIdenticalForms(t *testing.T) {
	o := NewOverlay(auth.NewController(&memStore{secret: "sk", code: "1234"}, stubValidator{}, nil), 0, nil)
	p := NewPanel(auth.NewController(&memStore{secret: "sk", code: "1234"}, stubValidator{}, nil), nil)

	same := func() {
		t.Helper()
		assert.Equal(t, o.Session().Mode, p.Session().Mode)
		assert.Equal(t, o.Session().Layout(), p.Session().Layout())
		assert.Equal(t, o.form.view(), p.form.view())
	}

	same()
	for _, msg := range []tea.Msg{keyReset, keyReset} {
		pump(o.Update, msg)
		pump(p.Update, msg)
		same()
	}
	typeInto(o.Update, "0000")
	typeInto(p.Update, "0000")
	pump(o.Update, keyEnter)
	pump(p.Update, keyEnter)
	same()
}

func TestSurface_ToggleResetTwice(t *testing.T) {
	p := NewPanel(auth.NewController(&memStore{secret: "sk", code: "1234"}, stubValidator{}, nil), nil)

	typeInto(p.Update, "0000")
	pump(p.Update, keyEnter)
	require.True(t, p.Session().Feedback.IsError())

	pump(p.Update, keyReset)
	assert.Equal(t, auth.ModeReset, p.Session().Mode)
	assert.Contains(t, p.form.view(), "OpenRouter API key")

	pump(p.Update, keyReset)
	assert.Equal(t, auth.ModePinChallenge, p.Session().Mode)
	assert.NotContains(t, p.form.view(), "Wrong PIN")
}

func TestAuthForm_PinFieldAcceptsDigitsOnly(t *testing.T) {
	f := newAuthForm(auth.NewController(&memStore{secret: "sk", code: "1234"}, stubValidator{}, nil))
	update := func(msg tea.Msg) tea.Cmd {
		cmd, _ := f.update(msg)
		return cmd
	}

	typeInto(update, "1a2b")
	assert.Equal(t, "12", f.input.Value())
	typeInto(update, "3456")
	assert.Equal(t, "1234", f.input.Value(), "PIN field is capped at four digits")
}

func TestAuthForm_LocksInputWhileBusy(t *testing.T) {
	f := newAuthForm(auth.NewController(&memStore{secret: "sk", code: "1234"}, stubValidator{}, nil))
	update := func(msg tea.Msg) tea.Cmd {
		cmd, _ := f.update(msg)
		return cmd
	}

	typeInto(update, "1234")
	cmd := update(keyEnter)
	require.NotNil(t, cmd)
	assert.True(t, f.busy)
	assert.Contains(t, f.view(), "Checking PIN")

	typeInto(update, "9")
	assert.Equal(t, "1234", f.input.Value())
	assert.Nil(t, update(keyEnter), "second submit while busy is ignored")

	// A result for some other form changes nothing.
	_, res := f.update(dispatchedMsg{form: f.id + 1000})
	assert.Nil(t, res)
	assert.True(t, f.busy)

	for _, msg := range collect(cmd) {
		if d, ok := msg.(dispatchedMsg); ok {
			_, res = f.update(d)
		}
	}
	require.NotNil(t, res)
	assert.True(t, res.Completed)
	assert.False(t, f.busy)
}

func TestAuthForm_ButtonsShownPerMode(t *testing.T) {
	f := newAuthForm(auth.NewController(&memStore{secret: "sk", code: "1234"}, stubValidator{}, nil))
	view := f.view()
	assert.Contains(t, view, "[enter] Sign in")
	assert.Contains(t, view, "[ctrl+r] Reset key")

	f = newAuthForm(auth.NewController(&memStore{}, stubValidator{}, nil))
	view = f.view()
	assert.Contains(t, view, "[enter] Sign in")
	assert.False(t, strings.Contains(view, "ctrl+r"), "no reset without a saved key")
}
