package tui

import (
	"context"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/batalabs/pinchat/internal/auth"
)

var formSeq atomic.Int64

// dispatchedMsg carries a controller result back to the form that asked
// for it. Results addressed to another form are dropped.
type dispatchedMsg struct {
	form   int64
	result auth.Result
}

// authForm is the render-and-forward adapter shared by both surfaces. It
// owns no authentication logic: keys map to actions, actions go to the
// controller, and the returned session is drawn as-is.
type authForm struct {
	id       int64
	ctrl     *auth.Controller
	session  auth.Session
	input    textinput.Model
	spinner  spinner.Model
	busy     bool
	busyText string

	ctx    context.Context
	cancel context.CancelFunc
}

func newAuthForm(ctrl *auth.Controller) *authForm {
	ctx, cancel := context.WithCancel(context.Background())
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.Width = 40

	f := &authForm{
		id:      formSeq.Add(1),
		ctrl:    ctrl,
		session: ctrl.Session(),
		input:   ti,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(InfoStyle)),
		ctx:     ctx,
		cancel:  cancel,
	}
	f.syncInput()
	return f
}

// Session returns the last session the form rendered.
func (f *authForm) Session() auth.Session {
	return f.session
}

// close abandons any in-flight submission.
func (f *authForm) close() {
	f.cancel()
}

// syncInput reconfigures the text field for the current mode and copies
// the controller's input buffer into it.
func (f *authForm) syncInput() {
	field := f.session.Layout().Field
	if field == nil || field.ReadOnly {
		f.input.Blur()
		f.input.Reset()
		return
	}
	f.input.Placeholder = field.Placeholder
	f.input.CharLimit = field.MaxLen
	if field.Masked {
		f.input.EchoMode = textinput.EchoPassword
		f.input.EchoCharacter = '•'
	} else {
		f.input.EchoMode = textinput.EchoNormal
	}
	f.input.SetValue(f.session.Input)
	f.input.CursorEnd()
	f.input.Focus()
}

// update handles msg. It returns a non-nil result when a dispatch for this
// form finished.
func (f *authForm) update(msg tea.Msg) (tea.Cmd, *auth.Result) {
	switch msg := msg.(type) {
	case dispatchedMsg:
		if msg.form != f.id {
			return nil, nil
		}
		f.busy = false
		f.busyText = ""
		f.session = msg.result.Session
		f.syncInput()
		res := msg.result
		return nil, &res

	case spinner.TickMsg:
		if !f.busy {
			return nil, nil
		}
		var cmd tea.Cmd
		f.spinner, cmd = f.spinner.Update(msg)
		return cmd, nil

	case tea.KeyMsg:
		if f.busy {
			return nil, nil
		}
		layout := f.session.Layout()
		if btn, ok := layout.ButtonFor(msg.String()); ok {
			return f.press(btn), nil
		}
		if layout.Field == nil || layout.Field.ReadOnly {
			return nil, nil
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if layout.Field.DigitsOnly {
			if v := f.input.Value(); v != auth.DigitsOnly(v) {
				f.input.SetValue(auth.DigitsOnly(v))
				f.input.CursorEnd()
			}
		}
		return cmd, nil
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd, nil
}

// press turns a button into an action and dispatches it.
func (f *authForm) press(btn auth.Button) tea.Cmd {
	var a auth.Action
	switch btn.Action {
	case auth.ActionToggleReset:
		a = auth.ToggleReset()
	default:
		a = auth.Submit(f.session.Mode, f.input.Value())
	}
	if a.Kind == auth.ActionNone {
		return nil
	}
	return f.dispatch(a)
}

// dispatch runs the controller off the event loop and locks input until
// the result arrives.
func (f *authForm) dispatch(a auth.Action) tea.Cmd {
	f.busy = true
	f.busyText = auth.BusyText(a.Kind)
	ctrl, ctx, id := f.ctrl, f.ctx, f.id
	run := func() tea.Msg {
		return dispatchedMsg{form: id, result: ctrl.Dispatch(ctx, a)}
	}
	if f.busyText == "" {
		return run
	}
	return tea.Batch(run, f.spinner.Tick)
}

// view renders the session layout.
func (f *authForm) view() string {
	layout := f.session.Layout()
	var b strings.Builder

	b.WriteString(TitleStyle.Render(layout.Title))
	b.WriteString("\n")
	if layout.Hint != "" {
		b.WriteString(HintStyle.Render(layout.Hint))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if field := layout.Field; field != nil {
		b.WriteString(LabelStyle.Render(field.Label))
		b.WriteString("\n")
		if field.ReadOnly {
			b.WriteString(CodeStyle.Render(spaced(field.Value)))
		} else {
			b.WriteString(f.input.View())
		}
		b.WriteString("\n\n")
	}

	switch {
	case f.busy && f.busyText != "":
		b.WriteString(f.spinner.View() + " " + InfoStyle.Render(f.busyText))
	case layout.Feedback.Text != "":
		b.WriteString(feedbackStyle(layout.Feedback.Severity).Render(layout.Feedback.Text))
	}
	b.WriteString("\n\n")

	var buttons []string
	for _, btn := range layout.Buttons {
		buttons = append(buttons, ButtonKeyStyle.Render("["+btn.Key+"]")+" "+ButtonStyle.Render(btn.Label))
	}
	b.WriteString(strings.Join(buttons, "   "))
	return b.String()
}

// spaced puts a space between characters so a PIN reads clearly.
func spaced(s string) string {
	return strings.Join(strings.Split(s, ""), " ")
}
