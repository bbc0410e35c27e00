package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/batalabs/pinchat/internal/auth"
	"github.com/batalabs/pinchat/internal/config"
)

// Surface is a presentation binding for an auth controller. Overlay and
// Panel differ only in how they leave the screen once authenticated.
type Surface interface {
	Init() tea.Cmd
	Update(msg tea.Msg) tea.Cmd
	View(width, height int) string
	Session() auth.Session
	Close()
}

// NewSurface builds the surface named by kind (config.SurfaceOverlay or
// config.SurfacePanel). onAuthenticated runs once when the surface is done.
func NewSurface(kind string, ctrl *auth.Controller, dismissDelay time.Duration, onAuthenticated func() tea.Cmd) Surface {
	if kind == config.SurfacePanel {
		return NewPanel(ctrl, onAuthenticated)
	}
	return NewOverlay(ctrl, dismissDelay, onAuthenticated)
}

// dismissMsg asks an overlay to hide itself. seq ties it to one schedule.
type dismissMsg struct {
	form int64
	seq  int
}

// Overlay is a centred dialog drawn over the host. When authentication
// completes it schedules its own dismissal after delay; the dismissal is
// dropped if the overlay was closed in the meantime.
type Overlay struct {
	form            *authForm
	delay           time.Duration
	visible         bool
	closed          bool
	seq             int
	onAuthenticated func() tea.Cmd
}

// NewOverlay creates a visible overlay bound to ctrl.
func NewOverlay(ctrl *auth.Controller, delay time.Duration, onAuthenticated func() tea.Cmd) *Overlay {
	return &Overlay{
		form:            newAuthForm(ctrl),
		delay:           delay,
		visible:         true,
		onAuthenticated: onAuthenticated,
	}
}

func (o *Overlay) Init() tea.Cmd { return textinput.Blink }

// Visible reports whether the overlay is still on screen.
func (o *Overlay) Visible() bool { return o.visible }

func (o *Overlay) Session() auth.Session { return o.form.Session() }

func (o *Overlay) Update(msg tea.Msg) tea.Cmd {
	if o.closed {
		return nil
	}
	if m, ok := msg.(dismissMsg); ok {
		if m.form != o.form.id || m.seq != o.seq || !o.visible {
			return nil
		}
		o.visible = false
		o.form.close()
		if o.onAuthenticated == nil {
			return nil
		}
		return o.onAuthenticated()
	}

	cmd, res := o.form.update(msg)
	if res != nil && res.Completed {
		return tea.Batch(cmd, o.scheduleDismiss())
	}
	return cmd
}

func (o *Overlay) scheduleDismiss() tea.Cmd {
	o.seq++
	m := dismissMsg{form: o.form.id, seq: o.seq}
	if o.delay <= 0 {
		return func() tea.Msg { return m }
	}
	return tea.Tick(o.delay, func(time.Time) tea.Msg { return m })
}

// Close tears the overlay down. A pending dismissal becomes a no-op.
func (o *Overlay) Close() {
	o.closed = true
	o.visible = false
	o.seq++
	o.form.close()
}

func (o *Overlay) View(width, height int) string {
	if !o.visible {
		return ""
	}
	dialog := DialogStyle.Render(o.form.view())
	if width <= 0 || height <= 0 {
		return dialog
	}
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, dialog,
		lipgloss.WithWhitespaceChars("·"),
		lipgloss.WithWhitespaceForeground(BackdropColor))
}

// Panel is an auth block embedded in the host layout. It hands over to the
// host synchronously the moment authentication completes.
type Panel struct {
	form       *authForm
	onComplete func() tea.Cmd
	done       bool
}

// NewPanel creates a panel bound to ctrl.
func NewPanel(ctrl *auth.Controller, onComplete func() tea.Cmd) *Panel {
	return &Panel{form: newAuthForm(ctrl), onComplete: onComplete}
}

func (p *Panel) Init() tea.Cmd { return textinput.Blink }

// Done reports whether the panel has handed over to the host.
func (p *Panel) Done() bool { return p.done }

func (p *Panel) Session() auth.Session { return p.form.Session() }

func (p *Panel) Update(msg tea.Msg) tea.Cmd {
	if p.done {
		return nil
	}
	cmd, res := p.form.update(msg)
	if res == nil || !res.Completed {
		return cmd
	}
	p.done = true
	p.form.close()
	if p.onComplete == nil {
		return cmd
	}
	return tea.Batch(cmd, p.onComplete())
}

// Close abandons the panel without completing.
func (p *Panel) Close() {
	p.done = true
	p.form.close()
}

func (p *Panel) View(width, _ int) string {
	if p.done {
		return ""
	}
	header := FooterHead.Render("pinchat") + FooterMeta.Render(" · locked")
	body := PanelStyle.Render(p.form.view())
	out := header + "\n\n" + body
	if width > 0 {
		out = lipgloss.NewStyle().MaxWidth(width).Render(out)
	}
	return out
}
