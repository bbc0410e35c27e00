package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/batalabs/pinchat/internal/auth"
	"github.com/batalabs/pinchat/internal/config"
)

// Options wires the App to its collaborators.
type Options struct {
	Credentials   auth.CredentialStore
	Validator     auth.SecretValidator
	Client        ChatClient
	Surface       string
	DismissDelay  time.Duration
	Model         string
	Logger        *config.Logger
	OnModelChange func(modelID string)
}

// App is the host model: an auth surface until the user is signed in,
// then the chat view.
type App struct {
	opts    Options
	surface Surface
	chat    *Chat
	width   int
	height  int
}

// NewApp creates the host with a fresh auth surface.
func NewApp(opts Options) *App {
	a := &App{opts: opts}
	a.surface = a.newSurface()
	return a
}

func (a *App) newSurface() Surface {
	ctrl := auth.NewController(a.opts.Credentials, a.opts.Validator, a.opts.Logger)
	return NewSurface(a.opts.Surface, ctrl, a.opts.DismissDelay, a.unlock)
}

// Surface returns the active auth surface, or nil once signed in.
func (a *App) Surface() Surface { return a.surface }

// Chat returns the chat view, or nil while locked.
func (a *App) Chat() *Chat { return a.chat }

func (a *App) Init() tea.Cmd {
	return a.surface.Init()
}

// unlock is the surfaces' completion callback.
func (a *App) unlock() tea.Cmd {
	rec, err := a.opts.Credentials.Existing()
	if err != nil || rec == nil {
		a.opts.Logger.Errorf("app: loading key after sign-in: %v", err)
		a.surface = a.newSurface()
		return a.surface.Init()
	}
	a.opts.Logger.Printf("app: signed in")
	a.surface = nil
	a.chat = NewChat(ChatOptions{
		Client:        a.opts.Client,
		APIKey:        rec.Secret,
		Model:         a.opts.Model,
		Logger:        a.opts.Logger,
		OnModelChange: a.modelChanged,
		OnLock:        a.lock,
	})
	if a.width > 0 {
		a.chat.SetSize(a.width, a.height)
	}
	return a.chat.Init()
}

// lock drops the chat and asks for the PIN again.
func (a *App) lock() tea.Cmd {
	if a.chat != nil {
		a.opts.Model = a.chat.Model()
		a.chat.Close()
		a.chat = nil
	}
	a.opts.Logger.Printf("app: locked")
	a.surface = a.newSurface()
	return a.surface.Init()
}

func (a *App) modelChanged(id string) {
	a.opts.Model = id
	if a.opts.OnModelChange != nil {
		a.opts.OnModelChange(id)
	}
}

func (a *App) shutdown() {
	if a.surface != nil {
		a.surface.Close()
	}
	if a.chat != nil {
		a.chat.Close()
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width, a.height = msg.Width, msg.Height
		if a.chat != nil {
			a.chat.SetSize(msg.Width, msg.Height)
		}
		return a, nil
	case tea.KeyMsg:
		switch {
		case msg.Type == tea.KeyCtrlC:
			a.shutdown()
			return a, tea.Quit
		case msg.Type == tea.KeyEsc && a.surface != nil:
			a.shutdown()
			return a, tea.Quit
		}
	}

	if a.surface != nil {
		return a, a.surface.Update(msg)
	}
	if a.chat != nil {
		return a, a.chat.Update(msg)
	}
	return a, nil
}

func (a *App) View() string {
	if a.surface != nil {
		return a.surface.View(a.width, a.height)
	}
	if a.chat != nil {
		return a.chat.View()
	}
	return ""
}
