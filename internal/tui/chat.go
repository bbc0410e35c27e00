package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/batalabs/pinchat/internal/config"
	"github.com/batalabs/pinchat/internal/domain"
	"github.com/batalabs/pinchat/internal/provider"
)

// ChatClient is the remote API used once the user is signed in.
// *provider.OpenRouter satisfies it.
type ChatClient interface {
	Credits(ctx context.Context, apiKey string) (provider.Credits, error)
	FetchModels(ctx context.Context, apiKey string) ([]domain.ModelInfo, error)
	Complete(ctx context.Context, apiKey, modelID string, history []domain.ChatMessage) (domain.ChatMessage, provider.Usage, error)
}

// ---------------------------------------------------------------------------
// Bubble Tea message types
// ---------------------------------------------------------------------------

// ReplyMsg carries a finished completion.
type ReplyMsg struct {
	Message domain.ChatMessage
	Usage   provider.Usage
	Err     error
}

// BalanceMsg carries a credits query result.
type BalanceMsg struct {
	Credits provider.Credits
	Err     error
}

// ModelsMsg carries the model list for the selector.
type ModelsMsg struct {
	Models []domain.ModelInfo
	Err    error
}

// ChatOptions configures a Chat view.
type ChatOptions struct {
	Client        ChatClient
	APIKey        string
	Model         string
	Logger        *config.Logger
	OnModelChange func(modelID string)
	OnLock        func() tea.Cmd
}

// Chat is the main view: a transcript of bubbles, the balance header and
// a single-line input.
type Chat struct {
	opts     ChatOptions
	model    string
	messages []domain.ChatMessage
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	selector *ModelSelector

	waiting   bool
	balance   string
	status    string
	statusErr bool
	lastUsage provider.Usage

	width, height int
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewChat creates the chat view.
func NewChat(opts ChatOptions) *Chat {
	ctx, cancel := context.WithCancel(context.Background())
	ti := textinput.New()
	ti.Prompt = "> "
	ti.PromptStyle = PromptStyle
	ti.Placeholder = "Message, or /help"
	ti.Focus()

	c := &Chat{
		opts:     opts,
		model:    opts.Model,
		viewport: viewport.New(80, 20),
		input:    ti,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(AsstIconStyle)),
		balance:  "…",
		ctx:      ctx,
		cancel:   cancel,
	}
	c.refresh()
	return c
}

// Init starts the first balance query.
func (c *Chat) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, c.fetchBalance())
}

// Close cancels any in-flight request.
func (c *Chat) Close() {
	c.cancel()
}

// Model returns the active model ID.
func (c *Chat) Model() string { return c.model }

// Messages returns the conversation so far.
func (c *Chat) Messages() []domain.ChatMessage { return c.messages }

// SetSize resizes the transcript to fit width x height.
func (c *Chat) SetSize(width, height int) {
	c.width, c.height = width, height
	c.viewport.Width = width
	c.viewport.Height = max(height-4, 3)
	c.input.Width = max(width-4, 10)
	c.refresh()
}

func (c *Chat) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ReplyMsg:
		return c.handleReply(msg)

	case BalanceMsg:
		if msg.Err != nil {
			c.opts.Logger.Errorf("chat: balance: %v", msg.Err)
			c.balance = "?"
			return nil
		}
		c.balance = provider.FormatUSD(msg.Credits.Balance())
		return nil

	case ModelsMsg:
		if msg.Err != nil {
			c.setStatus("Could not load models: "+msg.Err.Error(), true)
			return nil
		}
		if len(msg.Models) == 0 {
			c.setStatus("No models available", true)
			return nil
		}
		c.selector = NewModelSelector(msg.Models, c.model)
		return nil

	case spinner.TickMsg:
		if !c.waiting {
			return nil
		}
		var cmd tea.Cmd
		c.spinner, cmd = c.spinner.Update(msg)
		return cmd

	case tea.KeyMsg:
		if c.selector.IsActive() {
			return c.handleSelectorKey(msg)
		}
		return c.handleKey(msg)
	}

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *Chat) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter":
		text := strings.TrimSpace(c.input.Value())
		if text == "" {
			return nil
		}
		c.input.Reset()
		return c.submit(text)
	case "pgup", "pgdown", "up", "down":
		var cmd tea.Cmd
		c.viewport, cmd = c.viewport.Update(msg)
		return cmd
	}
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

func (c *Chat) handleSelectorKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		c.selector.Dismiss()
	case tea.KeyUp:
		c.selector.MoveUp()
	case tea.KeyDown:
		c.selector.MoveDown()
	case tea.KeyBackspace:
		c.selector.BackspaceFilter()
	case tea.KeyEnter:
		if sel := c.selector.Selected(); sel != nil {
			c.setModel(sel.ID)
		}
		c.selector.Dismiss()
	case tea.KeyRunes, tea.KeySpace:
		c.selector.AppendFilter(msg.Runes...)
	}
	return nil
}

// submit sends text as a message or runs it as a slash command.
func (c *Chat) submit(text string) tea.Cmd {
	if strings.HasPrefix(text, "/") {
		return c.handleSlashCommand(text)
	}
	if c.waiting {
		c.setStatus("Still waiting for the previous reply", true)
		return nil
	}
	c.messages = append(c.messages, domain.ChatMessage{Role: domain.RoleUser, Content: text})
	c.waiting = true
	c.setStatus("", false)
	c.refresh()
	return tea.Batch(c.complete(), c.spinner.Tick)
}

func (c *Chat) handleSlashCommand(input string) tea.Cmd {
	def, ok := domain.LookupCommand(input)
	if !ok {
		c.setStatus("Unknown command: "+strings.Fields(input)[0]+" (try /help)", true)
		return nil
	}
	args := strings.Fields(input)[1:]

	switch def.Name {
	case "/model":
		if len(args) > 0 {
			c.setModel(args[0])
			return nil
		}
		return c.fetchModels()
	case "/balance":
		return c.fetchBalance()
	case "/clear":
		c.messages = nil
		c.lastUsage = provider.Usage{}
		c.setStatus("Conversation cleared", false)
		c.refresh()
	case "/lock":
		if c.opts.OnLock != nil {
			return c.opts.OnLock()
		}
	case "/help":
		c.setStatus(helpText(), false)
	case "/exit":
		return tea.Quit
	}
	return nil
}

func helpText() string {
	var lines []string
	for _, g := range domain.CommandGroups {
		lines = append(lines, g.Label+":")
		for _, def := range domain.CommandDefs {
			if def.Group == g.Key {
				lines = append(lines, fmt.Sprintf("  %-10s %s", def.Name, def.Description))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (c *Chat) setModel(id string) {
	c.model = id
	c.setStatus("Model set to "+id, false)
	if c.opts.OnModelChange != nil {
		c.opts.OnModelChange(id)
	}
}

func (c *Chat) handleReply(msg ReplyMsg) tea.Cmd {
	c.waiting = false
	if msg.Err != nil {
		c.opts.Logger.Errorf("chat: completion: %v", msg.Err)
		c.setStatus(describeAPIError(msg.Err), true)
		return nil
	}
	c.messages = append(c.messages, msg.Message)
	c.lastUsage = msg.Usage
	c.refresh()
	return c.fetchBalance()
}

// describeAPIError turns a provider failure into a one-line status.
func describeAPIError(err error) string {
	var apiErr *provider.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.IsUnauthorized():
			return "The API key was refused. Use /lock and reset the key."
		case apiErr.IsInsufficientCredit():
			return "Out of credit. Top up your OpenRouter account."
		case apiErr.IsRetryable():
			return "The service is busy, try again shortly (" + apiErr.Error() + ")"
		}
	}
	return "Error: " + err.Error()
}

func (c *Chat) setStatus(s string, isErr bool) {
	c.status = s
	c.statusErr = isErr
}

// refresh re-renders the transcript into the viewport.
func (c *Chat) refresh() {
	if len(c.messages) == 0 {
		c.viewport.SetContent(HintStyle.Render("Say hello. Type /help for commands."))
		return
	}
	c.viewport.SetContent(RenderTranscript(c.messages, c.viewport.Width))
	c.viewport.GotoBottom()
}

func (c *Chat) complete() tea.Cmd {
	history := append([]domain.ChatMessage(nil), c.messages...)
	client, ctx, key, model := c.opts.Client, c.ctx, c.opts.APIKey, c.model
	return func() tea.Msg {
		reply, usage, err := client.Complete(ctx, key, model, history)
		return ReplyMsg{Message: reply, Usage: usage, Err: err}
	}
}

func (c *Chat) fetchBalance() tea.Cmd {
	client, ctx, key := c.opts.Client, c.ctx, c.opts.APIKey
	return func() tea.Msg {
		credits, err := client.Credits(ctx, key)
		return BalanceMsg{Credits: credits, Err: err}
	}
}

func (c *Chat) fetchModels() tea.Cmd {
	client, ctx, key := c.opts.Client, c.ctx, c.opts.APIKey
	return func() tea.Msg {
		models, err := client.FetchModels(ctx, key)
		return ModelsMsg{Models: models, Err: err}
	}
}

// View renders the header, transcript, status line and input.
func (c *Chat) View() string {
	header := FooterHead.Render("pinchat") +
		FooterMeta.Render(" · "+c.model+" · balance ") +
		FooterTokens.Render(c.balance)
	if c.lastUsage.PromptTokens+c.lastUsage.CompletionTokens > 0 {
		header += FooterMeta.Render(fmt.Sprintf(" · %d in / %d out", c.lastUsage.PromptTokens, c.lastUsage.CompletionTokens))
	}

	var status string
	switch {
	case c.waiting:
		status = c.spinner.View() + " " + FooterMeta.Render("thinking...")
	case c.status != "" && c.statusErr:
		status = ErrorLineStyle.Render(c.status)
	case c.status != "":
		status = FooterMeta.Render(c.status)
	}

	bottom := c.input.View()
	if c.selector.IsActive() {
		bottom = c.selector.View(c.width)
	}

	return lipgloss.JoinVertical(lipgloss.Left, header, c.viewport.View(), status, bottom)
}
