package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/batalabs/pinchat/internal/domain"
	"github.com/batalabs/pinchat/internal/provider"
)

// memStore is an in-memory auth.CredentialStore.
type memStore struct {
	mu       sync.Mutex
	secret   string
	code     string
	nextCode string
	saves    int
	verifies int
}

func (s *memStore) Existing() (*domain.CredentialRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.code == "" {
		return nil, nil
	}
	return &domain.CredentialRecord{Secret: s.secret, CodeHash: "x"}, nil
}

func (s *memStore) GenerateCode(string) (string, error) {
	if s.nextCode == "" {
		return "4821", nil
	}
	return s.nextCode, nil
}

func (s *memStore) Save(secret, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	s.secret, s.code = secret, code
	return nil
}

func (s *memStore) Verify(code string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.verifies++
	return s.code != "" && code == s.code, nil
}

type stubValidator struct{ accept bool }

func (v stubValidator) Check(context.Context, string) (bool, error) { return v.accept, nil }

// fakeClient is a canned ChatClient.
type fakeClient struct {
	mu        sync.Mutex
	credits   provider.Credits
	models    []domain.ModelInfo
	reply     string
	err       error
	lastKey   string
	histories [][]domain.ChatMessage
}

func (c *fakeClient) Credits(_ context.Context, key string) (provider.Credits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastKey = key
	return c.credits, nil
}

func (c *fakeClient) FetchModels(context.Context, string) ([]domain.ModelInfo, error) {
	return c.models, nil
}

func (c *fakeClient) Complete(_ context.Context, key, _ string, history []domain.ChatMessage) (domain.ChatMessage, provider.Usage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastKey = key
	c.histories = append(c.histories, history)
	if c.err != nil {
		return domain.ChatMessage{}, provider.Usage{}, c.err
	}
	return domain.ChatMessage{Role: domain.RoleAssistant, Content: c.reply},
		provider.Usage{PromptTokens: 12, CompletionTokens: 3}, nil
}

// collect runs cmd and any batched children, returning their messages.
// Only use it on commands known not to sleep.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

// feedback reports whether msg should be routed back into the model by
// the pump helpers.
func feedback(msg tea.Msg) bool {
	switch msg.(type) {
	case dispatchedMsg, dismissMsg, ReplyMsg, BalanceMsg, ModelsMsg, tea.QuitMsg:
		return true
	}
	return false
}

// pump delivers msg to update, then keeps delivering the follow-up
// messages the program loop would, and returns every follow-up seen.
func pump(update func(tea.Msg) tea.Cmd, msg tea.Msg) []tea.Msg {
	var seen []tea.Msg
	queue := []tea.Msg{msg}
	for len(queue) > 0 {
		m := queue[0]
		queue = queue[1:]
		if _, quit := m.(tea.QuitMsg); quit {
			continue
		}
		for _, out := range collect(update(m)) {
			if feedback(out) {
				seen = append(seen, out)
				queue = append(queue, out)
			}
		}
	}
	return seen
}

func appUpdate(a *App) func(tea.Msg) tea.Cmd {
	return func(msg tea.Msg) tea.Cmd {
		_, cmd := a.Update(msg)
		return cmd
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyReset = tea.KeyMsg{Type: tea.KeyCtrlR}
)

// typeInto sends text as one key event and drops the cursor blink command.
func typeInto(update func(tea.Msg) tea.Cmd, text string) {
	_ = update(keyRunes(text))
}
