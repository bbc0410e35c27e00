package tui

import (
	"fmt"
	"strings"

	"github.com/batalabs/pinchat/internal/domain"
)

// ModelSelector is a searchable model list shown in place of the chat input.
type ModelSelector struct {
	models      []domain.ModelInfo
	filtered    []domain.ModelInfo
	selectedIdx int
	filter      string
	active      bool
}

// NewModelSelector creates an active selector over models, highlighting
// current when it is in the list.
func NewModelSelector(models []domain.ModelInfo, current string) *ModelSelector {
	p := &ModelSelector{models: models, filtered: models, active: true}
	for i, m := range models {
		if m.ID == current {
			p.selectedIdx = i
			break
		}
	}
	return p
}

// IsActive reports whether the selector is currently shown.
func (p *ModelSelector) IsActive() bool {
	return p != nil && p.active
}

// Dismiss closes the selector.
func (p *ModelSelector) Dismiss() {
	p.active = false
}

// Selected returns the highlighted model, or nil.
func (p *ModelSelector) Selected() *domain.ModelInfo {
	if len(p.filtered) == 0 {
		return nil
	}
	return &p.filtered[p.selectedIdx]
}

// Filter returns the current filter text.
func (p *ModelSelector) Filter() string {
	return p.filter
}

// MoveUp moves the selection up.
func (p *ModelSelector) MoveUp() {
	if p.selectedIdx > 0 {
		p.selectedIdx--
	}
}

// MoveDown moves the selection down.
func (p *ModelSelector) MoveDown() {
	if p.selectedIdx < len(p.filtered)-1 {
		p.selectedIdx++
	}
}

// SetFilter replaces the filter string and re-filters.
func (p *ModelSelector) SetFilter(f string) {
	p.filter = f
	p.applyFilter()
}

// AppendFilter adds runes to the filter.
func (p *ModelSelector) AppendFilter(r ...rune) {
	p.filter += string(r)
	p.applyFilter()
}

// BackspaceFilter removes the last rune from the filter.
func (p *ModelSelector) BackspaceFilter() {
	if p.filter == "" {
		return
	}
	runes := []rune(p.filter)
	p.filter = string(runes[:len(runes)-1])
	p.applyFilter()
}

func (p *ModelSelector) applyFilter() {
	if p.filter == "" {
		p.filtered = p.models
	} else {
		lower := strings.ToLower(p.filter)
		p.filtered = nil
		for _, m := range p.models {
			if matchModel(m, lower) {
				p.filtered = append(p.filtered, m)
			}
		}
	}
	p.selectedIdx = 0
}

// matchModel checks the lowercased filter against display name and ID.
func matchModel(m domain.ModelInfo, lower string) bool {
	return strings.Contains(strings.ToLower(m.Name), lower) ||
		strings.Contains(strings.ToLower(m.ID), lower)
}

// View renders the selector as a string.
func (p *ModelSelector) View(width int) string {
	if width < 40 {
		width = 40
	}

	var b strings.Builder
	b.WriteString(FooterHead.Render("Select model"))
	b.WriteString("\n")
	b.WriteString(FooterMeta.Render("  Search: " + p.filter))
	b.WriteString(CursorStyle.Render("█"))
	b.WriteString("\n\n")

	if len(p.filtered) == 0 {
		b.WriteString(FooterMeta.Render("  No matching models."))
		b.WriteString("\n")
	} else {
		const maxVisible = 10
		start := 0
		if p.selectedIdx >= maxVisible {
			start = p.selectedIdx - maxVisible + 1
		}
		end := min(start+maxVisible, len(p.filtered))

		for i := start; i < end; i++ {
			m := p.filtered[i]
			indicator := "  "
			if i == p.selectedIdx {
				indicator = "> "
			}
			line := indicator + TruncateToWidth(m.Label(), width-30)
			if m.Name != "" && m.Name != m.ID {
				line += "  " + m.ID
			}
			line = TruncateToWidth(line, width-2)
			if i == p.selectedIdx {
				b.WriteString(CompletionSelStyle.Render(line))
			} else {
				b.WriteString(CompletionStyle.Render(line))
			}
			b.WriteString("\n")
		}
		if len(p.filtered) > maxVisible {
			b.WriteString(FooterMeta.Render(fmt.Sprintf("  ... %d total", len(p.filtered))))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(FooterMeta.Render("  ↑/↓=move  Enter=select  Esc=cancel"))
	b.WriteString("\n")
	return b.String()
}
