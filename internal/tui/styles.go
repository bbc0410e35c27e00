package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/batalabs/pinchat/internal/auth"
)

var (
	TitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	HintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	LabelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("183"))
	PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("183"))
	CursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	CodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("222")).Bold(true)

	ButtonKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	ButtonStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	ErrorLineStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	SuccessStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	InfoStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))

	DialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 3)
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("62")).
			PaddingLeft(2)
	BackdropColor = lipgloss.Color("236")

	FooterHead   = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	FooterTokens = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	FooterMeta   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	UserBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("111")).
			Padding(0, 1)
	AsstBubbleStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("205")).
			Padding(0, 1)
	UserIconStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("111"))
	AsstIconStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	BulletStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("180"))
	HeadingStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("222")).Bold(true)
	CodeGutterStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	BoldInlineStyle   = lipgloss.NewStyle().Bold(true)
	ItalicInlineStyle = lipgloss.NewStyle().Italic(true)
	InlineCodeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))

	CompletionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	CompletionSelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("62"))
)

// feedbackStyle picks the colour for an auth feedback line.
func feedbackStyle(sev auth.Severity) lipgloss.Style {
	switch sev {
	case auth.SeverityError:
		return ErrorLineStyle
	case auth.SeveritySuccess:
		return SuccessStyle
	case auth.SeverityInfo:
		return InfoStyle
	default:
		return HintStyle
	}
}
