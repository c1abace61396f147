package tui

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Base      lipgloss.Style
	Header    lipgloss.Style
	Tab       lipgloss.Style
	ActiveTab lipgloss.Style
	Focused   lipgloss.Style
	Dim       lipgloss.Style
	Accent    lipgloss.Style
	Error     lipgloss.Style
	Notice    lipgloss.Style
	Modal     lipgloss.Style
	Alert     lipgloss.Style
	Input     lipgloss.Style
}

var DefaultTheme = Theme{
	Base:      lipgloss.NewStyle().Margin(1, 2),
	Header:    lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true),
	Tab:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Padding(0, 1),
	ActiveTab: lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true).Underline(true).Padding(0, 1),
	Focused:   lipgloss.NewStyle().Foreground(lipgloss.Color("35")).Bold(true),
	Dim:       lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
	Accent:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
	Notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
	Modal:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("35")).Padding(1, 2).Width(52),
	Alert:     lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("203")).Padding(1, 2).Width(52),
	Input:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1).Width(44),
}
