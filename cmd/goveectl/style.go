package main

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("13")).Bold(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// styled reports whether stdout is a terminal; piped output stays plain so
// it can be parsed.
func styled() bool {
	return isTerminal(os.Stdout)
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func render(s lipgloss.Style, text string) string {
	return renderTo(os.Stdout, s, text)
}

// renderTo styles text only when it is headed for a terminal.
func renderTo(f *os.File, s lipgloss.Style, text string) string {
	if !isTerminal(f) {
		return text
	}
	return s.Render(text)
}

// swatch renders a block of the given colour, or nothing when unstyled.
func swatch(hex string) string {
	if !styled() {
		return ""
	}
	return lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("    ") + " "
}
