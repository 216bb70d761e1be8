// Package render styles chat output for the terminal.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/brickchat/brickchat/pkg/chat"
	"github.com/brickchat/brickchat/pkg/footnotes"
	"github.com/charmbracelet/lipgloss"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	footnoteStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)

	threadTitleStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	threadMetaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// Renderer writes styled chat output to w.
type Renderer struct {
	w io.Writer
}

// New creates a renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// Prompt prints the role label for a message about to stream.
func (r *Renderer) Prompt(role string) {
	fmt.Fprintf(r.w, "%s ", roleStyle(role).Render(roleLabel(role)))
}

// Delta prints one streamed content fragment without styling so partial
// markdown is not mangled mid-line.
func (r *Renderer) Delta(text string) {
	fmt.Fprint(r.w, text)
}

// Newline ends a streamed line.
func (r *Renderer) Newline() {
	fmt.Fprintln(r.w)
}

// Message prints a complete message with its footnotes.
func (r *Renderer) Message(msg chat.Message) {
	fmt.Fprintf(r.w, "%s %s\n", roleStyle(msg.Role).Render(roleLabel(msg.Role)), msg.Content)
	r.Footnotes(msg.Footnotes)
}

// Footnotes prints the numbered footnote list under a message.
func (r *Renderer) Footnotes(defs []footnotes.Definition) {
	for _, def := range defs {
		line := fmt.Sprintf("  %s %s", footnotes.Superscript(def.ID), def.Content)
		fmt.Fprintln(r.w, footnoteStyle.Render(line))
	}
}

// Error prints a failure the way the chat shows it: inline, not as a crash.
func (r *Renderer) Error(err error) {
	fmt.Fprintln(r.w, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
}

// Thread prints one line of a thread listing.
func (r *Renderer) Thread(t chat.Thread) {
	title := strings.TrimSpace(t.Title())
	if runes := []rune(title); len(runes) > 72 {
		title = string(runes[:72]) + "…"
	}
	fmt.Fprintf(r.w, "%s  %s\n",
		threadTitleStyle.Render(title),
		threadMetaStyle.Render(fmt.Sprintf("%s (%s)", t.ID, t.LastMessageTime)))
}

func roleLabel(role string) string {
	switch role {
	case chat.RoleUser:
		return "you>"
	case chat.RoleAssistant:
		return "brick>"
	case chat.RoleError:
		return "error>"
	default:
		return role + ">"
	}
}

func roleStyle(role string) lipgloss.Style {
	switch role {
	case chat.RoleUser:
		return userStyle
	case chat.RoleError:
		return errorStyle
	default:
		return assistantStyle
	}
}
