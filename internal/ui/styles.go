package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

const (
	summaryLineTemplateConstant = "%s %s\n"
	successColorConstant        = "2"
	noticeColorConstant         = "3"
	detailColorConstant         = "244"
)

// Styles renders command summary lines for a specific output stream.
type Styles struct {
	output       io.Writer
	successStyle lipgloss.Style
	noticeStyle  lipgloss.Style
	detailStyle  lipgloss.Style
}

// NewStyles builds styles whose color profile follows the capabilities of output.
func NewStyles(output io.Writer) Styles {
	renderer := lipgloss.NewRenderer(output)
	return Styles{
		output:       output,
		successStyle: renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(successColorConstant)),
		noticeStyle:  renderer.NewStyle().Bold(true).Foreground(lipgloss.Color(noticeColorConstant)),
		detailStyle:  renderer.NewStyle().Foreground(lipgloss.Color(detailColorConstant)),
	}
}

// Success prints "LABEL: detail" highlighting the label as a completed action.
func (styles Styles) Success(label string, detail string) {
	styles.printLine(styles.successStyle, label, detail)
}

// Notice prints "LABEL: detail" highlighting the label as informational.
func (styles Styles) Notice(label string, detail string) {
	styles.printLine(styles.noticeStyle, label, detail)
}

// Detail renders secondary text such as provenance hints.
func (styles Styles) Detail(text string) string {
	return styles.detailStyle.Render(text)
}

func (styles Styles) printLine(labelStyle lipgloss.Style, label string, detail string) {
	if styles.output == nil {
		return
	}
	fmt.Fprintf(styles.output, summaryLineTemplateConstant, labelStyle.Render(label+":"), detail)
}
