package views

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Common styles used across all views
type ViewStyles struct {
	Selected  lipgloss.Style
	Normal    lipgloss.Style
	Label     lipgloss.Style
	Container lipgloss.Style
	Playback  lipgloss.Style
	Marker    lipgloss.Style
	Box       lipgloss.Style
	Error     lipgloss.Style
}

// getCommonStyles returns the standard style definitions used across views
func getCommonStyles() *ViewStyles {
	return &ViewStyles{
		Selected:  lipgloss.NewStyle().Background(lipgloss.Color("7")).Foreground(lipgloss.Color("0")),
		Normal:    lipgloss.NewStyle().Foreground(lipgloss.Color("15")),
		Label:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Container: lipgloss.NewStyle().Padding(1, 2),
		Playback:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		Marker:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Box:       lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// ContainerPadding is the horizontal space the container takes from the
// terminal width
const ContainerPadding = 4

// renderViewWithCommonPattern provides a common structure for rendering views
func renderViewWithCommonPattern(width int, leftHeader, rightHeader string, renderContent func(styles *ViewStyles) string, helpText string, statusMsg string) string {
	styles := getCommonStyles()

	var content strings.Builder
	if leftHeader != "" || rightHeader != "" {
		content.WriteString(RenderHeader(width, leftHeader, rightHeader))
	}
	content.WriteString(renderContent(styles))
	content.WriteString(RenderFooter(helpText, statusMsg))

	return styles.Container.Render(content.String())
}

// RenderHeader renders a title line with rightContent pushed to the right edge
func RenderHeader(width int, leftContent, rightContent string) string {
	leftLen := lipgloss.Width(leftContent)
	rightLen := lipgloss.Width(rightContent)

	paddingSize := width - leftLen - rightLen
	if paddingSize < 1 {
		paddingSize = 1
	}

	fullHeader := leftContent
	if rightContent != "" {
		fullHeader += strings.Repeat(" ", paddingSize) + rightContent
	}
	return fullHeader + "\n\n"
}

// RenderFooter renders help text and an optional status message
func RenderFooter(helpText, statusMsg string) string {
	styles := getCommonStyles()
	var footer strings.Builder
	footer.WriteString("\n")
	if helpText != "" {
		footer.WriteString(styles.Label.Render(helpText))
		footer.WriteString("\n")
	}
	if statusMsg != "" {
		footer.WriteString(styles.Error.Render(statusMsg))
		footer.WriteString("\n")
	}
	return footer.String()
}
