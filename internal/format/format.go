// Package format renders user-facing CLI output: status-marked lines,
// section headers, and the version banner. Styling goes through lipgloss,
// which degrades to plain text on dumb terminals and respects NO_COLOR.
package format

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	headerStyle  = lipgloss.NewStyle().Bold(true)
	ruleStyle    = lipgloss.NewStyle().Faint(true)
)

// headerRuleWidth is the width of the rule under section headers.
const headerRuleWidth = 60

// Success formats a success line: [✓] message.
func Success(message string) string {
	return successStyle.Render("[✓]") + " " + message
}

// Error formats an error line: [✗] message.
func Error(message string) string {
	return errorStyle.Render("[✗]") + " " + message
}

// Info formats an informational line: [*] message.
func Info(message string) string {
	return infoStyle.Render("[*]") + " " + message
}

// Warning formats a warning line: [!] message.
func Warning(message string) string {
	return warningStyle.Render("[!]") + " " + message
}

// Header formats a section header with a rule underneath.
func Header(title string) string {
	return headerStyle.Render(title) + "\n" +
		ruleStyle.Render(strings.Repeat("─", headerRuleWidth))
}

// Banner returns the version banner shown by the info command.
func Banner(version string) string {
	return Info(fmt.Sprintf("nihil version %s", version))
}
