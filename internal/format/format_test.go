package format

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

// TestMain pins the color profile to plain ASCII so marker assertions do
// not depend on the terminal running the tests.
func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	m.Run()
}

// TestStatusMarkers verifies the marker prefix contract of the four
// status line helpers.
func TestStatusMarkers(t *testing.T) {
	tests := []struct {
		name   string
		render func(string) string
		marker string
	}{
		{"success", Success, "[✓]"},
		{"error", Error, "[✗]"},
		{"info", Info, "[*]"},
		{"warning", Warning, "[!]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.render("daemon reachable")
			assert.Equal(t, tt.marker+" daemon reachable", got)
		})
	}
}

// TestHeader verifies the title line and the rule underneath.
func TestHeader(t *testing.T) {
	got := Header("Containers")
	lines := strings.Split(got, "\n")
	assert.Len(t, lines, 2)
	assert.Equal(t, "Containers", lines[0])
	assert.Equal(t, strings.Repeat("─", headerRuleWidth), lines[1])
}

// TestBanner verifies the version banner text.
func TestBanner(t *testing.T) {
	assert.Equal(t, "[*] nihil version 1.2.3", Banner("1.2.3"))
}
