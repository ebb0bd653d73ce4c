package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Terminal palette. Kept to a handful of ANSI-256 colors so output stays
// readable on both light and dark backgrounds.
var (
	colorAccent  = lipgloss.Color("36")  // teal, primary accent
	colorGood    = lipgloss.Color("35")  // green, success
	colorCaution = lipgloss.Color("220") // amber, warnings
	colorBad     = lipgloss.Color("167") // soft red, errors
	colorCommand = lipgloss.Color("75")  // light blue, runnable commands
	colorBright  = lipgloss.Color("255") // bright white, values
	colorSoft    = lipgloss.Color("245") // gray, secondary text
	colorFaint   = lipgloss.Color("240") // dim gray, muted text
)

// Styles shared with the inspect TUI.
var (
	// StyleTitle renders view headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight renders emphasized names and values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim renders secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorFaint)

	// StyleWarning renders data-quality warnings.
	StyleWarning = lipgloss.NewStyle().Foreground(colorCaution)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGood)
	styleIconError   = lipgloss.NewStyle().Foreground(colorBad)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorCaution)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorSoft)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)

	styleValue    = lipgloss.NewStyle().Foreground(colorBright)
	styleCached   = lipgloss.NewStyle().Foreground(colorGood)
	styleComputed = lipgloss.NewStyle().Foreground(colorSoft)
	styleCommand  = lipgloss.NewStyle().Foreground(colorCommand)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// printSuccess reports a completed operation.
func printSuccess(format string, args ...any) {
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

// printError reports a failed operation.
func printError(format string, args ...any) {
	fmt.Println(styleIconError.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

// printWarning reports a non-fatal problem, e.g. a skipped CSV row or a
// validation issue.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo reports a neutral status line.
func printInfo(format string, args ...any) {
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted detail line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile points at an artifact written to disk.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + styleValue.Render(path))
}

// printKeyValue prints a labeled value with a fixed-width key column.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorSoft).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + styleValue.Render(value))
}

// printStats summarizes a processed tree on one line: person and marriage
// counts plus whether the result came from cache.
func printStats(personCount, marriageCount int, cached bool) {
	var parts []string
	if personCount > 0 {
		parts = append(parts, fmt.Sprintf("%d people", personCount))
	}
	if marriageCount > 0 {
		parts = append(parts, fmt.Sprintf("%d marriages", marriageCount))
	}

	status, statusStyle := iconFresh, styleComputed
	if cached {
		status, statusStyle = iconCached, styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// printNextStep suggests the command that usually follows this one.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printInline prints a muted message without a trailing newline.
func printInline(format string, args ...any) {
	fmt.Print(StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printNewline() {
	fmt.Println()
}
