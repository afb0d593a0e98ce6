package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
var (
	colorGreen  = lipgloss.Color("40")
	colorYellow = lipgloss.Color("220")
	colorRed    = lipgloss.Color("196")
	colorCyan   = lipgloss.Color("39")
	colorGray   = lipgloss.Color("244")
	colorWhite  = lipgloss.Color("255")
	colorDim    = lipgloss.Color("240")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	hintStyle = lipgloss.NewStyle().
			Foreground(colorDim)

	// Label style for field names
	labelStyle = lipgloss.NewStyle().
			Width(16).
			Foreground(colorGray)

	valueStyle = lipgloss.NewStyle().
			Foreground(colorWhite)

	signedInStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	guestStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	okStyle = lipgloss.NewStyle().
		Foreground(colorGreen)

	urlStyle = lipgloss.NewStyle().
			Foreground(colorCyan)

	// Table columns
	idColStyle = lipgloss.NewStyle().
			Foreground(colorDim).
			Width(6)

	nameColStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Width(24)

	sizeColStyle = lipgloss.NewStyle().
			Foreground(colorCyan).
			Width(6)

	qtyColStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Width(5).
			Align(lipgloss.Right)

	priceColStyle = lipgloss.NewStyle().
			Foreground(colorWhite).
			Width(10).
			Align(lipgloss.Right)

	headerColStyle = lipgloss.NewStyle().
			Foreground(colorGray)

	starStyle = lipgloss.NewStyle().
			Foreground(colorYellow)

	totalStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)
)

// StatusText renders whether a user is signed in.
func StatusText(signedIn bool) string {
	if signedIn {
		return signedInStyle.Render("signed in")
	}
	return guestStyle.Render("guest")
}

// ErrorText renders msg as an error line.
func ErrorText(msg string) string {
	return errorStyle.Render(msg)
}

// OKText renders msg as a success line.
func OKText(msg string) string {
	return okStyle.Render(msg)
}
