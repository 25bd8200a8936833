package tui

// Color constants for the taskdeck TUI theme
const (
	// Base Colors
	ColorBorder = "#334155" // slate border

	// Text Colors
	ColorPrimaryText   = "#E2E8F0" // field labels, user input, titles
	ColorSecondaryText = "#94A3B8" // secondary slate grey
	ColorDisabledText  = "#64748B" // disabled/muted text
	ColorPlaceholder   = "#94A3B8"
	ColorHelpText      = "240" // dark grey for help text

	// Accent Colors (indigo theme)
	ColorAccentMain   = "#4F46E5" // headers, active borders
	ColorAccentBright = "#818CF8" // highlights, selected row

	// State Colors
	ColorError   = "#EF4444" // validation errors, urgent priority
	ColorSuccess = "#22C55E" // success, completed status
	ColorWarning = "#F59E0B" // warnings, high priority, due soon
)
