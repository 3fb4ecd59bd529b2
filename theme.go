package parley

// Theme defines semantic color mappings using ANSI color indices (0-15).
// The user's terminal theme determines the actual RGB values, so the app
// automatically matches any color scheme.
type Theme struct {
	UserMsg   int // User message accent
	Assistant int // Assistant message text
	Error     int // Error messages
	Muted     int // Status bar, placeholders, dates
	Accent    int // Headings, selected conversation
}

// DefaultTheme returns the default ANSI color mapping.
func DefaultTheme() Theme {
	return Theme{
		UserMsg:   4,
		Assistant: 7,
		Error:     1,
		Muted:     8,
		Accent:    5,
	}
}
