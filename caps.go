package crossterm

import (
	"os"
	"strings"
)

// Capabilities describes what the attached terminal supports. Only the
// attribute-bits family consults this; a Windows console always supports
// screen buffer switching.
type Capabilities struct {
	// AltScreen indicates whether the terminal honors the alternate screen
	// buffer control sequences.
	AltScreen bool
}

// DetectCapabilities determines terminal capabilities from environment
// variables. Returns conservative defaults when detection fails.
func DetectCapabilities() Capabilities {
	caps := Capabilities{
		AltScreen: true, // Assume modern terminal
	}

	term := strings.ToLower(os.Getenv("TERM"))
	if term == "dumb" {
		caps.AltScreen = false
	}

	return caps
}
