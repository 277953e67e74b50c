package crossterm

// ScreenKind tags the screen target variants.
type ScreenKind int

const (
	// ScreenMain is the process's standard output surface.
	ScreenMain ScreenKind = iota
	// ScreenAlternate is a second output surface: a distinct screen-buffer
	// resource on the screen-buffer family, an escape-driven region on the
	// attribute-bits family.
	ScreenAlternate
)

// ScreenTarget is where output currently goes. Exactly one target is
// active per Context at any time; consumers resolve it through
// Context.ScreenTarget rather than holding their own.
type ScreenTarget interface {
	// Write forwards a byte payload to the surface at the terminal's
	// current cursor cell.
	Write(p []byte) (int, error)
	// Flush forces buffered output out where the surface is stream-backed.
	Flush() error
	// Info returns geometry, cursor, and attributes from one OS query.
	Info() (ScreenInfo, error)
	// ActiveHandle returns the OS resource designated active, for cell-grid
	// and fill operations.
	ActiveHandle() (Handle, error)
	// Kind tags the variant.
	Kind() ScreenKind
}

// MainScreen is the ScreenTarget for the process's standard output.
type MainScreen struct {
	console Console
}

// NewMainScreen returns the main-screen target for a console.
func NewMainScreen(c Console) *MainScreen {
	return &MainScreen{console: c}
}

func (s *MainScreen) Write(p []byte) (int, error) {
	h, err := s.console.Output()
	if err != nil {
		return 0, err
	}
	return s.console.WriteText(h, p)
}

func (s *MainScreen) Flush() error {
	h, err := s.console.Output()
	if err != nil {
		return err
	}
	return s.console.Flush(h)
}

func (s *MainScreen) Info() (ScreenInfo, error) {
	h, err := s.console.Output()
	if err != nil {
		return ScreenInfo{}, err
	}
	return s.console.Info(h)
}

func (s *MainScreen) ActiveHandle() (Handle, error) {
	return s.console.Output()
}

func (s *MainScreen) Kind() ScreenKind { return ScreenMain }

// AltScreen is the ScreenTarget for an activated alternate surface. It is
// constructed by AlternateScreenCommand, which owns the surface's
// lifecycle.
type AltScreen struct {
	console Console
	handle  Handle
}

func newAltScreen(c Console, h Handle) *AltScreen {
	return &AltScreen{console: c, handle: h}
}

func (s *AltScreen) Write(p []byte) (int, error) {
	return s.console.WriteText(s.handle, p)
}

func (s *AltScreen) Flush() error {
	return s.console.Flush(s.handle)
}

func (s *AltScreen) Info() (ScreenInfo, error) {
	return s.console.Info(s.handle)
}

func (s *AltScreen) ActiveHandle() (Handle, error) {
	return s.handle, nil
}

func (s *AltScreen) Kind() ScreenKind { return ScreenAlternate }
