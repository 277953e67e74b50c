// Package crossterm mediates mutating interactions between a process and
// its controlling terminal: raw/cooked input mode, main vs. alternate
// screen, cursor placement, and cell-grid access.
//
// All consumers share one Context per session. Mutations go through the
// Context's StateRegistry, which stores every change as a reversible
// command; output goes through the active ScreenTarget. Two backends
// implement the platform primitives: termios plus escape sequences on
// Unix-likes, the console screen-buffer API on Windows.
package crossterm
