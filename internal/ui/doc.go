// Package ui styles the CLI's terminal output with lipgloss.
//
// A single [Palette] holds the named styles (title, ok, error, warn, help). [Table] renders rows with a
// rounded border for the presets and history commands. Colors degrade to plain text when the output
// is not a terminal.
package ui
