// Package ui renders sync progress and results on a terminal.
//
// A [Printer] drains the progress channel fed by the AlbumEngine and writes one styled line per update.
// Per-query search updates are only shown in verbose mode. Styles come from a lipgloss [Palette] and degrade
// to plain text when the writer is not a terminal.
package ui
