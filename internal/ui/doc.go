// Package ui implements an interactive terminal browser over the movie catalog using bubbletea's Elm architecture.
//
// The TUI moves between four views:
//  1. [ListView] : Browse the catalog, filter by title with /
//  2. [DetailView] : Inspect a single movie
//  3. [ConfirmView] : Confirm removal of the selected movie
//  4. [AverageView] : Average rating of the selected movie's phase
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Catalog calls run as
// [tea.Cmd] values against a [catalog.Manager] and report back through the [Msg] union type.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
