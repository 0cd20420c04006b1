package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviedb/internal/models"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgMoviesLoaded MsgKind = iota
	MsgMovieRemoved
	MsgAverageComputed
)

type removal struct {
	title string
	err   error
}

type average struct {
	stats models.CategoryStats
	err   error
}

// moviesLoadedMsg is the constructor for [MsgMoviesLoaded]
func moviesLoadedMsg(movies []models.Movie) Msg {
	return Msg{kind: MsgMoviesLoaded, data: movies}
}

// movieRemovedMsg is the constructor for [MsgMovieRemoved]
func movieRemovedMsg(title string, err error) Msg {
	return Msg{kind: MsgMovieRemoved, data: removal{title, err}}
}

// averageComputedMsg is the constructor for [MsgAverageComputed]
func averageComputedMsg(stats models.CategoryStats, err error) Msg {
	return Msg{kind: MsgAverageComputed, data: average{stats, err}}
}

// Kind reports which message of the union m carries.
func (m Msg) Kind() MsgKind {
	return m.kind
}
