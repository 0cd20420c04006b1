package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/moviedb/internal/formatter"
	"github.com/desertthunder/moviedb/internal/models"
)

var _ list.Item = movieItem{}

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie models.Movie
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return i.movie.Title }
func (i movieItem) Description() string {
	desc := fmt.Sprintf("Phase %d • IMDb %s", i.movie.Phase, formatter.FormatRating(i.movie.Rating))
	if i.movie.Director != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.movie.Director)
	}
	return desc
}

func movieItems(movies []models.Movie) []list.Item {
	items := make([]list.Item, len(movies))
	for i, movie := range movies {
		items[i] = movieItem{movie: movie}
	}
	return items
}
