package nowplaying

import (
	"encoding/json"
	"time"
)

// NothingPlayingTitle is the title reported while the player is idle
const NothingPlayingTitle = "Nothing is playing"

// Kind discriminates the variants of NowPlaying
type Kind string

const (
	KindInactive Kind = "inactive"
	KindMovie    Kind = "movie"
	KindEpisode  Kind = "episode"
)

// MovieDescriptor describes a playing library movie
type MovieDescriptor struct {
	Active        bool
	Title         string
	IMDBNumber    string
	LastPlayed    *time.Time
	StreamDetails json.RawMessage
}

// EpisodeDescriptor describes a playing TV episode. Title is "<show> <season>: <episode>".
type EpisodeDescriptor struct {
	Active        bool
	Title         string
	LastPlayed    *time.Time
	StreamDetails json.RawMessage
}

// NowPlaying is one of Inactive, Movie or Episode. The zero value is Inactive.
type NowPlaying struct {
	kind    Kind
	movie   *MovieDescriptor
	episode *EpisodeDescriptor
}

// Inactive returns the descriptor for an idle player
func Inactive() NowPlaying {
	return NowPlaying{kind: KindInactive}
}

// MovieNowPlaying wraps a movie descriptor
func MovieNowPlaying(m MovieDescriptor) NowPlaying {
	return NowPlaying{kind: KindMovie, movie: &m}
}

// EpisodeNowPlaying wraps an episode descriptor
func EpisodeNowPlaying(e EpisodeDescriptor) NowPlaying {
	return NowPlaying{kind: KindEpisode, episode: &e}
}

// Kind reports which variant this is
func (n NowPlaying) Kind() Kind {
	if n.kind == "" {
		return KindInactive
	}
	return n.kind
}

// Movie returns the movie payload when Kind is KindMovie
func (n NowPlaying) Movie() (MovieDescriptor, bool) {
	if n.movie == nil {
		return MovieDescriptor{}, false
	}
	return *n.movie, true
}

// Episode returns the episode payload when Kind is KindEpisode
func (n NowPlaying) Episode() (EpisodeDescriptor, bool) {
	if n.episode == nil {
		return EpisodeDescriptor{}, false
	}
	return *n.episode, true
}

// Active reports whether something is playing
func (n NowPlaying) Active() bool {
	switch n.Kind() {
	case KindMovie:
		return n.movie.Active
	case KindEpisode:
		return n.episode.Active
	default:
		return false
	}
}

// Title returns the display title of whatever variant this is
func (n NowPlaying) Title() string {
	switch n.Kind() {
	case KindMovie:
		return n.movie.Title
	case KindEpisode:
		return n.episode.Title
	default:
		return NothingPlayingTitle
	}
}

// IMDBNumber returns the external id of a movie, empty for other variants
func (n NowPlaying) IMDBNumber() string {
	if n.movie == nil {
		return ""
	}
	return n.movie.IMDBNumber
}

type nowPlayingJSON struct {
	Active        bool            `json:"active"`
	Kind          Kind            `json:"kind"`
	Title         string          `json:"title"`
	IMDBNumber    string          `json:"imdbnumber,omitempty"`
	LastPlayed    *time.Time      `json:"lastplayed,omitempty"`
	StreamDetails json.RawMessage `json:"streamdetails,omitempty"`
}

// MarshalJSON renders the flat document served by the now playing endpoint
func (n NowPlaying) MarshalJSON() ([]byte, error) {
	out := nowPlayingJSON{
		Active: n.Active(),
		Kind:   n.Kind(),
		Title:  n.Title(),
	}
	switch n.Kind() {
	case KindMovie:
		out.IMDBNumber = n.movie.IMDBNumber
		out.LastPlayed = n.movie.LastPlayed
		out.StreamDetails = n.movie.StreamDetails
	case KindEpisode:
		out.LastPlayed = n.episode.LastPlayed
		out.StreamDetails = n.episode.StreamDetails
	}
	return json.Marshal(out)
}
