package kodi

import "encoding/json"

// Method is a Kodi JSON-RPC method name
type Method string

// JSON-RPC methods used by the service
const (
	MethodPing              Method = "JSONRPC.Ping"
	MethodGetActivePlayers  Method = "Player.GetActivePlayers"
	MethodGetItem           Method = "Player.GetItem"
	MethodOpen              Method = "Player.Open"
	MethodPlayPause         Method = "Player.PlayPause"
	MethodStop              Method = "Player.Stop"
	MethodGetMovies         Method = "VideoLibrary.GetMovies"
	MethodGetMovieDetails   Method = "VideoLibrary.GetMovieDetails"
	MethodGetEpisodeDetails Method = "VideoLibrary.GetEpisodeDetails"
	MethodGetTVShowDetails  Method = "VideoLibrary.GetTVShowDetails"
	MethodGetSeasonDetails  Method = "VideoLibrary.GetSeasonDetails"
)

// ItemKind is the type Kodi reports for the item loaded in a player
type ItemKind string

// Item kinds the service understands. Anything else is reported verbatim.
const (
	KindNone    ItemKind = ""
	KindMovie   ItemKind = "movie"
	KindEpisode ItemKind = "episode"
)

// Properties requested when resolving what is playing
var (
	MovieProperties   = []string{"title", "imdbnumber", "lastplayed", "streamdetails"}
	EpisodeProperties = []string{"title", "tvshowid", "seasonid", "lastplayed", "streamdetails"}
)

// Player is an entry of Player.GetActivePlayers
type Player struct {
	PlayerID int    `json:"playerid"`
	Type     string `json:"type"`
}

// PlayerState is a snapshot of the item loaded in the active player.
// An empty Label means nothing is playing.
type PlayerState struct {
	PlayerID int
	Label    string
	Kind     ItemKind
	ID       int
}

// Playing reports whether the player has an item loaded
func (s PlayerState) Playing() bool {
	return s.Label != ""
}

// Movie is an entry of VideoLibrary.GetMovies
type Movie struct {
	MovieID int    `json:"movieid"`
	Label   string `json:"label"`
}

// MovieDetails holds the properties of VideoLibrary.GetMovieDetails
type MovieDetails struct {
	MovieID       int             `json:"movieid"`
	Label         string          `json:"label"`
	Title         string          `json:"title"`
	IMDBNumber    string          `json:"imdbnumber"`
	LastPlayed    string          `json:"lastplayed"`
	StreamDetails json.RawMessage `json:"streamdetails,omitempty"`
}

// EpisodeDetails holds the properties of VideoLibrary.GetEpisodeDetails
type EpisodeDetails struct {
	EpisodeID     int             `json:"episodeid"`
	Label         string          `json:"label"`
	Title         string          `json:"title"`
	TVShowID      int             `json:"tvshowid"`
	SeasonID      int             `json:"seasonid"`
	LastPlayed    string          `json:"lastplayed"`
	StreamDetails json.RawMessage `json:"streamdetails,omitempty"`
}

// LabelDetails is the shape of TV show and season detail lookups
type LabelDetails struct {
	Label string `json:"label"`
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  Method `json:"method"`
	Params  any    `json:"params,omitempty"`
	ID      uint64 `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result"`
	Error   *RPCError       `json:"error"`
}
