// File: internal/dashboard/model.go
package dashboard

import (
	"music_library_backend/internal/song"
)

// Totals holds the library-wide counters.
type Totals struct {
	Songs     int64 `json:"songs"`
	Artists   int64 `json:"artists"`
	Albums    int64 `json:"albums"`
	Genres    int64 `json:"genres"`
	Users     int64 `json:"users"`
	Playlists int64 `json:"playlists"`
}

// GenreCount is the number of songs in one genre.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int64  `json:"count"`
}

// ArtistCount is the number of songs by one artist.
type ArtistCount struct {
	Artist string `json:"artist"`
	Count  int64  `json:"count"`
}

// StatsResponse is the full dashboard payload.
type StatsResponse struct {
	Totals        Totals              `json:"totals"`
	SongsPerGenre []GenreCount        `json:"songs_per_genre"`
	TopArtists    []ArtistCount       `json:"top_artists"`
	LatestSongs   []song.SongResponse `json:"latest_songs"`
}
