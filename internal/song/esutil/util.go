package esutil

import (
	"encoding/json"
	"errors"
	"fmt"

	"music_library_backend/internal/song"
)

// SongToElasticsearchDoc converts a song.Song to its Elasticsearch document
// JSON. Used by the bulk sync CLI.
func SongToElasticsearchDoc(s *song.Song) (string, error) {
	if s == nil {
		return "", errors.New("song cannot be nil")
	}

	docBytes, err := json.Marshal(song.ESDocument(s))
	if err != nil {
		return "", fmt.Errorf("error marshalling song to JSON for ES: %w", err)
	}
	return string(docBytes), nil
}
