// File: internal/song/es.go
package song

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	platformES "music_library_backend/internal/platform/elasticsearch"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ESDocument converts a song to its Elasticsearch document representation.
func ESDocument(s *Song) map[string]interface{} {
	doc := map[string]interface{}{
		"title":      s.Title,
		"artist":     s.Artist,
		"album":      s.Album,
		"genre":      s.Genre,
		"slug":       s.Slug,
		"user_id":    s.UserID.String(),
		"created_at": s.CreatedAt,
		"updated_at": s.UpdatedAt,
	}
	if s.Year != nil {
		doc["year"] = *s.Year
	}
	if s.DurationSeconds != nil {
		doc["duration_seconds"] = *s.DurationSeconds
	}
	return doc
}

// indexSong writes a single song document to the index. Failures are logged
// and swallowed: the database remains the source of truth and the cron job
// reconciles the index.
func (s *ServiceImplementation) indexSong(ctx context.Context, song *Song) {
	if !s.esClient.Enabled() {
		return
	}

	docBytes, err := json.Marshal(ESDocument(song))
	if err != nil {
		s.logger.Error("Failed to marshal song for indexing", zap.Error(err), zap.String("songID", song.ID.String()))
		return
	}

	req := esapi.IndexRequest{
		Index:      platformES.SongsIndexName,
		DocumentID: song.ID.String(),
		Body:       bytes.NewReader(docBytes),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Error("Failed to index song", zap.Error(err), zap.String("songID", song.ID.String()))
		return
	}
	defer res.Body.Close()

	if res.IsError() {
		s.logger.Error("Elasticsearch returned an error indexing song",
			zap.String("status", res.Status()),
			zap.String("songID", song.ID.String()),
		)
	}
}

// removeSongFromIndex deletes a song document from the index, best-effort.
func (s *ServiceImplementation) removeSongFromIndex(ctx context.Context, id uuid.UUID) {
	if !s.esClient.Enabled() {
		return
	}

	req := esapi.DeleteRequest{
		Index:      platformES.SongsIndexName,
		DocumentID: id.String(),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		s.logger.Error("Failed to delete song from index", zap.Error(err), zap.String("songID", id.String()))
		return
	}
	defer res.Body.Close()

	// 404 is fine here: the document was never indexed or already removed.
	if res.IsError() && res.StatusCode != 404 {
		s.logger.Error("Elasticsearch returned an error deleting song",
			zap.String("status", res.Status()),
			zap.String("songID", id.String()),
		)
	}
}

type esSearchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID string `json:"_id"`
		} `json:"hits"`
	} `json:"hits"`
}

// searchSongIDs runs a full-text query against the songs index and returns
// matching IDs in relevance order plus the total hit count.
func (s *ServiceImplementation) searchSongIDs(ctx context.Context, query SongSearchQuery) ([]uuid.UUID, int64, error) {
	must := make([]map[string]interface{}, 0, 1)
	filter := make([]map[string]interface{}, 0, 2)

	if query.SearchTerm != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     query.SearchTerm,
				"fields":    []string{"title^2", "artist", "album"},
				"fuzziness": "AUTO",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}
	if query.Genre != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"genre": query.Genre},
		})
	}
	if query.Artist != "" {
		filter = append(filter, map[string]interface{}{
			"term": map[string]interface{}{"artist.keyword": query.Artist},
		})
	}

	from := (query.Page - 1) * query.PageSize
	body := map[string]interface{}{
		"from":    from,
		"size":    query.PageSize,
		"_source": false,
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   must,
				"filter": filter,
			},
		},
	}
	if query.SearchTerm == "" {
		body["sort"] = []map[string]interface{}{
			{"created_at": map[string]interface{}{"order": "desc"}},
		}
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal search query: %w", err)
	}

	req := esapi.SearchRequest{
		Index: []string{platformES.SongsIndexName},
		Body:  bytes.NewReader(bodyBytes),
	}
	res, err := req.Do(ctx, s.esClient.Client)
	if err != nil {
		return nil, 0, fmt.Errorf("elasticsearch search failed: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, 0, fmt.Errorf("elasticsearch search returned status %s", res.Status())
	}

	var parsed esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, 0, fmt.Errorf("failed to decode search response: %w", err)
	}

	ids := make([]uuid.UUID, 0, len(parsed.Hits.Hits))
	for _, hit := range parsed.Hits.Hits {
		id, parseErr := uuid.Parse(hit.ID)
		if parseErr != nil {
			s.logger.Warn("Skipping search hit with non-UUID document ID", zap.String("docID", hit.ID))
			continue
		}
		ids = append(ids, id)
	}
	return ids, parsed.Hits.Total.Value, nil
}
