// File: internal/platform/elasticsearch/index.go
package elasticsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/elastic/go-elasticsearch/v8/esapi"
	"go.uber.org/zap"
)

const SongsIndexName = "songs"

// defineSongsMapping returns the JSON string for the songs index mapping.
func defineSongsMapping() (string, error) {
	mapping := map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"title":            map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"artist":           map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"album":            map[string]interface{}{"type": "text", "fields": map[string]interface{}{"keyword": map[string]interface{}{"type": "keyword", "ignore_above": 256}}},
				"genre":            map[string]interface{}{"type": "keyword"},
				"slug":             map[string]interface{}{"type": "keyword"},
				"year":             map[string]interface{}{"type": "integer"},
				"duration_seconds": map[string]interface{}{"type": "integer"},
				"user_id":          map[string]interface{}{"type": "keyword"},
				"created_at":       map[string]interface{}{"type": "date"},
				"updated_at":       map[string]interface{}{"type": "date"},
			},
		},
	}
	mappingBytes, err := json.Marshal(mapping)
	if err != nil {
		return "", fmt.Errorf("error marshalling songs mapping to JSON: %w", err)
	}
	return string(mappingBytes), nil
}

// CreateSongsIndexIfNotExists creates the songs index with the defined
// mapping if it does not already exist.
func CreateSongsIndexIfNotExists(client *ESClientWrapper, logger *zap.Logger) error {
	if !client.Enabled() {
		return nil
	}

	ctx := context.Background()
	log := logger.Named("elasticsearch_index_setup")

	req := esapi.IndicesExistsRequest{
		Index: []string{SongsIndexName},
	}
	res, err := req.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error checking if songs index exists", zap.Error(err))
		return fmt.Errorf("error checking if songs index exists: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusOK {
		log.Info("Songs index already exists", zap.String("index_name", SongsIndexName))
		return nil
	}
	if res.StatusCode != http.StatusNotFound {
		log.Error("Unexpected status while checking songs index",
			zap.String("status", res.Status()),
			zap.String("index_name", SongsIndexName),
		)
		return fmt.Errorf("error checking if songs index exists: status %s", res.Status())
	}

	mappingJSON, err := defineSongsMapping()
	if err != nil {
		log.Error("Failed to define songs mapping", zap.Error(err))
		return err
	}

	createReq := esapi.IndicesCreateRequest{
		Index: SongsIndexName,
		Body:  strings.NewReader(mappingJSON),
	}
	createRes, err := createReq.Do(ctx, client.Client)
	if err != nil {
		log.Error("Error creating songs index", zap.Error(err), zap.String("index_name", SongsIndexName))
		return fmt.Errorf("error creating songs index %s: %w", SongsIndexName, err)
	}
	defer createRes.Body.Close()

	if createRes.IsError() {
		var errorBody map[string]interface{}
		if err := json.NewDecoder(createRes.Body).Decode(&errorBody); err != nil {
			log.Error("Failed to parse songs index creation error response body", zap.Error(err), zap.String("status", createRes.Status()))
		} else {
			log.Error("Failed to create songs index",
				zap.String("status", createRes.Status()),
				zap.Any("error_details", errorBody),
				zap.String("index_name", SongsIndexName),
			)
		}
		return fmt.Errorf("failed to create songs index %s: status %s", SongsIndexName, createRes.Status())
	}

	log.Info("Songs index created successfully", zap.String("index_name", SongsIndexName))
	return nil
}
