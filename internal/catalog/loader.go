// internal/catalog/loader.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"mcp-diet-calc/internal/logger"
	"mcp-diet-calc/internal/models"
	"mcp-diet-calc/internal/storage"
)

var httpClient = &http.Client{
	Timeout: 30 * time.Second,
}

// document is the on-disk / over-the-wire shape: group key -> foods
type document map[string][]models.FoodItem

// Load reads the catalog from source: an http(s) URL serving JSON, a .json
// or .yaml/.yml file, or a .db/.sqlite catalog store.
func Load(ctx context.Context, source string) (models.FoodCatalog, error) {
	if source == "" {
		return nil, fmt.Errorf("no catalog source configured")
	}

	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return fetch(ctx, source)
	}

	switch strings.ToLower(filepath.Ext(source)) {
	case ".json":
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		return DecodeJSON(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog: %w", err)
		}
		return DecodeYAML(data)
	case ".db", ".sqlite", ".sqlite3":
		return loadStore(source)
	default:
		return nil, fmt.Errorf("unsupported catalog source: %s", source)
	}
}

// LoadOrEmpty is Load with every failure turned into an empty catalog.
// Callers detect the failure through len(catalog) == 0.
func LoadOrEmpty(ctx context.Context, source string) models.FoodCatalog {
	catalog, err := Load(ctx, source)
	if err != nil {
		logger.Error("failed to load food catalog", zap.String("source", source), zap.Error(err))
		return models.FoodCatalog{}
	}
	return catalog
}

func DecodeJSON(data []byte) (models.FoodCatalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog JSON: %w", err)
	}
	return normalize(doc), nil
}

func DecodeYAML(data []byte) (models.FoodCatalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}
	return normalize(doc), nil
}

func fetch(ctx context.Context, url string) (models.FoodCatalog, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog request failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return DecodeJSON(data)
}

func loadStore(path string) (models.FoodCatalog, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("catalog store not found: %w", err)
	}

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	catalog, err := store.LoadCatalog()
	if err != nil {
		return nil, err
	}
	return normalize(toDocument(catalog)), nil
}

func toDocument(catalog models.FoodCatalog) document {
	doc := make(document, len(catalog))
	for group, items := range catalog {
		doc[string(group)] = items
	}
	return doc
}

// normalize keeps only the fixed groups and items with an id, trims text
// fields, drops repeated ids within a group and tags each item with its
// group. Source order is preserved within each raw key.
func normalize(doc document) models.FoodCatalog {
	catalog := make(models.FoodCatalog, len(doc))
	seen := make(map[models.GroupKey]map[string]bool, len(doc))

	// keys that differ only in case land in the same group; walk them in a
	// fixed order so the merged item order does not depend on map iteration
	rawGroups := make([]string, 0, len(doc))
	for rawGroup := range doc {
		rawGroups = append(rawGroups, rawGroup)
	}
	sort.Strings(rawGroups)

	for _, rawGroup := range rawGroups {
		items := doc[rawGroup]
		group := models.GroupKey(strings.ToLower(strings.TrimSpace(rawGroup)))
		if !group.Valid() {
			logger.Warn("skipping unknown food group", zap.String("group", rawGroup), zap.Int("items", len(items)))
			continue
		}

		if seen[group] == nil {
			seen[group] = make(map[string]bool, len(items))
		}
		for _, item := range items {
			item.ID = strings.TrimSpace(item.ID)
			if item.ID == "" {
				logger.Warn("skipping food without id", zap.String("group", rawGroup), zap.String("name", item.Name))
				continue
			}
			if seen[group][item.ID] {
				logger.Warn("skipping duplicate food id", zap.String("group", rawGroup), zap.String("id", item.ID))
				continue
			}
			seen[group][item.ID] = true

			item.Name = strings.TrimSpace(item.Name)
			item.Portion = strings.TrimSpace(item.Portion)
			item.Group = group
			catalog[group] = append(catalog[group], item)
		}
	}

	return catalog
}

// Count returns the number of foods across all groups.
func Count(catalog models.FoodCatalog) int {
	n := 0
	for _, items := range catalog {
		n += len(items)
	}
	return n
}

// Find looks a food up by id
func Find(catalog models.FoodCatalog, foodID string) (models.FoodItem, bool) {
	for _, g := range models.GroupKeys {
		for _, item := range catalog[g] {
			if item.ID == foodID {
				return item, true
			}
		}
	}
	return models.FoodItem{}, false
}
