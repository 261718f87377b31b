package service

import (
	"context"
	"strconv"

	"github.com/ourmemory/ourmemory-backend/internal/domain"
	"github.com/ourmemory/ourmemory-backend/pkg/elasticsearch"
)

// MemoryIndexMapping is the Elasticsearch mapping of the memory index
func MemoryIndexMapping() map[string]interface{} {
	return map[string]interface{}{
		"mappings": map[string]interface{}{
			"properties": map[string]interface{}{
				"id":         map[string]interface{}{"type": "long"},
				"name":       map[string]interface{}{"type": "text"},
				"contents":   map[string]interface{}{"type": "text"},
				"place":      map[string]interface{}{"type": "text"},
				"writer_id":  map[string]interface{}{"type": "long"},
				"room_ids":   map[string]interface{}{"type": "long"},
				"start_date": map[string]interface{}{"type": "date"},
				"end_date":   map[string]interface{}{"type": "date"},
			},
		},
	}
}

type esMemoryIndexer struct {
	client *elasticsearch.Client
}

// NewMemoryIndexer creates a MemoryIndexer backed by Elasticsearch
func NewMemoryIndexer(client *elasticsearch.Client) MemoryIndexer {
	return &esMemoryIndexer{client: client}
}

func (i *esMemoryIndexer) Index(ctx context.Context, doc *domain.MemorySearchDocument) error {
	return i.client.Put(ctx, strconv.FormatUint(doc.ID, 10), doc)
}

func (i *esMemoryIndexer) Remove(ctx context.Context, memoryID uint64) error {
	return i.client.Remove(ctx, strconv.FormatUint(memoryID, 10))
}

func (i *esMemoryIndexer) Search(ctx context.Context, keyword string, roomIDs []uint64, limit int) ([]uint64, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	hits, _, err := i.client.SearchIDs(ctx, memorySearchQuery(keyword, roomIDs), limit)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, 0, len(hits))
	for _, h := range hits {
		id, err := strconv.ParseUint(h, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// memorySearchQuery matches keyword on name/contents/place within the given rooms
func memorySearchQuery(keyword string, roomIDs []uint64) map[string]interface{} {
	return map[string]interface{}{
		"query": map[string]interface{}{
			"bool": map[string]interface{}{
				"must": []interface{}{
					map[string]interface{}{
						"multi_match": map[string]interface{}{
							"query":  keyword,
							"fields": []string{"name^3", "place^2", "contents"},
						},
					},
				},
				"filter": []interface{}{
					map[string]interface{}{
						"terms": map[string]interface{}{"room_ids": roomIDs},
					},
				},
			},
		},
	}
}
