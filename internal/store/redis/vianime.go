package redis

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// CreateViAnime appends a document to the vianimes collection and returns its ID.
func (s *Store) CreateViAnime(ctx context.Context, fields map[string]string) (string, error) {
	if len(fields) == 0 {
		return "", fmt.Errorf("empty vianime document: %w", domain.ErrInvalidItem)
	}

	id := uuid.NewString()
	values := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		values[k] = v
	}

	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, ViAnimeKey(id), values)
	pipe.SAdd(ctx, KeyAllViAnimes, id)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", unavailable("create vianime", err)
	}
	return id, nil
}
