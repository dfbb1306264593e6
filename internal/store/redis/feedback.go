package redis

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// AppendFeedback adds an entry to the feedback stream. The timestamp is taken
// from the Redis server clock, never from the caller.
func (s *Store) AppendFeedback(ctx context.Context, entry domain.FeedbackEntry) (domain.FeedbackEntry, error) {
	now, err := s.client.Time(ctx).Result()
	if err != nil {
		return domain.FeedbackEntry{}, unavailable("server time", err)
	}

	id, err := s.client.XAdd(ctx, &redis.XAddArgs{
		Stream: KeyFeedback,
		Values: map[string]interface{}{
			"userId":    entry.Submitter,
			"text":      entry.Text,
			"createdAt": now.UTC().UnixMilli(),
		},
	}).Result()
	if err != nil {
		return domain.FeedbackEntry{}, unavailable("append feedback", err)
	}

	entry.ID = id
	entry.SubmittedAt = now.UTC()
	return entry, nil
}
