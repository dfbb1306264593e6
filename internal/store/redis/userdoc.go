package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MrSnakeDoc/vianime/internal/domain"
)

// GetList reads the personal list from the user's document.
// found is false when the document or its list field does not exist.
func (s *Store) GetList(ctx context.Context, identity string) (domain.BookmarkList, bool, error) {
	data, err := s.client.HGet(ctx, UserKey(identity), FieldMyList).Bytes()
	if err != nil {
		if isNil(err) {
			return domain.BookmarkList{}, false, nil
		}
		return nil, false, unavailable("get list", err)
	}

	var list domain.BookmarkList
	if err := json.Unmarshal(data, &list); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal list: %w", err)
	}
	if list == nil {
		list = domain.BookmarkList{}
	}
	return list, true, nil
}

// PutList replaces the list field of the user's document, creating the
// document when absent. Other fields of the document are left untouched.
func (s *Store) PutList(ctx context.Context, identity string, list domain.BookmarkList) error {
	if list == nil {
		list = domain.BookmarkList{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("failed to marshal list: %w", err)
	}

	if err := s.client.HSet(ctx, UserKey(identity), FieldMyList, data).Err(); err != nil {
		return unavailable("put list", err)
	}
	return nil
}
