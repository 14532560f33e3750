// Package store persists uploaded schedule documents in Redis. The whole
// upload list lives under a single key as one JSON value; the engine never
// touches this store, it is re-fed raw content whenever the list changes.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-redis/redis/v8"
)

const uploadsKey = "arewefree:uploads"

// ErrNotFound is returned when no upload with the requested ID exists.
var ErrNotFound = errors.New("upload not found")

// Upload is one stored schedule document.
type Upload struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Person  string `json:"person"`
	Color   string `json:"color"`
	Content string `json:"content"`
	Size    int    `json:"size"`
	Valid   *bool  `json:"valid,omitempty"`
}

// Redis stores the upload list in a Redis key-value store.
type Redis struct {
	client *redis.Client
}

// New creates a store backed by the given Redis client.
func New(client *redis.Client) *Redis {
	return &Redis{client: client}
}

// Ping verifies the Redis connection.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// List returns all stored uploads. A missing key means an empty list.
func (s *Redis) List(ctx context.Context) ([]Upload, error) {
	raw, err := s.client.Get(ctx, uploadsKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get uploads: %w", err)
	}

	var uploads []Upload
	if err := json.Unmarshal(raw, &uploads); err != nil {
		return nil, fmt.Errorf("decode uploads: %w", err)
	}
	return uploads, nil
}

// Add appends one upload to the stored list.
func (s *Redis) Add(ctx context.Context, upload Upload) error {
	uploads, err := s.List(ctx)
	if err != nil {
		return err
	}
	return s.save(ctx, append(uploads, upload))
}

// Update changes the display name and/or color of one upload. Empty
// arguments leave the corresponding field unchanged.
func (s *Redis) Update(ctx context.Context, id, person, color string) (Upload, error) {
	uploads, err := s.List(ctx)
	if err != nil {
		return Upload{}, err
	}

	for i := range uploads {
		if uploads[i].ID != id {
			continue
		}
		if person != "" {
			uploads[i].Person = person
		}
		if color != "" {
			uploads[i].Color = color
		}
		if err := s.save(ctx, uploads); err != nil {
			return Upload{}, err
		}
		return uploads[i], nil
	}
	return Upload{}, ErrNotFound
}

// Remove deletes one upload by ID.
func (s *Redis) Remove(ctx context.Context, id string) error {
	uploads, err := s.List(ctx)
	if err != nil {
		return err
	}

	kept := uploads[:0]
	for _, u := range uploads {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	if len(kept) == len(uploads) {
		return ErrNotFound
	}
	return s.save(ctx, kept)
}

// Clear removes all uploads.
func (s *Redis) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, uploadsKey).Err(); err != nil {
		return fmt.Errorf("clear uploads: %w", err)
	}
	return nil
}

func (s *Redis) save(ctx context.Context, uploads []Upload) error {
	raw, err := json.Marshal(uploads)
	if err != nil {
		return fmt.Errorf("encode uploads: %w", err)
	}
	if err := s.client.Set(ctx, uploadsKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("set uploads: %w", err)
	}
	return nil
}
