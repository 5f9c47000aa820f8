package store

import (
	"context"
	"time"

	"recallgo/pkg/model"
)

// Store defines the repository interface.
// Consumers should depend on specific sub-interfaces when possible.
type Store interface {
	CacheStore
	AssetStore

	// Close closes the store connection.
	Close() error
}

// CacheStore handles generic key-value caching of collaborator responses.
type CacheStore interface {
	GetCache(ctx context.Context, key string) ([]byte, bool)
	HasCache(ctx context.Context, key string) (bool, error)
	SetCache(ctx context.Context, key string, val []byte) error
	ListCacheKeys(ctx context.Context, prefix string) ([]string, error)
}

// AssetRecord is a persisted generated asset (image or video bytes).
type AssetRecord struct {
	ID         string
	Kind       string // "image", "video"
	MimeType   string
	PromptHash string
	Data       []byte
	CreatedAt  time.Time
}

// AssetStore persists generated media so a repeated prompt does not
// re-bill the provider.
type AssetStore interface {
	GetAsset(ctx context.Context, id string) (*AssetRecord, error)
	FindAssetByPrompt(ctx context.Context, promptHash string) (*AssetRecord, error)
	SaveAsset(ctx context.Context, a *AssetRecord) error
	SaveMediaAsset(ctx context.Context, m *model.MediaItem, promptHash string) error
}
