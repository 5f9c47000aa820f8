package store

import (
	"bytes"
	"compress/gzip"
	"context"
	"database/sql"
	"errors"
	"io"
	"sync"
	"time"

	"recallgo/pkg/db"
	"recallgo/pkg/model"
)

// SQLiteStore implements Store.
type SQLiteStore struct {
	db *db.DB
}

// NewSQLiteStore creates a new store.
func NewSQLiteStore(db *db.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Close closes the underlying connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// --- Cache ---

// Get implements cache.Cacher.
func (s *SQLiteStore) Get(key string) ([]byte, bool) {
	return s.GetCache(context.Background(), key)
}

// Set implements cache.Cacher.
func (s *SQLiteStore) Set(key string, val []byte) error {
	return s.SetCache(context.Background(), key, val)
}

// GetCache returns the cached value for key. Errors are treated as misses.
func (s *SQLiteStore) GetCache(ctx context.Context, key string) ([]byte, bool) {
	var val []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM cache WHERE key = ?", key).Scan(&val)
	if err != nil {
		return nil, false
	}

	// Transparent decompression
	if isGzip(val) {
		if decompressed, err := decompress(val); err == nil {
			return decompressed, true
		}
	}
	return val, true
}

// HasCache reports whether a key exists without reading its value.
func (s *SQLiteStore) HasCache(ctx context.Context, key string) (bool, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM cache WHERE key = ?", key).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetCache stores a value, gzip-compressed.
func (s *SQLiteStore) SetCache(ctx context.Context, key string, val []byte) error {
	if compressed, err := compress(val); err == nil {
		val = compressed
	}

	query := `INSERT OR REPLACE INTO cache (key, value, created_at) VALUES (?, ?, ?)`
	_, err := s.db.ExecContext(ctx, query, key, val, time.Now())
	return err
}

// ListCacheKeys returns all cache keys with the given prefix.
func (s *SQLiteStore) ListCacheKeys(ctx context.Context, prefix string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key FROM cache WHERE key LIKE ?", prefix+"%")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// --- Assets ---

// GetAsset returns the asset with the given id, or nil when not found.
func (s *SQLiteStore) GetAsset(ctx context.Context, id string) (*AssetRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, mime_type, prompt_hash, data, created_at FROM assets WHERE id = ?`, id)
	return scanAsset(row)
}

// FindAssetByPrompt returns the newest asset generated for the given prompt
// hash, or nil when none exists.
func (s *SQLiteStore) FindAssetByPrompt(ctx context.Context, promptHash string) (*AssetRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, kind, mime_type, prompt_hash, data, created_at
		 FROM assets WHERE prompt_hash = ? ORDER BY created_at DESC LIMIT 1`, promptHash)
	return scanAsset(row)
}

// SaveAsset persists a generated asset.
func (s *SQLiteStore) SaveAsset(ctx context.Context, a *AssetRecord) error {
	data := a.Data
	if compressed, err := compress(data); err == nil {
		data = compressed
	}
	createdAt := a.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO assets (id, kind, mime_type, prompt_hash, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		a.ID, a.Kind, a.MimeType, a.PromptHash, data, createdAt)
	return err
}

// SaveMediaAsset persists a generated media item.
func (s *SQLiteStore) SaveMediaAsset(ctx context.Context, m *model.MediaItem, promptHash string) error {
	kind := "image"
	if m.IsVideo() {
		kind = "video"
	}
	return s.SaveAsset(ctx, &AssetRecord{
		ID:         m.ID,
		Kind:       kind,
		MimeType:   m.MimeType,
		PromptHash: promptHash,
		Data:       m.Data,
		CreatedAt:  m.CreatedAt,
	})
}

func scanAsset(row *sql.Row) (*AssetRecord, error) {
	var a AssetRecord
	err := row.Scan(&a.ID, &a.Kind, &a.MimeType, &a.PromptHash, &a.Data, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found
	}
	if err != nil {
		return nil, err
	}
	if isGzip(a.Data) {
		if decompressed, err := decompress(a.Data); err == nil {
			a.Data = decompressed
		}
	}
	return &a, nil
}

// --- Compression pooling ---

var (
	gzipWriterPool = sync.Pool{
		New: func() interface{} {
			return gzip.NewWriter(io.Discard)
		},
	}
	bufferPool = sync.Pool{
		New: func() interface{} {
			return new(bytes.Buffer)
		},
	}
)

func isGzip(data []byte) bool {
	return len(data) > 2 && data[0] == 0x1f && data[1] == 0x8b
}

func compress(data []byte) ([]byte, error) {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	w := gzipWriterPool.Get().(*gzip.Writer)
	defer gzipWriterPool.Put(w)
	w.Reset(buf)

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	// Must copy because buf is returned to pool
	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func decompress(data []byte) ([]byte, error) {
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}
