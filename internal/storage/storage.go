package storage

import (
	"context"
	"io"
)

// ObjectStorage — файловое хранилище (документы, аватары, сертификаты).
// Upload возвращает публичный URL загруженного объекта.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}
