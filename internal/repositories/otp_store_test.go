package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"officehub/internal/models"
)

func TestMemoryOtpStoreGetMiss(t *testing.T) {
	store := NewMemoryOtpStore()

	rec, err := store.Get(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestMemoryOtpStoreSetGetDelete(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	rec := &models.OtpRecord{
		Code:      "1234",
		ExpiresAt: time.Now().Add(10 * time.Minute),
		UserID:    7,
	}
	require.NoError(t, store.Set(ctx, "intern@example.com", rec, 10*time.Minute))

	got, err := store.Get(ctx, "intern@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1234", got.Code)
	assert.Equal(t, 7, got.UserID)

	require.NoError(t, store.Delete(ctx, "intern@example.com"))
	got, err = store.Get(ctx, "intern@example.com")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryOtpStoreNormalizesEmail(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	rec := &models.OtpRecord{Code: "1234", UserID: 7}
	require.NoError(t, store.Set(ctx, "  Intern@Example.COM ", rec, time.Minute))

	got, err := store.Get(ctx, "intern@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "1234", got.Code)
}

func TestMemoryOtpStoreSetOverwrites(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "intern@example.com",
		&models.OtpRecord{Code: "1111", Attempts: 2}, time.Minute))
	require.NoError(t, store.Set(ctx, "intern@example.com",
		&models.OtpRecord{Code: "2222"}, time.Minute))

	got, err := store.Get(ctx, "intern@example.com")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2222", got.Code)
	assert.Equal(t, 0, got.Attempts)
}

// Get возвращает копию: мутация результата не трогает хранилище.
func TestMemoryOtpStoreGetReturnsCopy(t *testing.T) {
	store := NewMemoryOtpStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "intern@example.com",
		&models.OtpRecord{Code: "1234"}, time.Minute))

	first, err := store.Get(ctx, "intern@example.com")
	require.NoError(t, err)
	first.Attempts = 99

	second, err := store.Get(ctx, "intern@example.com")
	require.NoError(t, err)
	assert.Equal(t, 0, second.Attempts)
}
