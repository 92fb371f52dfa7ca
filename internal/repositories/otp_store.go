package repositories

import (
	"context"
	"strings"
	"sync"
	"time"

	"officehub/internal/models"
)

// OtpStore — хранилище записей сброса пароля, ключ — email в нижнем регистре.
// Get по отсутствующему ключу возвращает (nil, nil). Set полностью перезаписывает
// запись. TTL — страховка хранилища; содержательная проверка срока идёт по
// ExpiresAt внутри записи.
type OtpStore interface {
	Get(ctx context.Context, email string) (*models.OtpRecord, error)
	Set(ctx context.Context, email string, rec *models.OtpRecord, ttl time.Duration) error
	Delete(ctx context.Context, email string) error
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// memoryOtpStore — вариант для одного инстанса и для тестов.
type memoryOtpStore struct {
	mu      sync.RWMutex
	records map[string]models.OtpRecord
}

func NewMemoryOtpStore() OtpStore {
	return &memoryOtpStore{records: make(map[string]models.OtpRecord)}
}

func (s *memoryOtpStore) Get(_ context.Context, email string) (*models.OtpRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[normalizeEmail(email)]
	if !ok {
		return nil, nil
	}
	cp := rec
	return &cp, nil
}

func (s *memoryOtpStore) Set(_ context.Context, email string, rec *models.OtpRecord, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[normalizeEmail(email)] = *rec
	return nil
}

func (s *memoryOtpStore) Delete(_ context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.records, normalizeEmail(email))
	return nil
}
