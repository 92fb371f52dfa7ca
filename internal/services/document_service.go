package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"officehub/internal/authz"
	"officehub/internal/models"
	"officehub/internal/repositories"
	"officehub/internal/storage"
)

const maxDocumentSize = 20 << 20 // 20 MB

type DocumentService interface {
	Upload(ctx context.Context, ownerID int, title, category string, tags []string, isPublic bool,
		filename string, r io.Reader, size int64, contentType string) (*models.Document, error)
	GetByID(id int64, actorID int, actorRole string) (*models.Document, error)
	List(f models.DocumentFilter) ([]*models.Document, error)
	Delete(ctx context.Context, id int64, actorID int, actorRole string) error
	Share(id int64, req models.ShareDocumentRequest) (*models.Document, error)
	Download(id int64, actorID int, actorRole string) (string, error)
}

type documentService struct {
	repo     repositories.DocumentRepository
	userRepo repositories.UserRepository
	storage  storage.ObjectStorage
	notify   NotificationService
}

func NewDocumentService(
	repo repositories.DocumentRepository,
	userRepo repositories.UserRepository,
	store storage.ObjectStorage,
	notify NotificationService,
) DocumentService {
	return &documentService{repo: repo, userRepo: userRepo, storage: store, notify: notify}
}

func (s *documentService) Upload(ctx context.Context, ownerID int, title, category string, tags []string, isPublic bool,
	filename string, r io.Reader, size int64, contentType string) (*models.Document, error) {

	title = strings.TrimSpace(title)
	if title == "" {
		title = filename
	}
	if category == "" {
		category = "other"
	}
	if size <= 0 || size > maxDocumentSize {
		return nil, errors.New("file size must be between 1 byte and 20 MB")
	}

	key := fmt.Sprintf("documents/%d/%s%s", ownerID, uuid.NewString(), filepath.Ext(filename))
	url, err := s.storage.Upload(ctx, key, r, size, contentType)
	if err != nil {
		return nil, fmt.Errorf("document upload: %w", err)
	}

	if tags == nil {
		tags = []string{}
	}
	d := &models.Document{
		OwnerID:     ownerID,
		Title:       title,
		Category:    category,
		FileName:    filename,
		FileURL:     url,
		ObjectKey:   key,
		FileSize:    size,
		ContentType: contentType,
		IsPublic:    isPublic,
		SharedWith:  []int64{},
		Tags:        tags,
	}
	if err := s.repo.Create(d); err != nil {
		// файл уже в хранилище, запись не встала — убираем файл
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Printf("[document][upload] orphan cleanup failed for %s: %v", key, delErr)
		}
		return nil, err
	}
	return d, nil
}

func (s *documentService) canView(d *models.Document, actorID int, actorRole string) bool {
	if !authz.RestrictToSelf(actorRole) {
		return true
	}
	if d.IsPublic || d.OwnerID == actorID {
		return true
	}
	for _, id := range d.SharedWith {
		if id == int64(actorID) {
			return true
		}
	}
	return false
}

func (s *documentService) GetByID(id int64, actorID int, actorRole string) (*models.Document, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}
	if !s.canView(d, actorID, actorRole) {
		return nil, ErrForbidden
	}
	return d, nil
}

func (s *documentService) List(f models.DocumentFilter) ([]*models.Document, error) {
	return s.repo.List(f)
}

// Delete — владелец или админ; вместе с записью удаляется и файл в хранилище.
func (s *documentService) Delete(ctx context.Context, id int64, actorID int, actorRole string) error {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return err
	}
	if d == nil {
		return ErrNotFound
	}
	if !authz.CanManage(actorRole) && d.OwnerID != actorID {
		return ErrForbidden
	}
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	if err := s.storage.Delete(ctx, d.ObjectKey); err != nil {
		log.Printf("[document][delete] blob cleanup failed for %s: %v", d.ObjectKey, err)
	}
	return nil
}

// Share — открывает документ пользователям или всем; адресаты получают уведомления.
func (s *documentService) Share(id int64, req models.ShareDocumentRequest) (*models.Document, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrNotFound
	}

	var recipients []int
	if req.All {
		d.IsPublic = true
		users, err := s.userRepo.List(models.UserFilter{Status: "active"})
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.ID != d.OwnerID {
				recipients = append(recipients, u.ID)
			}
		}
	} else {
		seen := map[int64]struct{}{}
		for _, id := range d.SharedWith {
			seen[id] = struct{}{}
		}
		for _, uid := range req.UserIDs {
			if _, ok := seen[uid]; !ok {
				d.SharedWith = append(d.SharedWith, uid)
				seen[uid] = struct{}{}
				recipients = append(recipients, int(uid))
			}
		}
	}

	if err := s.repo.UpdateSharing(d.ID, d.IsPublic, d.SharedWith); err != nil {
		return nil, err
	}

	if len(recipients) > 0 {
		if err := s.notify.NotifyMany(recipients, models.NotificationTypeDocument,
			"Document shared with you", d.Title, "document", d.ID); err != nil {
			log.Printf("[document][share] notify failed for id=%d: %v", d.ID, err)
		}
	}
	return d, nil
}

// Download — возвращает URL файла и инкрементит счётчик скачиваний.
func (s *documentService) Download(id int64, actorID int, actorRole string) (string, error) {
	d, err := s.repo.GetByID(id)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", ErrNotFound
	}
	if !s.canView(d, actorID, actorRole) {
		return "", ErrForbidden
	}
	if err := s.repo.IncrementDownloads(id); err != nil {
		log.Printf("[document][download] counter failed for id=%d: %v", id, err)
	}
	return d.FileURL, nil
}
