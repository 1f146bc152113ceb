package service

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"flywise/internal/domain"
	"flywise/internal/storage"
)

var unsafeNameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// StatementService archives uploaded bank statements per user.
type StatementService interface {
	Upload(ctx context.Context, userID, name, contentType string, body io.Reader) (*domain.Statement, error)
	List(ctx context.Context, userID string) ([]domain.Statement, error)
	Delete(ctx context.Context, userID, id string) error
}

type StatementConfig struct {
	Bucket    string
	KeyPrefix string
	URLTTL    time.Duration
}

type statementService struct {
	store storage.Service
	cfg   StatementConfig
}

// NewStatementService accepts a nil store; every call then fails with ErrStorageUnavailable.
func NewStatementService(store storage.Service, cfg StatementConfig) StatementService {
	if cfg.URLTTL <= 0 {
		cfg.URLTTL = 15 * time.Minute
	}
	cfg.KeyPrefix = strings.Trim(cfg.KeyPrefix, "/")
	return &statementService{store: store, cfg: cfg}
}

func (s *statementService) Upload(ctx context.Context, userID, name, contentType string, body io.Reader) (*domain.Statement, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}
	clean := sanitizeFileName(name)
	if clean == "" {
		return nil, invalid("file name is required")
	}

	id := uuid.NewString() + "-" + clean
	key := s.userPrefix(userID) + id
	if _, err := s.store.PutObject(ctx, body, storage.PutOptions{
		Bucket:      s.cfg.Bucket,
		Key:         key,
		ContentType: contentType,
	}); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	return &domain.Statement{
		ID:         id,
		Key:        key,
		Name:       clean,
		UploadedAt: &now,
	}, nil
}

func (s *statementService) List(ctx context.Context, userID string) ([]domain.Statement, error) {
	if err := s.ready(userID); err != nil {
		return nil, err
	}
	prefix := s.userPrefix(userID)
	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, prefix)
	if err != nil {
		return nil, err
	}

	statements := make([]domain.Statement, 0, len(objects))
	for _, obj := range objects {
		id := strings.TrimPrefix(obj.Key, prefix)
		if id == "" || strings.Contains(id, "/") {
			continue
		}
		link, err := s.store.GetObjectURL(ctx, s.cfg.Bucket, obj.Key, s.cfg.URLTTL)
		if err != nil {
			return nil, err
		}
		statements = append(statements, domain.Statement{
			ID:         id,
			Key:        obj.Key,
			Name:       displayName(id),
			Size:       obj.Size,
			UploadedAt: obj.LastModified,
			URL:        link,
		})
	}
	return statements, nil
}

func (s *statementService) Delete(ctx context.Context, userID, id string) error {
	if err := s.ready(userID); err != nil {
		return err
	}
	id = strings.TrimSpace(id)
	if id == "" || strings.Contains(id, "/") {
		return invalid("invalid statement id")
	}

	key := s.userPrefix(userID) + id
	objects, err := s.store.ListObjects(ctx, s.cfg.Bucket, key)
	if err != nil {
		return err
	}
	found := false
	for _, obj := range objects {
		if obj.Key == key {
			found = true
			break
		}
	}
	if !found {
		return ErrStatementNotFound
	}
	if err := s.store.DeleteObject(ctx, s.cfg.Bucket, key); err != nil {
		return fmt.Errorf("delete statement: %w", err)
	}
	return nil
}

func (s *statementService) ready(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return ErrUnauthenticated
	}
	if s.store == nil || s.cfg.Bucket == "" {
		return ErrStorageUnavailable
	}
	return nil
}

func (s *statementService) userPrefix(userID string) string {
	p := url.PathEscape(userID) + "/"
	if s.cfg.KeyPrefix != "" {
		p = s.cfg.KeyPrefix + "/" + p
	}
	return p
}

func sanitizeFileName(name string) string {
	base := path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	if base == "." || base == "/" || base == ".." {
		return ""
	}
	base = unsafeNameChars.ReplaceAllString(base, "_")
	if len(base) > 128 {
		base = base[len(base)-128:]
	}
	return strings.Trim(base, "_")
}

// displayName strips the uuid prefix added on upload.
func displayName(id string) string {
	if len(id) > 37 && id[36] == '-' {
		if _, err := uuid.Parse(id[:36]); err == nil {
			return id[37:]
		}
	}
	return id
}
