package store

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/inkwell-dev/inkwell/internal/domain"
)

const (
	docKeyPrefix = "doc:"
	usersKey     = "users"

	fieldTitle       = "title"
	fieldDescription = "description"
	fieldContent     = "content"
)

func docKey(id domain.DocumentID) string {
	return docKeyPrefix + string(id)
}

// RedisStore backs both DocumentStore and UserStore with one Redis
// connection: a hash per document and a set of known account emails.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(addr string) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return &RedisStore{client: client}
}

// NewRedisStoreWithClient wires an existing client, e.g. a test server's.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) Exists(ctx context.Context, id domain.DocumentID) (bool, error) {
	if id == "" {
		return false, nil
	}
	n, err := s.client.Exists(ctx, docKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("document exists check: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) Get(ctx context.Context, id domain.DocumentID) (*domain.Document, error) {
	fields, err := s.client.HGetAll(ctx, docKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("document get: %w", err)
	}
	if len(fields) == 0 {
		return nil, ErrDocumentNotFound
	}
	doc := &domain.Document{
		ID:          id,
		Title:       fields[fieldTitle],
		Description: fields[fieldDescription],
		Content:     fields[fieldContent],
	}
	if doc.Title == "" {
		doc.Title = domain.DefaultTitle
	}
	return doc, nil
}

func (s *RedisStore) UpdateContent(ctx context.Context, id domain.DocumentID, content string) error {
	if err := s.client.HSet(ctx, docKey(id), fieldContent, content).Err(); err != nil {
		return fmt.Errorf("content update: %w", err)
	}
	return nil
}

func (s *RedisStore) UpdateTitle(ctx context.Context, id domain.DocumentID, title string) error {
	if err := s.client.HSet(ctx, docKey(id), fieldTitle, title).Err(); err != nil {
		return fmt.Errorf("title update: %w", err)
	}
	return nil
}

// CreateDocument seeds a document hash. Document CRUD proper lives
// outside this service; this exists for provisioning and tests.
func (s *RedisStore) CreateDocument(ctx context.Context, doc *domain.Document) error {
	title := doc.Title
	if title == "" {
		title = domain.DefaultTitle
	}
	err := s.client.HSet(ctx, docKey(doc.ID),
		fieldTitle, title,
		fieldDescription, doc.Description,
		fieldContent, doc.Content,
	).Err()
	if err != nil {
		return fmt.Errorf("document create: %w", err)
	}
	log.Debug().Str("module", "store").Str("doc", string(doc.ID)).Msg("document created")
	return nil
}

// Users returns the UserStore view over the same connection.
func (s *RedisStore) Users() UserStore {
	return redisUsers{s}
}

type redisUsers struct {
	s *RedisStore
}

func (u redisUsers) Exists(ctx context.Context, id domain.UserID) (bool, error) {
	return u.s.UserExists(ctx, id)
}

// UserExists reports whether the identity belongs to a known account.
func (s *RedisStore) UserExists(ctx context.Context, id domain.UserID) (bool, error) {
	ok, err := s.client.SIsMember(ctx, usersKey, string(id)).Result()
	if err != nil {
		return false, fmt.Errorf("user exists check: %w", err)
	}
	return ok, nil
}

// AddUser registers an account email; signup proper is out of scope.
func (s *RedisStore) AddUser(ctx context.Context, id domain.UserID) error {
	if err := s.client.SAdd(ctx, usersKey, string(id)).Err(); err != nil {
		return fmt.Errorf("user add: %w", err)
	}
	return nil
}
