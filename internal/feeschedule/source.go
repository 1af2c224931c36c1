package feeschedule

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/redis/go-redis/v9"
)

//go:embed data/banks.json
var defaultBanks []byte

// ErrSourceEmpty возвращается, когда источник не содержит данных
var ErrSourceEmpty = errors.New("fee schedule source is empty")

// Source отдает документ с таблицами комиссий
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// EmbeddedSource отдает встроенную таблицу банков
type EmbeddedSource struct{}

func (EmbeddedSource) Name() string { return "embedded" }

// Fetch реализует Source
func (EmbeddedSource) Fetch(ctx context.Context) ([]byte, error) {
	return defaultBanks, nil
}

// FileSource читает документ из файла
type FileSource struct {
	Path string
}

func (s FileSource) Name() string { return "file" }

// Fetch реализует Source
func (s FileSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", s.Path, err)
	}
	if len(data) == 0 {
		return nil, ErrSourceEmpty
	}
	return data, nil
}

// HTTPSource загружает документ по HTTP
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Name() string { return "http" }

// Fetch реализует Source
func (s HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", s.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %d", s.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) == 0 {
		return nil, ErrSourceEmpty
	}
	return data, nil
}

// RedisGetter - часть клиента redis, нужная источнику
type RedisGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// RedisSource читает документ из ключа redis
type RedisSource struct {
	Client RedisGetter
	Key    string
}

func (s RedisSource) Name() string { return "redis" }

// Fetch реализует Source
func (s RedisSource) Fetch(ctx context.Context) ([]byte, error) {
	data, err := s.Client.Get(ctx, s.Key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("key %q: %w", s.Key, ErrSourceEmpty)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key %q: %w", s.Key, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("key %q: %w", s.Key, ErrSourceEmpty)
	}
	return data, nil
}

// NewRedisClient создает клиент redis по конфигурации
func NewRedisClient(cfg *config.Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
}

// SourceFromConfig выбирает источник: redis, затем URL, затем файл,
// иначе встроенная таблица.
func SourceFromConfig(cfg *config.Config) Source {
	switch {
	case cfg.RedisAddr != "" && cfg.DataRedisKey != "":
		return RedisSource{Client: NewRedisClient(cfg), Key: cfg.DataRedisKey}
	case cfg.DataURL != "":
		return HTTPSource{URL: cfg.DataURL, Client: &http.Client{Timeout: cfg.DataFetchTimeout}}
	case cfg.DataFile != "":
		return FileSource{Path: cfg.DataFile}
	default:
		return EmbeddedSource{}
	}
}
