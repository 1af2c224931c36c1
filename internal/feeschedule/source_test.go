package feeschedule

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/getrenters/renters-calculator/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRedis struct {
	values map[string]string
	err    error
}

func (f fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.values[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }

func (failingSource) Fetch(ctx context.Context) ([]byte, error) {
	return nil, errors.New("boom")
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleDoc), 0o600))

	data, err := FileSource{Path: path}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))

	_, err = FileSource{Path: filepath.Join(t.TempDir(), "missing.json")}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/banks.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(sampleDoc))
	}))
	defer srv.Close()

	data, err := HTTPSource{URL: srv.URL + "/banks.json"}.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))

	_, err = HTTPSource{URL: srv.URL + "/other"}.Fetch(context.Background())
	assert.Error(t, err)
}

func TestRedisSource(t *testing.T) {
	src := RedisSource{Client: fakeRedis{values: map[string]string{"epp": sampleDoc}}, Key: "epp"}
	data, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleDoc, string(data))

	missing := RedisSource{Client: fakeRedis{values: map[string]string{}}, Key: "epp"}
	_, err = missing.Fetch(context.Background())
	assert.ErrorIs(t, err, ErrSourceEmpty)

	broken := RedisSource{Client: fakeRedis{err: errors.New("connection refused")}, Key: "epp"}
	_, err = broken.Fetch(context.Background())
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrSourceEmpty)
}

func TestSourceFromConfig(t *testing.T) {
	assert.IsType(t, EmbeddedSource{}, SourceFromConfig(&config.Config{}))
	assert.IsType(t, FileSource{}, SourceFromConfig(&config.Config{DataFile: "banks.json"}))
	assert.IsType(t, HTTPSource{}, SourceFromConfig(&config.Config{DataFile: "banks.json", DataURL: "http://x"}))
	assert.IsType(t, RedisSource{}, SourceFromConfig(&config.Config{
		DataURL:      "http://x",
		RedisAddr:    "localhost:6379",
		DataRedisKey: "epp",
	}))
}

func TestProviderLoadsOnce(t *testing.T) {
	p := NewProvider(EmbeddedSource{}, zap.NewNop())
	assert.False(t, p.Ready())

	first := p.Load(context.Background())
	second := p.Load(context.Background())
	assert.Same(t, first, second)
	assert.True(t, p.Ready())
	assert.Equal(t, 15, first.Len())
}

func TestProviderDegradesToEmpty(t *testing.T) {
	p := NewProvider(failingSource{}, nil)
	schedule := p.Load(context.Background())
	require.NotNil(t, schedule)
	assert.Equal(t, 0, schedule.Len())

	malformed := NewProvider(RedisSource{Client: fakeRedis{values: map[string]string{"k": "{oops"}}, Key: "k"}, nil)
	assert.Equal(t, 0, malformed.Load(context.Background()).Len())
}

func TestProviderLoadSurvivesCancelledCaller(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := EmbeddedSource{}.Fetch(r.Context())
		w.Write(data) //nolint:errcheck
	}))
	defer srv.Close()

	p := NewProvider(HTTPSource{URL: srv.URL, Client: &http.Client{Timeout: 5 * time.Second}}, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, 15, p.Load(ctx).Len())
	assert.Equal(t, 15, p.Load(context.Background()).Len())
}
