// Package assets keeps remote assets available offline. Lookups are served
// from the key-value store first and fall back to the network, storing what
// was fetched.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/yallatask/yalla/internal/applog"
	"github.com/yallatask/yalla/internal/storage"
)

const (
	CacheName = "yalla-task-v1"
	keyPrefix = "asset:" + CacheName + ":"

	maxAssetBytes = 4 << 20
)

type Options struct {
	Dir        string
	URLs       []string
	HTTPClient *http.Client
	Logger     *log.Logger
}

type Cache struct {
	kv     storage.KV
	dir    string
	urls   []string
	client *http.Client
	logger *log.Logger
}

func NewCache(kv storage.KV, opts Options) *Cache {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Cache{
		kv:     kv,
		dir:    opts.Dir,
		urls:   append([]string(nil), opts.URLs...),
		client: client,
		logger: applog.OrDiscard(opts.Logger),
	}
}

func Key(url string) string {
	return keyPrefix + url
}

// Get returns the cached bytes for url, fetching and storing them on a miss.
func (c *Cache) Get(ctx context.Context, url string) ([]byte, error) {
	data, err := c.kv.Get(ctx, Key(url))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		c.logger.Warn("asset cache read failed", "url", url, "err", err)
	}

	data, err = c.fetch(ctx, url)
	if err != nil {
		return nil, err
	}
	if err := c.kv.Put(ctx, Key(url), data); err != nil {
		c.logger.Warn("asset cache write failed", "url", url, "err", err)
	}
	return data, nil
}

func (c *Cache) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build asset request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch asset %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch asset %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read asset %s: %w", url, err)
	}
	if len(data) > maxAssetBytes {
		return nil, fmt.Errorf("asset %s exceeds %d bytes", url, maxAssetBytes)
	}
	return data, nil
}

// Precache warms every configured asset. Failures are collected, not fatal.
func (c *Cache) Precache(ctx context.Context) error {
	var errs []error
	for _, url := range c.urls {
		if _, err := c.Get(ctx, url); err != nil {
			errs = append(errs, err)
			continue
		}
		c.logger.Debug("asset cached", "url", url)
	}
	return errors.Join(errs...)
}

// Path writes the asset for url into the cache directory and returns the
// file path, reusing a file written earlier.
func (c *Cache) Path(ctx context.Context, url string) (string, error) {
	if strings.TrimSpace(c.dir) == "" {
		return "", errors.New("assets: no cache directory configured")
	}
	target := filepath.Join(c.dir, fileName(url))
	if info, err := os.Stat(target); err == nil && info.Size() > 0 {
		return target, nil
	}
	data, err := c.Get(ctx, url)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return "", fmt.Errorf("create asset dir: %w", err)
	}
	// Each writer gets its own temp file; the rename is atomic.
	f, err := os.CreateTemp(c.dir, fileName(url)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create asset temp file: %w", err)
	}
	tmp := f.Name()
	_, werr := f.Write(data)
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("write asset: %w", err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		c.logger.Debug("chmod asset failed", "path", tmp, "err", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("store asset: %w", err)
	}
	return target, nil
}

// IconFunc adapts Path for callers that only want a best-effort file path.
func (c *Cache) IconFunc(url string) func(context.Context) string {
	return func(ctx context.Context) string {
		p, err := c.Path(ctx, url)
		if err != nil {
			c.logger.Debug("icon unavailable", "url", url, "err", err)
			return ""
		}
		return p
	}
}

func fileName(url string) string {
	ext := path.Ext(strings.SplitN(url, "?", 2)[0])
	if len(ext) > 8 {
		ext = ""
	}
	return fmt.Sprintf("%016x%s", xxhash.Sum64String(url), ext)
}
