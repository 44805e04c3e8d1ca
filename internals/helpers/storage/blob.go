package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"biolab_backend/internals/constants"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrForeignURL = errors.New("url does not belong to this bucket")
)

// Object is a stored blob.
type Object struct {
	Key         string `json:"key"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// BlobService is the object storage facade used by uploads and cleanup.
type BlobService interface {
	// Upload stores data under a fresh key inside folder.
	Upload(ctx context.Context, folder, filename, contentType string, data []byte) (Object, error)
	Delete(ctx context.Context, key string) error
	DeleteByPublicURL(ctx context.Context, publicURL string) error
	// DeleteManyByPublicURL deletes concurrently and reports per-URL failures.
	DeleteManyByPublicURL(ctx context.Context, publicURLs []string) (deleted []string, failed map[string]error)
	PublicURL(key string) string
	KeyFromPublicURL(publicURL string) (string, error)
}

// =======================
// Keys and URLs
// =======================

const keyAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewObjectKey returns "{folder}/{unix millis}-{random}.{ext}".
func NewObjectKey(folder, filename string, now time.Time) string {
	folder = strings.Trim(strings.TrimSpace(folder), "/")
	name := fmt.Sprintf("%d-%s.%s", now.UnixMilli(), randomSuffix(11), constants.FileExt(filename))
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

func randomSuffix(n int) string {
	var b strings.Builder
	base := big.NewInt(int64(len(keyAlphabet)))
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, base)
		if err != nil {
			idx = big.NewInt(time.Now().UnixNano() % int64(len(keyAlphabet)))
		}
		b.WriteByte(keyAlphabet[idx.Int64()])
	}
	return b.String()
}

// urlMapper derives Supabase-style public URLs:
// {base}/storage/v1/object/public/{bucket}/{key}
type urlMapper struct {
	base   string
	bucket string
}

func (m urlMapper) prefix() string {
	return strings.TrimRight(m.base, "/") + "/storage/v1/object/public/" + m.bucket + "/"
}

func (m urlMapper) PublicURL(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return m.prefix() + strings.Join(parts, "/")
}

func (m urlMapper) KeyFromPublicURL(publicURL string) (string, error) {
	publicURL = strings.TrimSpace(publicURL)
	if i := strings.IndexAny(publicURL, "?#"); i >= 0 {
		publicURL = publicURL[:i]
	}
	p := m.prefix()
	if !strings.HasPrefix(publicURL, p) {
		return "", ErrForeignURL
	}
	key, err := url.PathUnescape(strings.TrimPrefix(publicURL, p))
	if err != nil || key == "" {
		return "", ErrForeignURL
	}
	return key, nil
}

// deleteMany fans DeleteByPublicURL out over a small worker group.
func deleteMany(ctx context.Context, svc BlobService, publicURLs []string) ([]string, map[string]error) {
	var (
		mu      sync.Mutex
		deleted []string
		failed  = map[string]error{}
	)
	// Group without a context: one failed delete must not cancel the others.
	var g errgroup.Group
	g.SetLimit(4)
	for _, u := range publicURLs {
		u := u
		if strings.TrimSpace(u) == "" {
			continue
		}
		g.Go(func() error {
			err := svc.DeleteByPublicURL(ctx, u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil && !errors.Is(err, ErrNotFound) {
				failed[u] = err
			} else {
				deleted = append(deleted, u)
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines report through failed
	return deleted, failed
}
