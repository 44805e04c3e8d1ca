package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryStore is an in-process BlobService for tests and local development.
type MemoryStore struct {
	urlMapper

	mu      sync.Mutex
	objects map[string]memObject
	now     func() time.Time
}

type memObject struct {
	data        []byte
	contentType string
}

func NewMemoryStore(baseURL, bucket string) *MemoryStore {
	return &MemoryStore{
		urlMapper: urlMapper{base: baseURL, bucket: bucket},
		objects:   map[string]memObject{},
		now:       time.Now,
	}
}

func (s *MemoryStore) Upload(ctx context.Context, folder, filename, contentType string, data []byte) (Object, error) {
	if err := ctx.Err(); err != nil {
		return Object{}, err
	}
	key := NewObjectKey(folder, filename, s.now())
	s.mu.Lock()
	s.objects[key] = memObject{data: append([]byte(nil), data...), contentType: contentType}
	s.mu.Unlock()
	return Object{Key: key, URL: s.PublicURL(key), ContentType: contentType, Size: int64(len(data))}, nil
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return ErrNotFound
	}
	delete(s.objects, key)
	return nil
}

func (s *MemoryStore) DeleteByPublicURL(ctx context.Context, publicURL string) error {
	key, err := s.KeyFromPublicURL(publicURL)
	if err != nil {
		return err
	}
	return s.Delete(ctx, key)
}

func (s *MemoryStore) DeleteManyByPublicURL(ctx context.Context, publicURLs []string) ([]string, map[string]error) {
	return deleteMany(ctx, s, publicURLs)
}

// Get returns a stored object's bytes.
func (s *MemoryStore) Get(key string) ([]byte, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[key]
	return o.data, o.contentType, ok
}

// Keys lists stored keys in order.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.objects))
	for k := range s.objects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
