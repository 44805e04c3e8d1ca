package form

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry keeps server-side drafts between requests. Drafts idle longer than ttl are swept.
type Registry struct {
	mu    sync.Mutex
	forms map[uuid.UUID]*Form
	ttl   time.Duration
	now   func() time.Time
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	return &Registry{forms: map[uuid.UUID]*Form{}, ttl: ttl, now: time.Now}
}

func (r *Registry) Put(f *Form) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forms[f.ID] = f
}

// Get returns the draft when it exists and belongs to owner.
func (r *Registry) Get(id, owner uuid.UUID) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[id]
	if !ok || f.Owner() != owner {
		return nil, false
	}
	return f, true
}

func (r *Registry) Delete(id uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.forms, id)
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.forms)
}

// Sweep removes drafts idle past ttl with no upload running and returns them.
func (r *Registry) Sweep() []*Form {
	cutoff := r.now().Add(-r.ttl)
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*Form
	for id, f := range r.forms {
		if f.UpdatedAt().Before(cutoff) && f.Pending() == 0 {
			delete(r.forms, id)
			out = append(out, f)
		}
	}
	return out
}
