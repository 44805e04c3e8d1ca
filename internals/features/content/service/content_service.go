package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"biolab_backend/internals/features/content/form"
	"biolab_backend/internals/features/content/model"
	"biolab_backend/internals/features/content/repository"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/metrics"
	"biolab_backend/internals/helpers/storage"
)

// ContentStore is what the service needs from the row repository.
type ContentStore interface {
	repository.Store
	FetchByID(ctx context.Context, kind schema.Kind, id uuid.UUID) (model.ContentModel, error)
	CountByClassLevel(ctx context.Context, kind schema.Kind) ([]repository.ClassLevelCount, error)
}

type Deps struct {
	Repo    ContentStore
	Ledger  Ledger
	Blob    storage.BlobService
	Log     *logger.Logger
	Metrics *metrics.Metrics
}

// ContentService saves content in two phases: uploads are confirmed first, then the row is
// written, and objects the write no longer needs are removed afterwards. Reads always go to
// the table.
type ContentService struct {
	repo    ContentStore
	ledger  Ledger
	blob    storage.BlobService
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewContentService(d Deps) *ContentService {
	if d.Log == nil {
		d.Log = logger.Nop()
	}
	return &ContentService{
		repo:    d.Repo,
		ledger:  d.Ledger,
		blob:    d.Blob,
		log:     d.Log,
		metrics: d.Metrics,
	}
}

var ErrUnknownKind = errors.New("unknown content kind")

/* ====================== READ ====================== */

func (s *ContentService) List(ctx context.Context, kind schema.Kind, f repository.ListFilter) ([]model.ContentModel, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return s.repo.FetchAll(ctx, kind, f)
}

func (s *ContentService) Get(ctx context.Context, kind schema.Kind, id uuid.UUID) (model.ContentModel, error) {
	if !kind.Valid() {
		return model.ContentModel{}, ErrUnknownKind
	}
	return s.repo.FetchByID(ctx, kind, id)
}

// Open loads a list of kind owned by the caller. Writes through it run the same validation
// and upload settling as Create, Update and Delete; the list changes only after they succeed.
func (s *ContentService) Open(ctx context.Context, kind schema.Kind) (*repository.Collection, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	c := repository.NewCollection(kind, serviceStore{s})
	if err := c.Load(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// serviceStore adapts the service to repository.Store.
type serviceStore struct{ s *ContentService }

func (st serviceStore) Create(ctx context.Context, kind schema.Kind, m *model.ContentModel) error {
	row, err := st.s.Create(ctx, kind, m.Payload(kind), m.CreatedBy, nil)
	if err != nil {
		return err
	}
	*m = row
	return nil
}

func (st serviceStore) Update(ctx context.Context, kind schema.Kind, id uuid.UUID, p schema.Payload) (model.ContentModel, error) {
	return st.s.Update(ctx, kind, id, p, nil)
}

func (st serviceStore) Delete(ctx context.Context, kind schema.Kind, id uuid.UUID) error {
	return st.s.Delete(ctx, kind, id)
}

func (st serviceStore) FetchAll(ctx context.Context, kind schema.Kind, f repository.ListFilter) ([]model.ContentModel, error) {
	return st.s.List(ctx, kind, f)
}

/* ====================== WRITE ====================== */

// Create validates p, inserts it and settles uploads. uploads are the objects stored for this
// submission; they are deleted when the insert fails.
func (s *ContentService) Create(ctx context.Context, kind schema.Kind, p schema.Payload, createdBy *uuid.UUID, uploads []form.Uploaded) (model.ContentModel, error) {
	p.Kind = kind
	p.Normalize()
	if err := p.Validate(); err != nil {
		return model.ContentModel{}, err
	}

	row := model.FromPayload(p, createdBy)
	err := s.repo.Create(ctx, kind, &row)
	s.metrics.Mutation(string(kind), "create", err)
	if err != nil {
		s.log.Error("create failed", "kind", kind, "error", err)
		s.removeObjects(ctx, urlsOf(uploads))
		return model.ContentModel{}, err
	}
	s.settle(ctx, row.URLs(), urlsOf(uploads), nil)
	return row, nil
}

// Update overwrites row id with p. Objects the old row referenced and p drops are removed
// once the write succeeds.
func (s *ContentService) Update(ctx context.Context, kind schema.Kind, id uuid.UUID, p schema.Payload, uploads []form.Uploaded) (model.ContentModel, error) {
	p.Kind = kind
	p.Normalize()
	if err := p.Validate(); err != nil {
		return model.ContentModel{}, err
	}
	old, err := s.repo.FetchByID(ctx, kind, id)
	if err != nil {
		s.removeObjects(ctx, urlsOf(uploads))
		return model.ContentModel{}, err
	}

	row, err := s.repo.Update(ctx, kind, id, p)
	s.metrics.Mutation(string(kind), "update", err)
	if err != nil {
		s.log.Error("update failed", "kind", kind, "id", id, "error", err)
		s.removeObjects(ctx, urlsOf(uploads))
		return model.ContentModel{}, err
	}
	s.settle(ctx, row.URLs(), urlsOf(uploads), old.URLs())
	return row, nil
}

// Delete removes row id and then its objects. A second delete reports ErrNotFound.
func (s *ContentService) Delete(ctx context.Context, kind schema.Kind, id uuid.UUID) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	old, ferr := s.repo.FetchByID(ctx, kind, id)
	err := s.repo.Delete(ctx, kind, id)
	s.metrics.Mutation(string(kind), "delete", err)
	if err != nil {
		return err
	}
	if ferr == nil {
		s.removeObjects(ctx, old.URLs())
	}
	return nil
}

// Submit builds the form's payload and writes it. created reports an insert. After a failed
// write the form forgets the uploads that were removed.
func (s *ContentService) Submit(ctx context.Context, f *form.Form) (row model.ContentModel, created bool, err error) {
	p, err := f.BuildSubmissionPayload()
	if err != nil {
		return model.ContentModel{}, false, err
	}
	uploads := f.SessionUploads()
	if id := f.EntityID(); id != nil {
		row, err = s.Update(ctx, f.Kind, *id, p, uploads)
	} else {
		owner := f.Owner()
		var by *uuid.UUID
		if owner != uuid.Nil {
			by = &owner
		}
		row, err = s.Create(ctx, f.Kind, p, by, uploads)
		created = true
	}
	if err != nil {
		if _, ok := schema.AsValidationError(err); !ok {
			f.ForgetSessionUploads()
		}
		return model.ContentModel{}, false, err
	}
	return row, created, nil
}

// Discard removes every object an abandoned draft uploaded.
func (s *ContentService) Discard(ctx context.Context, f *form.Form) {
	f.Close()
	f.Wait()
	s.removeObjects(ctx, urlsOf(f.SessionUploads()))
}

/* ====================== STATS ====================== */

type KindStats struct {
	Total   int64                        `json:"total"`
	ByClass []repository.ClassLevelCount `json:"by_class"`
}

// Stats counts rows per kind and class level.
func (s *ContentService) Stats(ctx context.Context) (map[schema.Kind]KindStats, error) {
	var mu sync.Mutex
	out := make(map[schema.Kind]KindStats, len(schema.Kinds))
	g, gctx := errgroup.WithContext(ctx)
	for _, k := range schema.Kinds {
		k := k
		g.Go(func() error {
			counts, err := s.repo.CountByClassLevel(gctx, k)
			if err != nil {
				return err
			}
			st := KindStats{ByClass: counts}
			for _, c := range counts {
				st.Total += c.Count
			}
			mu.Lock()
			out[k] = st
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

/* ====================== OBJECTS ====================== */

// settle marks the URLs the row references as attached and removes session uploads and
// previous URLs it no longer references.
func (s *ContentService) settle(ctx context.Context, current, session, previous []string) {
	if err := s.ledger.SetStatusByURL(context.WithoutCancel(ctx), current, model.UploadAttached); err != nil {
		s.log.Warn("ledger attach failed", "error", err)
	}
	keep := make(map[string]bool, len(current))
	for _, u := range current {
		keep[u] = true
	}
	var drop []string
	seen := map[string]bool{}
	for _, list := range [][]string{session, previous} {
		for _, u := range list {
			if !keep[u] && !seen[u] {
				seen[u] = true
				drop = append(drop, u)
			}
		}
	}
	s.removeObjects(ctx, drop)
}

// removeObjects deletes objects best effort. Ledger rows of deleted objects go away; the
// ones storage refused are marked orphaned for the reaper.
func (s *ContentService) removeObjects(ctx context.Context, urls []string) {
	if len(urls) == 0 || s.blob == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	deleted, failed := s.blob.DeleteManyByPublicURL(ctx, urls)
	if err := s.ledger.DeleteByURL(ctx, deleted); err != nil {
		s.log.Warn("ledger cleanup failed", "error", err)
	}
	var orphaned []string
	for u, err := range failed {
		if errors.Is(err, storage.ErrForeignURL) {
			continue
		}
		s.log.Warn("object delete failed", "url", u, "error", err)
		orphaned = append(orphaned, u)
	}
	if err := s.ledger.SetStatusByURL(ctx, orphaned, model.UploadOrphaned); err != nil {
		s.log.Warn("ledger orphan mark failed", "error", err)
	}
}

func urlsOf(uploads []form.Uploaded) []string {
	out := make([]string, 0, len(uploads))
	for _, u := range uploads {
		out = append(out, u.URL)
	}
	return out
}
