package seeds

import (
	"context"
	"testing"
	"time"

	"biolab_backend/internals/databases/dbtest"
	"biolab_backend/internals/features/content/repository"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/features/content/service"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/storage"
)

func newService(t *testing.T) *service.ContentService {
	t.Helper()
	db := dbtest.Open(t)
	return service.NewContentService(service.Deps{
		Repo:   repository.NewContentRepository(db, time.Second),
		Ledger: repository.NewUploadRepository(db),
		Blob:   storage.NewMemoryStore("http://localhost:8080", "files"),
	})
}

func TestSeedContentFromJSONIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	res, err := SeedContentFromJSON(ctx, svc, schema.KindLab, "testdata/labs.json", logger.Nop())
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res != (Result{Created: 2, Failed: 1}) {
		t.Fatalf("first run = %+v", res)
	}

	res, err = SeedContentFromJSON(ctx, svc, schema.KindLab, "testdata/labs.json", logger.Nop())
	if err != nil {
		t.Fatalf("reseed: %v", err)
	}
	if res.Created != 0 || res.Skipped != 2 {
		t.Fatalf("second run = %+v", res)
	}

	rows, err := svc.List(ctx, schema.KindLab, repository.ListFilter{})
	if err != nil || len(rows) != 2 {
		t.Fatalf("rows = %d, err = %v", len(rows), err)
	}
}

func TestRunAllSeedsPicksFilesBySegment(t *testing.T) {
	svc := newService(t)
	res, err := RunAllSeeds(context.Background(), svc, "testdata", logger.Nop())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Created != 3 {
		t.Fatalf("created = %d, want 3 (two labs, one steam)", res.Created)
	}
}

func TestSeedMissingFile(t *testing.T) {
	if _, err := SeedContentFromJSON(context.Background(), newService(t), schema.KindSteam, "testdata/nope.json", logger.Nop()); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
