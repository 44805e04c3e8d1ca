// Package seeds loads sample content from JSON files.
package seeds

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bytedance/sonic"

	"biolab_backend/internals/features/content/dto"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/features/content/service"
	"biolab_backend/internals/helpers/logger"
)

type Result struct {
	Created int `json:"created"`
	Skipped int `json:"skipped"`
	Failed  int `json:"failed"`
}

func (r *Result) add(o Result) {
	r.Created += o.Created
	r.Skipped += o.Skipped
	r.Failed += o.Failed
}

// SeedContentFromJSON creates every entry of filePath whose title is not in the table yet.
// Entries go through the same normalization as the admin endpoints; invalid ones are logged
// and counted as failed.
func SeedContentFromJSON(ctx context.Context, svc *service.ContentService, kind schema.Kind, filePath string, log *logger.Logger) (Result, error) {
	log.Info("reading seed file", "kind", kind, "path", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		return Result{}, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []dto.ContentRequest
	if err := sonic.Unmarshal(raw, &inputs); err != nil {
		return Result{}, fmt.Errorf("decode %s: %w", filePath, err)
	}

	list, err := svc.Open(ctx, kind)
	if err != nil {
		return Result{}, err
	}
	seen := make(map[string]bool)
	for _, row := range list.Items() {
		seen[strings.ToLower(strings.TrimSpace(row.Title))] = true
	}

	var res Result
	for _, in := range inputs {
		key := strings.ToLower(strings.TrimSpace(in.Title))
		if seen[key] {
			log.Debug("seed entry exists, skipped", "kind", kind, "title", in.Title)
			res.Skipped++
			continue
		}
		if _, err := list.Create(ctx, in.ToPayload(kind), nil); err != nil {
			log.Warn("seed entry rejected", "kind", kind, "title", in.Title, "error", err)
			res.Failed++
			continue
		}
		seen[key] = true
		res.Created++
	}
	log.Info("seed file done", "kind", kind, "created", res.Created, "skipped", res.Skipped, "failed", res.Failed)
	return res, nil
}

// RunAllSeeds loads <dir>/<segment>.json for every kind that has one, e.g. labs.json or
// teachers.json.
func RunAllSeeds(ctx context.Context, svc *service.ContentService, dir string, log *logger.Logger) (Result, error) {
	var total Result
	for _, kind := range schema.Kinds {
		path := filepath.Join(dir, kind.Segment()+".json")
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			continue
		}
		res, err := SeedContentFromJSON(ctx, svc, kind, path, log)
		if err != nil {
			return total, err
		}
		total.add(res)
	}
	return total, nil
}
