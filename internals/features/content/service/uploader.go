package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"biolab_backend/internals/features/content/form"
	"biolab_backend/internals/features/content/model"
	"biolab_backend/internals/helpers/logger"
	"biolab_backend/internals/helpers/metrics"
	"biolab_backend/internals/helpers/storage"
)

// Ledger is the part of the uploads ledger the services write to.
type Ledger interface {
	Record(ctx context.Context, m *model.UploadModel) error
	SetStatusByURL(ctx context.Context, urls []string, status string) error
	DeleteByURL(ctx context.Context, urls []string) error
}

// StorageUploader is the form.Uploader backed by object storage. Every stored object is
// recorded in the ledger as pending until a content row references it.
type StorageUploader struct {
	Blob    storage.BlobService
	Ledger  Ledger
	Log     *logger.Logger
	Metrics *metrics.Metrics

	// ConvertWebP re-encodes card images before upload.
	ConvertWebP bool
	WebP        storage.WebPOptions
}

func (u *StorageUploader) Upload(ctx context.Context, req form.UploadRequest) (form.Uploaded, error) {
	data, name, ct := req.File.Data, req.File.Name, req.File.ContentType
	if u.ConvertWebP && req.List == form.CardImages {
		data, name, ct = storage.PrepareCardImage(data, name, ct, u.WebP)
	}

	obj, err := u.Blob.Upload(ctx, req.Kind.Folder(), name, ct, data)
	u.Metrics.Upload(string(req.Kind), err)
	if err != nil {
		return form.Uploaded{}, fmt.Errorf("upload %s: %w", req.File.Name, err)
	}

	meta, _ := json.Marshal(map[string]any{
		"name":         req.File.Name,
		"size":         obj.Size,
		"content_type": ct,
		"list":         req.List,
	})
	row := &model.UploadModel{
		Key:       obj.Key,
		PublicURL: obj.URL,
		Kind:      string(req.Kind),
		Status:    model.UploadPending,
		Metadata:  datatypes.JSON(meta),
	}
	if err := u.Ledger.Record(ctx, row); err != nil {
		// An unrecorded object would never be reaped.
		if derr := u.Blob.Delete(context.WithoutCancel(ctx), obj.Key); derr != nil && u.Log != nil {
			u.Log.Warn("upload rollback failed", "key", obj.Key, "error", derr)
		}
		return form.Uploaded{}, fmt.Errorf("record upload: %w", err)
	}
	return form.Uploaded{URL: obj.URL, Key: obj.Key}, nil
}
