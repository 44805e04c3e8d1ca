package form

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"biolab_backend/internals/features/content/schema"
)

// AttachmentStatus is the upload lifecycle of one attachment record.
type AttachmentStatus string

const (
	StatusPending   AttachmentStatus = "pending"
	StatusUploading AttachmentStatus = "uploading"
	StatusCompleted AttachmentStatus = "completed"
	StatusError     AttachmentStatus = "error"
)

// ListName selects one of the two attachment lists of a form.
type ListName string

const (
	CardImages ListName = "card_images"
	Downloads  ListName = "files"
)

func ParseListName(s string) (ListName, error) {
	switch ListName(s) {
	case CardImages, "images", "image":
		return CardImages, nil
	case Downloads, "downloads":
		return Downloads, nil
	}
	return "", ErrUnknownList
}

var (
	ErrUnknownList       = errors.New("unknown attachment list")
	ErrUnknownAttachment = errors.New("attachment not found")
	ErrUploadInProgress  = errors.New("attachment is already uploading")
	ErrFileTooLarge      = errors.New("file exceeds the size limit")
	ErrFileType          = errors.New("file type is not accepted")
	ErrNoUploader        = errors.New("form has no uploader")
)

// File is a selected file held in memory until its upload finishes.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

func (f File) Size() int64 { return int64(len(f.Data)) }

// Attachment is a snapshot of one attachment record.
type Attachment struct {
	ID          uuid.UUID        `json:"id"`
	Name        string           `json:"name"`
	Size        int64            `json:"size"`
	ContentType string           `json:"content_type,omitempty"`
	Status      AttachmentStatus `json:"status"`
	URL         string           `json:"url,omitempty"`
	Key         string           `json:"-"`
	Error       string           `json:"error,omitempty"`
	// Existing marks records rebuilt from a persisted row rather than uploaded by this form.
	Existing bool `json:"existing,omitempty"`
}

type record struct {
	Attachment
	file File
}

// UploadRequest is what a Form hands to its Uploader.
type UploadRequest struct {
	Kind schema.Kind
	List ListName
	File File
}

// Uploaded is the confirmed location of a stored object.
type Uploaded struct {
	URL string
	Key string
}

// Uploader stores one file. Implementations must be safe for concurrent use.
type Uploader interface {
	Upload(ctx context.Context, req UploadRequest) (Uploaded, error)
}

type UploaderFunc func(ctx context.Context, req UploadRequest) (Uploaded, error)

func (fn UploaderFunc) Upload(ctx context.Context, req UploadRequest) (Uploaded, error) {
	return fn(ctx, req)
}
