package form

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/helpers/i18n"
)

var (
	ErrLinkLimit       = errors.New("external link limit reached")
	ErrDuplicateLink   = errors.New("external link already added")
	ErrUploadsInFlight = errors.New("uploads still in progress")
	ErrUnknownField    = errors.New("field is not part of this form")
	ErrClosed          = errors.New("form is closed")
)

type Options struct {
	// BlockWhileUploading makes BuildSubmissionPayload fail while any upload is pending or running.
	BlockWhileUploading bool
	// Owner is the user the draft belongs to.
	Owner uuid.UUID
	// EntityID is set when the form edits an existing row.
	EntityID *uuid.UUID
}

// Form is the edit buffer for one content entity. Safe for concurrent use; uploads run on
// their own goroutines and report back through the mutex.
type Form struct {
	ID   uuid.UUID
	Kind schema.Kind

	schema   *schema.Schema
	uploader Uploader
	opts     Options

	mu        sync.Mutex
	values    map[string]string
	links     []string
	lists     map[ListName][]*record
	uploaded  []Uploaded
	updatedAt time.Time
	// closed is checked and wg.Add called under mu, so Wait after Close sees every upload.
	closed bool

	wg sync.WaitGroup
}

// New returns an empty form for kind.
func New(kind schema.Kind, uploader Uploader, opts Options) (*Form, error) {
	s := schema.For(kind)
	if s == nil {
		return nil, errors.New("unknown content kind " + string(kind))
	}
	return &Form{
		ID:        uuid.New(),
		Kind:      kind,
		schema:    s,
		uploader:  uploader,
		opts:      opts,
		values:    map[string]string{},
		lists:     map[ListName][]*record{CardImages: nil, Downloads: nil},
		updatedAt: time.Now(),
	}, nil
}

func (f *Form) Schema() *schema.Schema { return f.schema }
func (f *Form) Owner() uuid.UUID       { return f.opts.Owner }
func (f *Form) EntityID() *uuid.UUID   { return f.opts.EntityID }

func (f *Form) touch() { f.updatedAt = time.Now() }

func (f *Form) UpdatedAt() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.updatedAt
}

// =======================
// Fields
// =======================

// SetField stores the raw input of a text or grade field. Values are kept verbatim;
// trimming and truncation happen when the payload is built.
func (f *Form) SetField(name, value string) error {
	fd, ok := f.schema.Field(name)
	if !ok || !(fd.Text() || fd.Type == schema.Grade) {
		return ErrUnknownField
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[name] = value
	f.touch()
	return nil
}

// SetFields applies SetField to every entry and stops at the first unknown field.
func (f *Form) SetFields(values map[string]string) error {
	for name, v := range values {
		if err := f.SetField(name, v); err != nil {
			return err
		}
	}
	return nil
}

func (f *Form) Values() map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string, len(f.values))
	for k, v := range f.values {
		out[k] = v
	}
	return out
}

// =======================
// External links
// =======================

// AddExternalLink appends the trimmed link. Blank input is a no-op; a full or duplicate list
// rejects without changing state.
func (f *Form) AddExternalLink(raw string) error {
	link := strings.TrimSpace(raw)
	if link == "" {
		return nil
	}
	if !f.schema.Has(schema.FieldExternalLinks) {
		return ErrUnknownField
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit := f.schema.Links.MaxCount; limit > 0 && len(f.links) >= limit {
		return ErrLinkLimit
	}
	if f.schema.Links.Dedupe {
		for _, l := range f.links {
			if l == link {
				return ErrDuplicateLink
			}
		}
	}
	f.links = append(f.links, link)
	f.touch()
	return nil
}

// RemoveExternalLink drops the link at index. Out of range is a no-op.
func (f *Form) RemoveExternalLink(index int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if index < 0 || index >= len(f.links) {
		return
	}
	f.links = append(f.links[:index:index], f.links[index+1:]...)
	f.touch()
}

func (f *Form) Links() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.links...)
}

// =======================
// Attachments
// =======================

func (f *Form) policy(list ListName) (schema.AttachmentPolicy, error) {
	switch list {
	case CardImages:
		return f.schema.CardImages, nil
	case Downloads:
		if !f.schema.Has(schema.FieldFiles) {
			return schema.AttachmentPolicy{}, ErrUnknownList
		}
		return f.schema.Downloads, nil
	}
	return schema.AttachmentPolicy{}, ErrUnknownList
}

// AttachFiles appends files as pending records, truncating the list to the policy's MaxFiles,
// and starts uploading every record that made the cut. It does not wait for the uploads; ctx
// must outlive the caller's request.
func (f *Form) AttachFiles(ctx context.Context, list ListName, files []File) ([]Attachment, error) {
	policy, err := f.policy(list)
	if err != nil {
		return nil, err
	}
	if f.uploader == nil {
		return nil, ErrNoUploader
	}

	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil, ErrClosed
	}
	var added []Attachment
	for _, file := range files {
		if policy.MaxFiles > 0 && len(f.lists[list]) >= policy.MaxFiles {
			break
		}
		rec := &record{
			Attachment: Attachment{
				ID:          uuid.New(),
				Name:        file.Name,
				Size:        file.Size(),
				ContentType: file.ContentType,
				Status:      StatusPending,
			},
			file: file,
		}
		f.lists[list] = append(f.lists[list], rec)
		added = append(added, rec.Attachment)
	}
	f.touch()
	f.wg.Add(len(added))
	f.mu.Unlock()

	for _, a := range added {
		id := a.ID
		go func() {
			defer f.wg.Done()
			_ = f.upload(ctx, list, id)
		}()
	}
	return added, nil
}

// UploadAttachment runs one upload attempt: pending (or error, for a retry) to uploading, then
// exactly one of completed or error. A completed record is left alone.
func (f *Form) UploadAttachment(ctx context.Context, list ListName, id uuid.UUID) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return ErrClosed
	}
	f.wg.Add(1)
	f.mu.Unlock()
	defer f.wg.Done()
	return f.upload(ctx, list, id)
}

func (f *Form) upload(ctx context.Context, list ListName, id uuid.UUID) error {
	policy, err := f.policy(list)
	if err != nil {
		return err
	}

	f.mu.Lock()
	rec := f.find(list, id)
	switch {
	case rec == nil:
		f.mu.Unlock()
		return ErrUnknownAttachment
	case rec.Status == StatusCompleted:
		f.mu.Unlock()
		return nil
	case rec.Status == StatusUploading:
		f.mu.Unlock()
		return ErrUploadInProgress
	}
	rec.Status = StatusUploading
	rec.Error = ""
	file := rec.file
	f.mu.Unlock()

	var up Uploaded
	switch {
	case policy.MaxSizeBytes > 0 && file.Size() > policy.MaxSizeBytes:
		err = ErrFileTooLarge
	case !policy.Allows(file.ContentType):
		err = ErrFileType
	default:
		up, err = f.uploader.Upload(ctx, UploadRequest{Kind: f.Kind, List: list, File: file})
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.uploaded = append(f.uploaded, up)
	}
	// The record may have been removed while the upload ran.
	if rec = f.find(list, id); rec == nil {
		return ErrUnknownAttachment
	}
	if err != nil {
		rec.Status = StatusError
		rec.Error = uploadErrorText(err)
		f.touch()
		return err
	}
	rec.Status = StatusCompleted
	rec.URL = up.URL
	rec.Key = up.Key
	rec.file = File{}
	f.touch()
	return nil
}

// RemoveAttachment drops a record from list.
func (f *Form) RemoveAttachment(list ListName, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	recs := f.lists[list]
	for i, r := range recs {
		if r.ID == id {
			f.lists[list] = append(recs[:i:i], recs[i+1:]...)
			f.touch()
			return nil
		}
	}
	return ErrUnknownAttachment
}

func (f *Form) find(list ListName, id uuid.UUID) *record {
	for _, r := range f.lists[list] {
		if r.ID == id {
			return r
		}
	}
	return nil
}

func (f *Form) Attachments(list ListName) []Attachment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return snapshot(f.lists[list])
}

func snapshot(recs []*record) []Attachment {
	out := make([]Attachment, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Attachment)
	}
	return out
}

// Pending counts records that are still pending or uploading.
func (f *Form) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pendingLocked()
}

func (f *Form) pendingLocked() int {
	n := 0
	for _, recs := range f.lists {
		for _, r := range recs {
			if r.Status == StatusPending || r.Status == StatusUploading {
				n++
			}
		}
	}
	return n
}

// Wait blocks until every upload started by AttachFiles has finished.
func (f *Form) Wait() {
	f.wg.Wait()
}

// Close stops the form from starting uploads. Uploads already running finish; Wait after
// Close sees all of them.
func (f *Form) Close() {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
}

// SessionUploads lists every object this form stored, including ones whose record was
// removed afterwards. Rehydrated attachments are not included.
func (f *Form) SessionUploads() []Uploaded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Uploaded(nil), f.uploaded...)
}

// CompletedKeys lists the storage keys of the objects this form uploaded.
func (f *Form) CompletedKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.uploaded))
	for _, u := range f.uploaded {
		out = append(out, u.Key)
	}
	return out
}

// ForgetSessionUploads drops the completed records this form uploaded, along with the
// session list. Called after their objects were deleted by a failed save.
func (f *Form) ForgetSessionUploads() {
	f.mu.Lock()
	defer f.mu.Unlock()
	gone := make(map[string]bool, len(f.uploaded))
	for _, u := range f.uploaded {
		gone[u.URL] = true
	}
	for list, recs := range f.lists {
		kept := recs[:0:0]
		for _, r := range recs {
			if r.Status == StatusCompleted && !r.Existing && gone[r.URL] {
				continue
			}
			kept = append(kept, r)
		}
		f.lists[list] = kept
	}
	f.uploaded = nil
	f.touch()
}

func uploadErrorText(err error) string {
	switch {
	case errors.Is(err, ErrFileTooLarge):
		return i18n.T(i18n.RU, i18n.FormFileTooLarge)
	case errors.Is(err, ErrFileType):
		return i18n.T(i18n.RU, i18n.FormFileTypeRejected)
	}
	return err.Error()
}

// =======================
// Submission
// =======================

// BuildSubmissionPayload computes the normalized payload from the current buffer. Attachments
// not yet completed are left out. Validation runs here, before any persistence call.
func (f *Form) BuildSubmissionPayload() (schema.Payload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.opts.BlockWhileUploading && f.pendingLocked() > 0 {
		return schema.Payload{}, ErrUploadsInFlight
	}

	p := schema.Payload{Kind: f.Kind, Title: f.values[schema.FieldTitle]}
	opt := func(name string) *string {
		v, ok := f.values[name]
		if !ok || !f.schema.Has(name) {
			return nil
		}
		return &v
	}
	p.TitleKZ = opt(schema.FieldTitleKZ)
	p.Description = opt(schema.FieldDescription)
	p.DescriptionKZ = opt(schema.FieldDescriptionKZ)
	p.Theory = opt(schema.FieldTheory)
	p.TheoryKZ = opt(schema.FieldTheoryKZ)
	p.Process = opt(schema.FieldProcess)
	p.ProcessKZ = opt(schema.FieldProcessKZ)
	p.VideoURL = opt(schema.FieldVideoURL)

	ve := &schema.ValidationError{Kind: f.Kind}
	if raw := strings.TrimSpace(f.values[schema.FieldClassLevel]); raw != "" {
		if n, err := strconv.Atoi(raw); err != nil {
			ve.Add(schema.FieldClassLevel, i18n.TagInteger, "")
		} else {
			p.ClassLevel = &n
		}
	}

	for _, r := range f.lists[CardImages] {
		if r.Status == StatusCompleted {
			u := r.URL
			p.ImageURL = &u
			break
		}
	}
	for _, r := range f.lists[Downloads] {
		if r.Status == StatusCompleted {
			p.Files = append(p.Files, r.URL)
		}
	}
	p.ExternalLinks = append([]string(nil), f.links...)

	p.Normalize()
	if err := ve.OrNil(); err != nil {
		return schema.Payload{}, err
	}
	if err := p.Validate(); err != nil {
		return schema.Payload{}, err
	}
	return p, nil
}

// =======================
// Rehydration
// =======================

// Rehydrate rebuilds a form from a persisted row. The row's image_url and files come back as
// completed pseudo-attachments so an unchanged resubmit keeps them.
func Rehydrate(row schema.Payload, uploader Uploader, opts Options) (*Form, error) {
	f, err := New(row.Kind, uploader, opts)
	if err != nil {
		return nil, err
	}
	f.values[schema.FieldTitle] = row.Title
	set := func(name string, v *string) {
		if v != nil && f.schema.Has(name) {
			f.values[name] = *v
		}
	}
	set(schema.FieldTitleKZ, row.TitleKZ)
	set(schema.FieldDescription, row.Description)
	set(schema.FieldDescriptionKZ, row.DescriptionKZ)
	set(schema.FieldTheory, row.Theory)
	set(schema.FieldTheoryKZ, row.TheoryKZ)
	set(schema.FieldProcess, row.Process)
	set(schema.FieldProcessKZ, row.ProcessKZ)
	set(schema.FieldVideoURL, row.VideoURL)
	if row.ClassLevel != nil {
		f.values[schema.FieldClassLevel] = strconv.Itoa(*row.ClassLevel)
	}
	if f.schema.Has(schema.FieldExternalLinks) {
		f.links = schema.NormalizeLinks(row.ExternalLinks, f.schema.Links)
	}
	if row.ImageURL != nil && *row.ImageURL != "" {
		f.lists[CardImages] = append(f.lists[CardImages], existing(*row.ImageURL))
	}
	if f.schema.Has(schema.FieldFiles) {
		for _, u := range row.Files {
			f.lists[Downloads] = append(f.lists[Downloads], existing(u))
		}
	}
	return f, nil
}

func existing(url string) *record {
	name := url
	if i := strings.LastIndex(url, "/"); i >= 0 && i < len(url)-1 {
		name = url[i+1:]
	}
	return &record{Attachment: Attachment{
		ID:       uuid.New(),
		Name:     name,
		Status:   StatusCompleted,
		URL:      url,
		Existing: true,
	}}
}

// =======================
// Snapshot
// =======================

// State is the JSON view of a form.
type State struct {
	ID            uuid.UUID         `json:"id"`
	Kind          schema.Kind       `json:"kind"`
	EntityID      *uuid.UUID        `json:"entity_id,omitempty"`
	Values        map[string]string `json:"values"`
	ExternalLinks []string          `json:"external_links"`
	CardImages    []Attachment      `json:"card_images"`
	Files         []Attachment      `json:"files"`
	Pending       int               `json:"pending"`
	Schema        *schema.Schema    `json:"schema"`
}

func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	values := make(map[string]string, len(f.values))
	for k, v := range f.values {
		values[k] = v
	}
	return State{
		ID:            f.ID,
		Kind:          f.Kind,
		EntityID:      f.opts.EntityID,
		Values:        values,
		ExternalLinks: append([]string{}, f.links...),
		CardImages:    snapshot(f.lists[CardImages]),
		Files:         snapshot(f.lists[Downloads]),
		Pending:       f.pendingLocked(),
		Schema:        f.schema,
	}
}
