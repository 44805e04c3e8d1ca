package form

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"

	"biolab_backend/internals/features/content/schema"
)

// fakeUploader fails for any file whose name starts with "fail", and blocks files named
// "slow*" until release is closed.
type fakeUploader struct {
	mu      sync.Mutex
	calls   int
	release chan struct{}
}

func (u *fakeUploader) Upload(ctx context.Context, req UploadRequest) (Uploaded, error) {
	u.mu.Lock()
	u.calls++
	u.mu.Unlock()
	if strings.HasPrefix(req.File.Name, "slow") && u.release != nil {
		<-u.release
	}
	if strings.HasPrefix(req.File.Name, "fail") {
		return Uploaded{}, errors.New("storage unavailable")
	}
	key := fmt.Sprintf("%s/%s", req.Kind.Folder(), req.File.Name)
	return Uploaded{URL: "https://cdn.test/" + key, Key: key}, nil
}

func newLabForm(t *testing.T, up Uploader, opts Options) *Form {
	t.Helper()
	f, err := New(schema.KindLab, up, opts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return f
}

func fillRequired(t *testing.T, f *Form) {
	t.Helper()
	if err := f.SetFields(map[string]string{
		schema.FieldTitle:       "Строение клетки",
		schema.FieldDescription: "Изучение клетки под микроскопом",
		schema.FieldClassLevel:  "8",
	}); err != nil {
		t.Fatalf("SetFields: %v", err)
	}
}

func pdf(name string) File {
	return File{Name: name, ContentType: "application/pdf", Data: []byte("%PDF-1.4")}
}

func png(name string) File {
	return File{Name: name, ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}}
}

func TestAddExternalLinkBlankIsNoop(t *testing.T) {
	f := newLabForm(t, nil, Options{})
	for _, raw := range []string{"", "   ", "\t\n"} {
		if err := f.AddExternalLink(raw); err != nil {
			t.Fatalf("AddExternalLink(%q) = %v", raw, err)
		}
	}
	if n := len(f.Links()); n != 0 {
		t.Fatalf("links = %d, want 0", n)
	}
}

func TestLinksTrimmedAndNeverEmpty(t *testing.T) {
	f := newLabForm(t, nil, Options{})
	inputs := []string{" https://a.kz ", "", "https://b.kz\n", "  ", "https://c.kz"}
	for _, in := range inputs {
		_ = f.AddExternalLink(in)
	}
	f.RemoveExternalLink(1)
	f.RemoveExternalLink(42)
	f.RemoveExternalLink(-1)

	got := f.Links()
	want := []string{"https://a.kz", "https://c.kz"}
	if len(got) != len(want) {
		t.Fatalf("links = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] || got[i] == "" || got[i] != strings.TrimSpace(got[i]) {
			t.Fatalf("links = %v, want %v", got, want)
		}
	}
}

func TestEleventhLinkRejected(t *testing.T) {
	f := newLabForm(t, nil, Options{})
	for i := 0; i < 10; i++ {
		if err := f.AddExternalLink(fmt.Sprintf("https://example.kz/%d", i)); err != nil {
			t.Fatalf("link %d: %v", i, err)
		}
	}
	if err := f.AddExternalLink("https://example.kz/11"); !errors.Is(err, ErrLinkLimit) {
		t.Fatalf("11th link err = %v, want ErrLinkLimit", err)
	}
	if n := len(f.Links()); n != 10 {
		t.Fatalf("links = %d, want 10", n)
	}
}

func TestDuplicateLinkRejected(t *testing.T) {
	f := newLabForm(t, nil, Options{})
	_ = f.AddExternalLink("https://a.kz")
	if err := f.AddExternalLink(" https://a.kz "); !errors.Is(err, ErrDuplicateLink) {
		t.Fatalf("err = %v, want ErrDuplicateLink", err)
	}
	// Matching is case-sensitive.
	if err := f.AddExternalLink("https://A.kz"); err != nil {
		t.Fatalf("case variant rejected: %v", err)
	}
	if n := len(f.Links()); n != 2 {
		t.Fatalf("links = %d, want 2", n)
	}
}

func TestStudentFormHasNoLinks(t *testing.T) {
	f, _ := New(schema.KindStudent, nil, Options{})
	if err := f.AddExternalLink("https://a.kz"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("err = %v, want ErrUnknownField", err)
	}
}

func TestFilesOnlyCompletedInOrder(t *testing.T) {
	up := &fakeUploader{}
	f := newLabForm(t, up, Options{})
	fillRequired(t, f)

	if _, err := f.AttachFiles(context.Background(), Downloads, []File{pdf("one.pdf"), pdf("fail-two.pdf"), pdf("three.pdf")}); err != nil {
		t.Fatalf("AttachFiles: %v", err)
	}
	f.Wait()

	atts := f.Attachments(Downloads)
	if atts[1].Status != StatusError || atts[1].Error == "" {
		t.Fatalf("second attachment = %+v, want error", atts[1])
	}

	p, err := f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload: %v", err)
	}
	want := []string{"https://cdn.test/labs/one.pdf", "https://cdn.test/labs/three.pdf"}
	if len(p.Files) != 2 || p.Files[0] != want[0] || p.Files[1] != want[1] {
		t.Fatalf("files = %v, want %v", p.Files, want)
	}
}

func TestImageURLFirstCompletedOrNil(t *testing.T) {
	up := &fakeUploader{}
	f := newLabForm(t, up, Options{})
	fillRequired(t, f)

	p, err := f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload: %v", err)
	}
	if p.ImageURL != nil {
		t.Fatalf("image_url = %q, want nil", *p.ImageURL)
	}

	_, _ = f.AttachFiles(context.Background(), CardImages, []File{png("fail-cover.png"), png("cover.png"), png("back.png")})
	f.Wait()

	p, err = f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload: %v", err)
	}
	if p.ImageURL == nil || *p.ImageURL != "https://cdn.test/labs/cover.png" {
		t.Fatalf("image_url = %v, want first completed", p.ImageURL)
	}
}

func TestAttachFilesTruncatesToMaxFiles(t *testing.T) {
	up := &fakeUploader{}
	f := newLabForm(t, up, Options{})
	added, _ := f.AttachFiles(context.Background(), CardImages, []File{png("a.png"), png("b.png")})
	added2, _ := f.AttachFiles(context.Background(), CardImages, []File{png("c.png"), png("d.png")})
	f.Wait()
	if len(added) != 2 || len(added2) != 1 {
		t.Fatalf("added %d then %d, want 2 then 1", len(added), len(added2))
	}
	if n := len(f.Attachments(CardImages)); n != 3 {
		t.Fatalf("card images = %d, want 3", n)
	}
	if up.calls != 3 {
		t.Fatalf("uploader calls = %d, want 3", up.calls)
	}
}

func TestPolicyViolationsEndInError(t *testing.T) {
	up := &fakeUploader{}
	f := newLabForm(t, up, Options{})
	big := File{Name: "huge.pdf", ContentType: "application/pdf", Data: make([]byte, schema.MaxDownloadSize+1)}
	_, _ = f.AttachFiles(context.Background(), Downloads, []File{big})
	_, _ = f.AttachFiles(context.Background(), CardImages, []File{pdf("not-an-image.pdf")})
	f.Wait()

	if a := f.Attachments(Downloads)[0]; a.Status != StatusError {
		t.Fatalf("oversized file status = %s", a.Status)
	}
	if a := f.Attachments(CardImages)[0]; a.Status != StatusError {
		t.Fatalf("pdf card image status = %s", a.Status)
	}
	if up.calls != 0 {
		t.Fatalf("uploader called %d times for rejected files", up.calls)
	}
}

func TestRetryFailedAttachment(t *testing.T) {
	calls := 0
	up := UploaderFunc(func(ctx context.Context, req UploadRequest) (Uploaded, error) {
		calls++
		if calls == 1 {
			return Uploaded{}, errors.New("timeout")
		}
		return Uploaded{URL: "https://cdn.test/x.pdf", Key: "labs/x.pdf"}, nil
	})
	f := newLabForm(t, up, Options{})
	added, _ := f.AttachFiles(context.Background(), Downloads, []File{pdf("x.pdf")})
	f.Wait()
	if a := f.Attachments(Downloads)[0]; a.Status != StatusError {
		t.Fatalf("first attempt status = %s", a.Status)
	}
	if err := f.UploadAttachment(context.Background(), Downloads, added[0].ID); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if a := f.Attachments(Downloads)[0]; a.Status != StatusCompleted || a.URL == "" {
		t.Fatalf("retry result = %+v", a)
	}
}

func TestBlockWhileUploading(t *testing.T) {
	up := &fakeUploader{release: make(chan struct{})}
	f := newLabForm(t, up, Options{BlockWhileUploading: true})
	fillRequired(t, f)
	_, _ = f.AttachFiles(context.Background(), Downloads, []File{pdf("slow.pdf")})

	if _, err := f.BuildSubmissionPayload(); !errors.Is(err, ErrUploadsInFlight) {
		t.Fatalf("err = %v, want ErrUploadsInFlight", err)
	}
	close(up.release)
	f.Wait()
	p, err := f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("after uploads: %v", err)
	}
	if len(p.Files) != 1 {
		t.Fatalf("files = %v", p.Files)
	}
}

func TestLateUploadExcludedWithoutBlocking(t *testing.T) {
	up := &fakeUploader{release: make(chan struct{})}
	f := newLabForm(t, up, Options{})
	fillRequired(t, f)
	_, _ = f.AttachFiles(context.Background(), Downloads, []File{pdf("slow.pdf")})

	p, err := f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload: %v", err)
	}
	if len(p.Files) != 0 {
		t.Fatalf("in-flight upload leaked into payload: %v", p.Files)
	}
	close(up.release)
	f.Wait()
}

func TestBuildSubmissionPayloadValidation(t *testing.T) {
	f := newLabForm(t, nil, Options{})
	_ = f.SetFields(map[string]string{schema.FieldTitle: "t", schema.FieldDescription: "d", schema.FieldClassLevel: "восьмой"})
	_, err := f.BuildSubmissionPayload()
	ve, ok := schema.AsValidationError(err)
	if !ok || !ve.Has(schema.FieldClassLevel, "integer") {
		t.Fatalf("err = %v, want class_level integer violation", err)
	}

	_ = f.SetField(schema.FieldClassLevel, "")
	_, err = f.BuildSubmissionPayload()
	if ve, ok = schema.AsValidationError(err); !ok || !ve.Has(schema.FieldClassLevel, "required") {
		t.Fatalf("err = %v, want class_level required violation", err)
	}

	if err := f.SetField("price", "10"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field err = %v", err)
	}
}

func TestTheoryTruncatedOnSubmit(t *testing.T) {
	f := newLabForm(t, nil, Options{})
	fillRequired(t, f)
	_ = f.SetField(schema.FieldTheory, strings.Repeat("т", 51000))
	p, err := f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload: %v", err)
	}
	if n := len([]rune(*p.Theory)); n != 50000 {
		t.Fatalf("theory runes = %d, want 50000", n)
	}
}

func TestRehydrateKeepsExistingAttachments(t *testing.T) {
	img := "https://cdn.test/labs/old.png"
	level := 9
	desc := "описание"
	row := schema.Payload{
		Kind:          schema.KindLab,
		Title:         "Фотосинтез",
		Description:   &desc,
		ClassLevel:    &level,
		ImageURL:      &img,
		ExternalLinks: []string{"https://a.kz"},
		Files:         []string{"https://cdn.test/labs/a.pdf", "https://cdn.test/labs/b.pdf"},
	}
	id := uuid.New()
	f, err := Rehydrate(row, nil, Options{EntityID: &id})
	if err != nil {
		t.Fatalf("Rehydrate: %v", err)
	}
	st := f.State()
	if st.Values[schema.FieldClassLevel] != "9" || len(st.CardImages) != 1 || len(st.Files) != 2 {
		t.Fatalf("state = %+v", st)
	}
	if !st.Files[0].Existing || st.Files[0].Status != StatusCompleted || st.Files[0].Name != "a.pdf" {
		t.Fatalf("pseudo attachment = %+v", st.Files[0])
	}

	p, err := f.BuildSubmissionPayload()
	if err != nil {
		t.Fatalf("BuildSubmissionPayload: %v", err)
	}
	if *p.ImageURL != img || len(p.Files) != 2 || p.Files[1] != row.Files[1] || len(p.ExternalLinks) != 1 {
		t.Fatalf("resubmit changed payload: %+v", p)
	}
	if len(f.SessionUploads()) != 0 {
		t.Fatalf("rehydrated attachments must not count as session uploads")
	}
}

func TestRemoveAttachmentDuringUpload(t *testing.T) {
	up := &fakeUploader{release: make(chan struct{})}
	f := newLabForm(t, up, Options{})
	added, _ := f.AttachFiles(context.Background(), Downloads, []File{pdf("slow.pdf")})
	if err := f.RemoveAttachment(Downloads, added[0].ID); err != nil {
		t.Fatalf("RemoveAttachment: %v", err)
	}
	close(up.release)
	f.Wait()
	if n := len(f.Attachments(Downloads)); n != 0 {
		t.Fatalf("removed record came back: %d", n)
	}
	if n := len(f.SessionUploads()); n != 1 {
		t.Fatalf("session uploads = %d, want 1 so the object can be cleaned", n)
	}
}

func TestRegistrySweep(t *testing.T) {
	r := NewRegistry(time.Minute)
	owner := uuid.New()
	f := newLabForm(t, nil, Options{Owner: owner})
	r.Put(f)

	if _, ok := r.Get(f.ID, uuid.New()); ok {
		t.Fatalf("form visible to another user")
	}
	if _, ok := r.Get(f.ID, owner); !ok {
		t.Fatalf("form not found for owner")
	}
	if swept := r.Sweep(); len(swept) != 0 {
		t.Fatalf("fresh form swept")
	}
	r.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if swept := r.Sweep(); len(swept) != 1 || r.Len() != 0 {
		t.Fatalf("stale form not swept: %d left", r.Len())
	}
}

func TestForgetSessionUploads(t *testing.T) {
	f := newLabForm(t, &fakeUploader{}, Options{})
	f.AttachFiles(context.Background(), Downloads, []File{pdf("a.pdf"), pdf("fail.pdf")})
	f.Wait()
	if keys := f.CompletedKeys(); len(keys) != 1 || keys[0] != "labs/a.pdf" {
		t.Fatalf("CompletedKeys = %v", keys)
	}

	f.ForgetSessionUploads()
	if n := len(f.SessionUploads()); n != 0 {
		t.Fatalf("session uploads left: %d", n)
	}
	left := f.Attachments(Downloads)
	if len(left) != 1 || left[0].Status != StatusError {
		t.Fatalf("only the failed record should remain, got %+v", left)
	}
}

func TestClosedFormStartsNoUploads(t *testing.T) {
	up := &fakeUploader{}
	f := newLabForm(t, up, Options{})
	ctx := context.Background()
	failed, err := f.AttachFiles(ctx, Downloads, []File{pdf("fail.pdf")})
	if err != nil {
		t.Fatalf("AttachFiles: %v", err)
	}
	f.Wait()

	f.Close()
	f.Wait()
	if _, err := f.AttachFiles(ctx, Downloads, []File{pdf("late.pdf")}); !errors.Is(err, ErrClosed) {
		t.Fatalf("AttachFiles after Close = %v", err)
	}
	if err := f.UploadAttachment(ctx, Downloads, failed[0].ID); !errors.Is(err, ErrClosed) {
		t.Fatalf("retry after Close = %v", err)
	}
	if n := len(f.Attachments(Downloads)); n != 1 {
		t.Fatalf("attachments = %d", n)
	}
	if up.calls != 1 {
		t.Fatalf("uploader calls = %d", up.calls)
	}
}

func TestAttachRacingClose(t *testing.T) {
	up := &fakeUploader{}
	f := newLabForm(t, up, Options{})
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _ = f.AttachFiles(ctx, Downloads, []File{pdf(fmt.Sprintf("f%d.pdf", i))})
		}(i)
	}
	f.Close()
	f.Wait()
	stored := len(f.SessionUploads())
	wg.Wait()

	// Nothing may finish after Close+Wait returned.
	f.Wait()
	if got := len(f.SessionUploads()); got != stored {
		t.Fatalf("uploads after Wait: %d, had %d", got, stored)
	}
}
