// file: internals/features/content/controller/form_controller.go
package controller

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"biolab_backend/internals/constants"
	"biolab_backend/internals/features/content/dto"
	"biolab_backend/internals/features/content/form"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/features/content/service"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/i18n"
	"biolab_backend/internals/helpers/logger"
	authMiddleware "biolab_backend/internals/middlewares/auth"
)

// FormController exposes server-side drafts: the admin edit buffer with its link list and
// attachment uploads.
type FormController struct {
	Drafts   *form.Registry
	Content  *service.ContentService
	Uploader form.Uploader
	Log      *logger.Logger

	// BaseCtx outlives requests; uploads started by a request run on it.
	BaseCtx context.Context
	// BlockWhileUploading is copied into every new draft.
	BlockWhileUploading bool
}

func NewFormController(drafts *form.Registry, content *service.ContentService, up form.Uploader, base context.Context, log *logger.Logger) *FormController {
	if log == nil {
		log = logger.Nop()
	}
	if base == nil {
		base = context.Background()
	}
	return &FormController{Drafts: drafts, Content: content, Uploader: up, BaseCtx: base, Log: log}
}

func (ctl *FormController) options(c *fiber.Ctx, entity *uuid.UUID) form.Options {
	return form.Options{
		BlockWhileUploading: ctl.BlockWhileUploading,
		Owner:               authMiddleware.SessionFrom(c).UserID,
		EntityID:            entity,
	}
}

// draft loads :form for the signed-in owner.
func (ctl *FormController) draft(c *fiber.Ctx) (*form.Form, error) {
	id, err := uuid.Parse(c.Params("form"))
	if err != nil {
		return nil, helper.JsonError(c, fiber.StatusBadRequest, i18n.T(i18n.FromRequest(c), i18n.RequestInvalid))
	}
	f, ok := ctl.Drafts.Get(id, authMiddleware.SessionFrom(c).UserID)
	if !ok {
		return nil, helper.JsonError(c, fiber.StatusNotFound, i18n.T(i18n.FromRequest(c), i18n.FormNotFound))
	}
	return f, nil
}

func (ctl *FormController) formError(c *fiber.Ctx, f *form.Form, err error) error {
	lang := i18n.FromRequest(c)
	switch {
	case errors.Is(err, form.ErrLinkLimit):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, i18n.T(lang, i18n.FormLinkLimit))
	case errors.Is(err, form.ErrDuplicateLink):
		return helper.JsonError(c, fiber.StatusConflict, i18n.T(lang, i18n.FormLinkDuplicate))
	case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrUnknownList):
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	case errors.Is(err, form.ErrUnknownAttachment):
		return helper.JsonError(c, fiber.StatusNotFound, i18n.T(lang, i18n.AttachmentNotFound))
	case errors.Is(err, form.ErrClosed):
		return helper.JsonError(c, fiber.StatusNotFound, i18n.T(lang, i18n.FormNotFound))
	case errors.Is(err, form.ErrUploadInProgress):
		return helper.JsonError(c, fiber.StatusConflict, i18n.T(lang, i18n.FormUploadsInFlight))
	case errors.Is(err, form.ErrFileTooLarge):
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, i18n.T(lang, i18n.FormFileTooLarge))
	case errors.Is(err, form.ErrFileType):
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, i18n.T(lang, i18n.FormFileTypeRejected))
	}
	return writeError(c, ctl.Log, f.Kind, err)
}

/* =======================================================
   PAGES
   ======================================================= */

// GET /admin/:kind/new opens an empty draft and returns it with the field schema.
func (ctl *FormController) NewPage(c *fiber.Ctx) error {
	kind, ok := authMiddleware.KindParam(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "")
	}
	f, err := form.New(kind, ctl.Uploader, ctl.options(c, nil))
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	ctl.Drafts.Put(f)
	return helper.JsonOK(c, "ok", f.State())
}

// GET /admin/:kind/:id/edit rehydrates a draft from the persisted row.
func (ctl *FormController) EditPage(c *fiber.Ctx) error {
	kind, id, err := kindAndID(c)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	row, err := ctl.Content.Get(c.UserContext(), kind, id)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	f, err := form.Rehydrate(row.Payload(kind), ctl.Uploader, ctl.options(c, &id))
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	ctl.Drafts.Put(f)
	return helper.JsonOK(c, "ok", f.State())
}

/* =======================================================
   DRAFT API
   ======================================================= */

// POST /api/admin/:kind/forms
func (ctl *FormController) Create(c *fiber.Ctx) error {
	kind, _ := authMiddleware.KindParam(c)
	f, err := form.New(kind, ctl.Uploader, ctl.options(c, nil))
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	ctl.Drafts.Put(f)
	return helper.JsonCreated(c, "ok", f.State())
}

// GET /api/forms/:form
func (ctl *FormController) State(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	return helper.JsonOK(c, "ok", f.State())
}

// PATCH /api/forms/:form/fields
func (ctl *FormController) SetFields(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	var req dto.FieldsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(i18n.FromRequest(c), i18n.RequestInvalid))
	}
	if err := f.SetFields(req.Values); err != nil {
		return ctl.formError(c, f, err)
	}
	return helper.JsonOK(c, "ok", f.State())
}

// POST /api/forms/:form/links
func (ctl *FormController) AddLink(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	var req dto.LinkRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(i18n.FromRequest(c), i18n.RequestInvalid))
	}
	if err := f.AddExternalLink(req.URL); err != nil {
		return ctl.formError(c, f, err)
	}
	return helper.JsonOK(c, "ok", f.State())
}

// DELETE /api/forms/:form/links/:index
func (ctl *FormController) RemoveLink(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	idx, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(i18n.FromRequest(c), i18n.RequestInvalid))
	}
	f.RemoveExternalLink(idx)
	return helper.JsonOK(c, "ok", f.State())
}

// POST /api/forms/:form/attachments/:list (multipart "files"). Uploads run after the
// response; ?wait=true blocks until they finish.
func (ctl *FormController) Attach(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	lang := i18n.FromRequest(c)
	list, err := form.ParseListName(c.Params("list"))
	if err != nil {
		return ctl.formError(c, f, err)
	}
	mf, err := c.MultipartForm()
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.UploadRequired))
	}
	headers := mf.File["files"]
	if len(headers) == 0 {
		headers = mf.File["file"]
	}
	if len(headers) == 0 {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.UploadRequired))
	}
	files := make([]form.File, 0, len(headers))
	for _, fh := range headers {
		file, err := readFile(fh)
		if err != nil {
			ctl.Log.Warn("multipart read failed", "name", fh.Filename, "error", err)
			return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
		}
		files = append(files, file)
	}

	added, err := f.AttachFiles(ctl.BaseCtx, list, files)
	if err != nil {
		return ctl.formError(c, f, err)
	}
	if c.QueryBool("wait") {
		f.Wait()
	}
	return helper.JsonCreated(c, "ok", fiber.Map{"added": added, "state": f.State()})
}

// readFile loads one part into memory; the draft holds it until the upload finishes.
func readFile(fh *multipart.FileHeader) (form.File, error) {
	src, err := fh.Open()
	if err != nil {
		return form.File{}, err
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return form.File{}, err
	}
	ct := strings.TrimSpace(fh.Header.Get("Content-Type"))
	if ct == "" || ct == "application/octet-stream" {
		ct = constants.DetectContentTypeFromExt(fh.Filename)
	}
	return form.File{Name: fh.Filename, ContentType: ct, Data: data}, nil
}

func attachmentParams(c *fiber.Ctx) (form.ListName, uuid.UUID, error) {
	list, err := form.ParseListName(c.Params("list"))
	if err != nil {
		return "", uuid.Nil, err
	}
	id, err := uuid.Parse(c.Params("attachment"))
	if err != nil {
		return "", uuid.Nil, form.ErrUnknownAttachment
	}
	return list, id, nil
}

// DELETE /api/forms/:form/attachments/:list/:attachment
func (ctl *FormController) RemoveAttachment(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	list, id, err := attachmentParams(c)
	if err == nil {
		err = f.RemoveAttachment(list, id)
	}
	if err != nil {
		return ctl.formError(c, f, err)
	}
	return helper.JsonOK(c, "ok", f.State())
}

// POST /api/forms/:form/attachments/:list/:attachment/retry runs one more upload attempt.
// The attempt ends in completed or error; the error text is in the returned state.
func (ctl *FormController) Retry(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	list, id, err := attachmentParams(c)
	if err == nil {
		err = f.UploadAttachment(ctl.BaseCtx, list, id)
	}
	switch {
	case errors.Is(err, form.ErrUnknownList), errors.Is(err, form.ErrUnknownAttachment), errors.Is(err, form.ErrUploadInProgress), errors.Is(err, form.ErrClosed):
		return ctl.formError(c, f, err)
	case err != nil:
		ctl.Log.Info("retry upload failed", "form", f.ID, "attachment", id, "error", err)
	}
	return helper.JsonOK(c, "ok", f.State())
}

// POST /api/forms/:form/submit
func (ctl *FormController) Submit(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	lang := i18n.FromRequest(c)
	row, created, err := ctl.Content.Submit(c.UserContext(), f)
	if err != nil {
		return ctl.formError(c, f, err)
	}
	ctl.Drafts.Delete(f.ID)
	if created {
		return helper.JsonCreated(c, i18n.T(lang, i18n.ContentCreated), row)
	}
	return helper.JsonUpdated(c, i18n.T(lang, i18n.ContentUpdated), row)
}

// DELETE /api/forms/:form drops the draft and the objects it uploaded.
func (ctl *FormController) Discard(c *fiber.Ctx) error {
	f, err := ctl.draft(c)
	if f == nil {
		return err
	}
	ctl.Drafts.Delete(f.ID)
	ctl.Content.Discard(ctl.BaseCtx, f)
	return helper.JsonDeleted(c, "ok", fiber.Map{"id": f.ID})
}

/* =======================================================
   SCHEMA
   ======================================================= */

// GET /api/schemas/:kind
func (ctl *FormController) Schema(c *fiber.Ctx) error {
	kind, ok := authMiddleware.KindParam(c)
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "")
	}
	return helper.JsonOK(c, "ok", schema.For(kind))
}
