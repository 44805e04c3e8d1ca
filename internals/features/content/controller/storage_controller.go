// file: internals/features/content/controller/storage_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/features/content/form"
	"biolab_backend/internals/features/content/schema"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/i18n"
	"biolab_backend/internals/helpers/logger"
)

// StorageController is the direct upload endpoint used outside of drafts.
type StorageController struct {
	Uploader form.Uploader
	Log      *logger.Logger
}

func NewStorageController(up form.Uploader, log *logger.Logger) *StorageController {
	if log == nil {
		log = logger.Nop()
	}
	return &StorageController{Uploader: up, Log: log}
}

// POST /api/storage/upload (multipart: file, kind, list=card_images|files)
func (ctl *StorageController) Upload(c *fiber.Ctx) error {
	lang := i18n.FromRequest(c)
	kind, err := schema.ParseKind(c.FormValue("kind"))
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	list := form.Downloads
	if raw := c.FormValue("list"); raw != "" {
		if list, err = form.ParseListName(raw); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
		}
	}
	policy := schema.For(kind).Downloads
	if list == form.CardImages {
		policy = schema.For(kind).CardImages
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.UploadRequired))
	}
	file, err := readFile(fh)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	if policy.MaxSizeBytes > 0 && file.Size() > policy.MaxSizeBytes {
		return helper.JsonError(c, fiber.StatusRequestEntityTooLarge, i18n.T(lang, i18n.FormFileTooLarge))
	}
	if !policy.Allows(file.ContentType) {
		return helper.JsonError(c, fiber.StatusUnprocessableEntity, i18n.T(lang, i18n.FormFileTypeRejected))
	}

	up, err := ctl.Uploader.Upload(c.UserContext(), form.UploadRequest{Kind: kind, List: list, File: file})
	if err != nil {
		ctl.Log.Error("direct upload failed", "kind", kind, "name", file.Name, "error", err)
		return helper.JsonError(c, fiber.StatusBadGateway, i18n.T(lang, i18n.FormUploadFailed))
	}
	return helper.JsonCreated(c, "ok", fiber.Map{"url": up.URL, "key": up.Key})
}

// GET /api/i18n/:lang
func I18nDictionary(c *fiber.Ctx) error {
	lang, ok := i18n.ParseLang(c.Params("lang"))
	if !ok {
		return helper.JsonError(c, fiber.StatusNotFound, "")
	}
	return helper.JsonOK(c, "ok", fiber.Map{"lang": lang, "messages": i18n.Dictionary(lang)})
}
