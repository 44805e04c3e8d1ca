// file: internals/features/content/controller/content_controller.go
package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"biolab_backend/internals/features/content/dto"
	"biolab_backend/internals/features/content/form"
	"biolab_backend/internals/features/content/repository"
	"biolab_backend/internals/features/content/schema"
	"biolab_backend/internals/features/content/service"
	helper "biolab_backend/internals/helpers"
	"biolab_backend/internals/helpers/i18n"
	"biolab_backend/internals/helpers/logger"
	authMiddleware "biolab_backend/internals/middlewares/auth"
)

/* =======================================================
   CONTROLLER
   ======================================================= */

type ContentController struct {
	Content *service.ContentService
	Log     *logger.Logger
}

func NewContentController(content *service.ContentService, log *logger.Logger) *ContentController {
	if log == nil {
		log = logger.Nop()
	}
	return &ContentController{Content: content, Log: log}
}

// kindAndID reads :kind and :id. The kind was already checked by the route gate.
func kindAndID(c *fiber.Ctx) (schema.Kind, uuid.UUID, error) {
	kind, ok := authMiddleware.KindParam(c)
	if !ok {
		return "", uuid.Nil, fiber.ErrNotFound
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return kind, uuid.Nil, fiber.ErrBadRequest
	}
	return kind, id, nil
}

// writeError maps service errors to the JSON envelope.
func writeError(c *fiber.Ctx, log *logger.Logger, kind schema.Kind, err error) error {
	lang := i18n.FromRequest(c)
	if ve, ok := schema.AsValidationError(err); ok {
		return helper.JsonValidationError(c, i18n.T(lang, i18n.ValidationFailed), ve.Messages(lang))
	}
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		if fe.Code == fiber.StatusNotFound && kind.Valid() {
			return helper.JsonError(c, fe.Code, i18n.T(lang, kind.NotFoundKey()))
		}
		if fe.Code == fiber.StatusBadRequest {
			return helper.JsonError(c, fe.Code, i18n.T(lang, i18n.RequestInvalid))
		}
		return helper.JsonError(c, fe.Code, fe.Message)
	case errors.Is(err, repository.ErrNotFound):
		return helper.JsonError(c, fiber.StatusNotFound, i18n.T(lang, kind.NotFoundKey()))
	case errors.Is(err, service.ErrUnknownKind):
		return helper.JsonError(c, fiber.StatusNotFound, "")
	case errors.Is(err, form.ErrUploadsInFlight):
		return helper.JsonError(c, fiber.StatusConflict, i18n.T(lang, i18n.FormUploadsInFlight))
	}
	log.Error("content request failed", "kind", kind, "path", c.Path(), "error", err)
	return helper.JsonError(c, fiber.StatusInternalServerError, i18n.T(lang, i18n.ContentSaveFailed))
}

/* =======================================================
   READ
   ======================================================= */

// GET /api/:kind?lang=&class_level=&search=
func (ctl *ContentController) List(c *fiber.Ctx) error {
	kind, _ := authMiddleware.KindParam(c)
	lang := i18n.FromRequest(c)
	filter, err := dto.ParseListFilter(c)
	if err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	rows, err := ctl.Content.List(c.UserContext(), kind, filter)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	return helper.JsonList(c, "ok", dto.ToContentResponses(kind, rows, lang), len(rows))
}

// GET /api/:kind/:id
func (ctl *ContentController) Get(c *fiber.Ctx) error {
	kind, id, err := kindAndID(c)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	row, err := ctl.Content.Get(c.UserContext(), kind, id)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	return helper.JsonOK(c, "ok", dto.ToContentResponse(kind, row, i18n.FromRequest(c)))
}

// GET /api/admin/:kind/:id returns the raw row with both languages.
func (ctl *ContentController) GetRaw(c *fiber.Ctx) error {
	kind, id, err := kindAndID(c)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	row, err := ctl.Content.Get(c.UserContext(), kind, id)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	return helper.JsonOK(c, "ok", row)
}

// GET /api/dashboard. Only the kinds the session may view are counted.
func (ctl *ContentController) Dashboard(c *fiber.Ctx) error {
	lang := i18n.FromRequest(c)
	stats, err := ctl.Content.Stats(c.UserContext())
	if err != nil {
		ctl.Log.Error("dashboard stats failed", "error", err)
		return helper.JsonError(c, fiber.StatusInternalServerError, i18n.T(lang, i18n.ServerError))
	}
	s := authMiddleware.SessionFrom(c)
	out := make([]dto.StatsResponse, 0, len(schema.Kinds))
	for _, k := range authMiddleware.VisibleKinds(s.Role) {
		st := stats[k]
		out = append(out, dto.StatsResponse{
			Kind:    k.Segment(),
			Title:   i18n.T(lang, k.TitleKey()),
			Total:   st.Total,
			ByClass: st.ByClass,
		})
	}
	return helper.JsonOK(c, "ok", fiber.Map{"session": s, "sections": out})
}

/* =======================================================
   WRITE (admin, JSON body)
   ======================================================= */

// POST /api/admin/:kind
func (ctl *ContentController) Create(c *fiber.Ctx) error {
	kind, _ := authMiddleware.KindParam(c)
	lang := i18n.FromRequest(c)
	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	var by *uuid.UUID
	if s := authMiddleware.SessionFrom(c); s.UserID != uuid.Nil {
		id := s.UserID
		by = &id
	}
	row, err := ctl.Content.Create(c.UserContext(), kind, req.ToPayload(kind), by, nil)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	return helper.JsonCreated(c, i18n.T(lang, i18n.ContentCreated), row)
}

// PUT /api/admin/:kind/:id
func (ctl *ContentController) Update(c *fiber.Ctx) error {
	kind, id, err := kindAndID(c)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	lang := i18n.FromRequest(c)
	var req dto.ContentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, i18n.T(lang, i18n.RequestInvalid))
	}
	row, err := ctl.Content.Update(c.UserContext(), kind, id, req.ToPayload(kind), nil)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	return helper.JsonUpdated(c, i18n.T(lang, i18n.ContentUpdated), row)
}

// DELETE /api/admin/:kind/:id
func (ctl *ContentController) Delete(c *fiber.Ctx) error {
	kind, id, err := kindAndID(c)
	if err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	if err := ctl.Content.Delete(c.UserContext(), kind, id); err != nil {
		return writeError(c, ctl.Log, kind, err)
	}
	return helper.JsonDeleted(c, i18n.T(i18n.FromRequest(c), i18n.ContentDeleted), fiber.Map{"id": id})
}
