// file: internals/features/content/route/content_route.go
package route

import (
	"github.com/gofiber/fiber/v2"

	"biolab_backend/internals/constants"
	"biolab_backend/internals/features/content/controller"
	"biolab_backend/internals/middlewares"
	authMiddleware "biolab_backend/internals/middlewares/auth"
)

type Controllers struct {
	Content *controller.ContentController
	Forms   *controller.FormController
	Storage *controller.StorageController
}

// ContentAPIRoutes mounts the JSON API. Fixed paths go first so /api/:kind does not
// swallow them.
func ContentAPIRoutes(app fiber.Router, ctl Controllers) {
	api := app.Group("/api")

	api.Get("/i18n/:lang", controller.I18nDictionary)
	api.Get("/schemas/:kind", ctl.Forms.Schema)
	api.Get("/dashboard", authMiddleware.RequireSession(), ctl.Content.Dashboard)

	adminOnly := authMiddleware.OnlyRoles("", constants.RoleAdmin)
	api.Post("/storage/upload", adminOnly, middlewares.UploadRateLimiter(), ctl.Storage.Upload)

	forms := api.Group("/forms/:form", adminOnly)
	forms.Get("/", ctl.Forms.State)
	forms.Delete("/", ctl.Forms.Discard)
	forms.Patch("/fields", ctl.Forms.SetFields)
	forms.Post("/links", ctl.Forms.AddLink)
	forms.Delete("/links/:index", ctl.Forms.RemoveLink)
	forms.Post("/attachments/:list", middlewares.UploadRateLimiter(), ctl.Forms.Attach)
	forms.Delete("/attachments/:list/:attachment", ctl.Forms.RemoveAttachment)
	forms.Post("/attachments/:list/:attachment/retry", ctl.Forms.Retry)
	forms.Post("/submit", ctl.Forms.Submit)

	admin := api.Group("/admin/:kind")
	admin.Post("/", authMiddleware.RequireContent(authMiddleware.ActionCreate), ctl.Content.Create)
	admin.Post("/forms", authMiddleware.RequireContent(authMiddleware.ActionCreate), ctl.Forms.Create)
	admin.Get("/:id", authMiddleware.RequireContent(authMiddleware.ActionUpdate), ctl.Content.GetRaw)
	admin.Put("/:id", authMiddleware.RequireContent(authMiddleware.ActionUpdate), ctl.Content.Update)
	admin.Delete("/:id", authMiddleware.RequireContent(authMiddleware.ActionDelete), ctl.Content.Delete)

	view := authMiddleware.RequireContent(authMiddleware.ActionView)
	api.Get("/:kind", view, ctl.Content.List)
	api.Get("/:kind/:id", view, ctl.Content.Get)
}

// ContentPageRoutes mounts the page endpoints, which redirect instead of failing.
func ContentPageRoutes(app fiber.Router, ctl Controllers) {
	app.Get("/admin/:kind/new", authMiddleware.AdminPage(), ctl.Forms.NewPage)
	app.Get("/admin/:kind/:id/edit", authMiddleware.AdminPage(), ctl.Forms.EditPage)
	app.Get(authMiddleware.DashboardPath, authMiddleware.SignedInPage(), ctl.Content.Dashboard)
	app.Get("/:kind", authMiddleware.ContentPage(), ctl.Content.List)
}
