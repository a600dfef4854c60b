package routes

import (
	"github.com/gofiber/fiber/v2"

	"teralib-backend/controllers"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Link resolution (cache-first; refresh bypasses freshness)
	api.Get("/media/link", controllers.GetDownloadLink)
	api.Post("/media/link/refresh", controllers.RefreshDownloadLink)

	// Proxy descriptors (operator-editable fallback chain)
	api.Post("/proxy", controllers.CreateProxy)
	api.Get("/proxies", controllers.GetProxies)
	api.Get("/proxy/:id", controllers.GetProxy)
	api.Put("/proxy/:id", controllers.UpdateProxy)
	api.Delete("/proxy/:id", controllers.DeleteProxy)

	// Media library
	api.Post("/media", controllers.CreateMedia)
	api.Get("/media", controllers.GetMedia)
	api.Get("/media/:id", controllers.GetMediaItem)
	api.Put("/media/:id", controllers.UpdateMedia)
	api.Put("/media/:id/tags", controllers.SetMediaTags)
	api.Delete("/media/:id", controllers.DeleteMedia)

	// Tags / categories
	api.Post("/tag", controllers.CreateTag)
	api.Get("/tags", controllers.GetTags)
	api.Delete("/tag/:id", controllers.DeleteTag)
	api.Post("/category", controllers.CreateCategory)
	api.Get("/categories", controllers.GetCategories)
	api.Delete("/category/:id", controllers.DeleteCategory)
}
