package controllers

import (
	"errors"

	"teralib-backend/middlewares"
	"teralib-backend/services"

	"github.com/gofiber/fiber/v2"
)

var resolution *services.Resolution

// UseResolution injects the resolution service; called once from main before
// routes are registered.
func UseResolution(svc *services.Resolution) {
	resolution = svc
}

type linkQuery struct {
	URL string `query:"url" validate:"required"`
}

// GetDownloadLink serves GET /api/media/link?url=<share url>. Fresh cache
// entries answer without touching any proxy.
func GetDownloadLink(c *fiber.Ctx) error {
	var q linkQuery
	if err := middlewares.BindQueryAndValidate(c, &q); err != nil {
		return err
	}

	res, err := resolution.GetDownloadLink(c.UserContext(), q.URL)
	if err != nil {
		return linkError(err)
	}
	return c.JSON(res)
}

type refreshInput struct {
	URL string `json:"url" validate:"required,url"`
}

// RefreshDownloadLink serves POST /api/media/link/refresh for callers that
// explicitly distrust the cached link.
func RefreshDownloadLink(c *fiber.Ctx) error {
	var in refreshInput
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	res, err := resolution.ForceRefresh(c.UserContext(), in.URL)
	if err != nil {
		return linkError(err)
	}
	return c.JSON(res)
}

// linkError maps service failures onto HTTP statuses. The exhaustion message
// is deliberately uniform; per-proxy reasons live in the logs only.
func linkError(err error) error {
	switch {
	case errors.Is(err, services.ErrInvalidSourceURL):
		return fiber.NewError(fiber.StatusBadRequest, "invalid source url")
	case errors.Is(err, services.ErrNoLink):
		return fiber.NewError(fiber.StatusNotFound, "could not obtain a download link")
	default:
		return err
	}
}
