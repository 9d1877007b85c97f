package server

import (
	"errors"
	"path"

	"inkwell/internal/models"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
)

// GetMedia handles GET /media/* by streaming a stored post image.
func (s *Server) GetMedia(c *fiber.Ctx) error {
	ref := c.Params("*")

	rc, err := s.images.Open(c.UserContext(), ref)
	if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidRef) {
		return models.RespondWithError(c, fiber.StatusNotFound,
			models.NewNotFoundError("Image", ref))
	}
	if err != nil {
		return s.respondError(c, err)
	}

	// References are immutable: a replaced image gets a new one.
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	c.Type(path.Ext(ref))
	return c.SendStream(rc)
}
