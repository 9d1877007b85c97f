package server

import (
	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ClearPageCache handles POST /api/admin/cache/clear
// @Summary Clear the page cache
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} object{status=string}
// @Failure 403 {object} models.ErrorResponse
// @Router /admin/cache/clear [post]
func (s *Server) ClearPageCache(c *fiber.Ctx) error {
	if err := s.pageCache.Clear(c.UserContext()); err != nil {
		return s.respondError(c, err)
	}

	userID, _ := middleware.CurrentUserID(c)
	middleware.LoggerFromContext(c.UserContext()).Info("page cache cleared", zap.Uint("admin_id", userID))
	return c.JSON(fiber.Map{"status": "cleared"})
}
