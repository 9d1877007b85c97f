package server

import (
	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
)

// Follow handles POST /api/profile/:username/follow
// @Summary Follow an author
// @Description Following twice is not an error. Users cannot follow themselves.
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 303 {object} object{following=bool,author=models.User}
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/follow [post]
func (s *Server) Follow(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	author, err := s.followService.Follow(c.UserContext(), userID, c.Params("username"))
	if err != nil {
		return s.respondError(c, err)
	}

	return seeOther(c, profilePath(author.Username), fiber.Map{
		"following": true,
		"author":    author,
	})
}

// Unfollow handles POST /api/profile/:username/unfollow
// @Summary Stop following an author
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 303 {object} object{following=bool,author=models.User}
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username}/unfollow [post]
func (s *Server) Unfollow(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	author, err := s.followService.Unfollow(c.UserContext(), userID, c.Params("username"))
	if err != nil {
		return s.respondError(c, err)
	}

	return seeOther(c, profilePath(author.Username), fiber.Map{
		"following": false,
		"author":    author,
	})
}
