package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// AddComment handles POST /api/posts/:id/comments
// @Summary Comment on a post
// @Tags comments
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{text=string} true "Comment"
// @Success 303 {object} models.Comment
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/comments [post]
func (s *Server) AddComment(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var form validation.CommentForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.AddComment(c.UserContext(), service.AddCommentInput{
		PostID:   postID,
		AuthorID: userID,
		Form:     form,
	})
	if err != nil {
		return s.respondFormError(c, err, form)
	}

	return seeOther(c, postPath(postID), comment)
}
