package server

import (
	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Description Accepts JSON or multipart (text, group, image). Redirects to the author's profile.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param text formData string true "Post text"
// @Param group formData int false "Group ID"
// @Param image formData file false "Image"
// @Success 303 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)

	form, err := parsePostForm(c)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.CreatePost(c.UserContext(), service.CreatePostInput{
		AuthorID: userID,
		Form:     form,
	})
	if err != nil {
		return s.respondFormError(c, err, postInput{Text: form.Text, Group: form.GroupID})
	}

	username := ""
	if post.Author != nil {
		username = post.Author.Username
	}
	return seeOther(c, profilePath(username), post)
}

// EditPost handles POST /api/posts/:id/edit
// @Summary Edit a post
// @Description Only the author may edit. Other users are sent to the read-only post view.
// @Tags posts
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param text formData string true "Post text"
// @Param group formData int false "Group ID"
// @Param image formData file false "Replacement image"
// @Success 303 {object} models.Post
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id}/edit [post]
func (s *Server) EditPost(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	form, err := parsePostForm(c)
	if err != nil {
		return s.respondError(c, err)
	}

	post, err := s.postService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		PostID:   postID,
		EditorID: userID,
		Form:     form,
	})
	if models.HasCode(err, models.CodeForbidden) {
		return seeOther(c, postPath(postID), models.ErrorResponse{
			Error: "Only the author can edit this post",
			Code:  models.CodeForbidden,
		})
	}
	if err != nil {
		return s.respondFormError(c, err, postInput{Text: form.Text, Group: form.GroupID})
	}

	return seeOther(c, postPath(post.ID), post)
}
