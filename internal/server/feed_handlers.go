package server

import (
	"inkwell/internal/cache"
	"inkwell/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// CacheHeader reports whether a response came from the page cache.
const CacheHeader = "X-Cache"

// GetIndex handles GET /api/posts
// @Summary List all posts
// @Description Newest posts first, ten per page. Responses are cached for a short TTL.
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Success 200 {object} models.Page[models.Post]
// @Router /posts [get]
func (s *Server) GetIndex(c *fiber.Ctx) error {
	ctx := c.UserContext()
	page := parsePage(c)
	key := cache.IndexPageKey(page)
	log := middleware.LoggerFromContext(ctx)

	body, hit, err := s.pageCache.Get(ctx, key)
	if err != nil {
		log.Warn("page cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		c.Set(CacheHeader, "HIT")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
		return c.Send(body)
	}

	posts, err := s.feedService.ListPosts(ctx, page)
	if err != nil {
		return s.respondError(c, err)
	}

	body, err = c.App().Config().JSONEncoder(posts)
	if err != nil {
		return s.respondError(c, err)
	}
	if err := s.pageCache.Set(ctx, key, body, s.config.PageCacheTTL()); err != nil {
		log.Warn("page cache write failed", zap.String("key", key), zap.Error(err))
	}

	c.Set(CacheHeader, "MISS")
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// GetGroups handles GET /api/groups
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} models.Group
// @Router /groups [get]
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupService.ListGroups(c.UserContext())
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(groups)
}

// GetGroupPosts handles GET /api/groups/:slug/posts
// @Summary List posts in a group
// @Tags groups
// @Produce json
// @Param slug path string true "Group slug"
// @Param page query int false "Page number"
// @Success 200 {object} service.GroupFeed
// @Failure 404 {object} models.ErrorResponse
// @Router /groups/{slug}/posts [get]
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	feed, err := s.feedService.ListPostsByGroup(c.UserContext(), c.Params("slug"), parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(feed)
}

// GetProfile handles GET /api/profile/:username
// @Summary Show an author's profile and posts
// @Tags profile
// @Produce json
// @Param username path string true "Username"
// @Param page query int false "Page number"
// @Success 200 {object} service.ProfileFeed
// @Failure 404 {object} models.ErrorResponse
// @Router /profile/{username} [get]
func (s *Server) GetProfile(c *fiber.Ctx) error {
	viewerID, _ := middleware.CurrentUserID(c)
	feed, err := s.feedService.ListPostsByAuthor(c.UserContext(), c.Params("username"), parsePage(c), viewerID)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(feed)
}

// GetPost handles GET /api/posts/:id
// @Summary Show a post with its comments
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} service.PostDetail
// @Failure 404 {object} models.ErrorResponse
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	detail, err := s.feedService.GetPost(c.UserContext(), id)
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(detail)
}

// GetFollowFeed handles GET /api/follow
// @Summary Posts by followed authors
// @Tags follow
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Success 200 {object} models.Page[models.Post]
// @Failure 302 "Redirect to login"
// @Router /follow [get]
func (s *Server) GetFollowFeed(c *fiber.Ctx) error {
	userID, _ := middleware.CurrentUserID(c)
	posts, err := s.feedService.ListFollowedFeed(c.UserContext(), userID, parsePage(c))
	if err != nil {
		return s.respondError(c, err)
	}
	return c.JSON(posts)
}
