// Package service holds the application's business logic between the HTTP
// layer and the repositories.
package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"

	"go.opentelemetry.io/otel/attribute"
)

// PostPage is one page of a post listing.
type PostPage = models.Page[*models.Post]

// GroupFeed is a group together with one page of its posts.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	Posts PostPage      `json:"posts"`
}

// ProfileFeed is an author together with one page of their posts and the
// counters shown on a profile.
type ProfileFeed struct {
	Author         *models.User `json:"author"`
	Posts          PostPage     `json:"posts"`
	PostCount      int64        `json:"post_count"`
	FollowerCount  int64        `json:"follower_count"`
	FollowingCount int64        `json:"following_count"`
	Following      bool         `json:"following"`
}

// PostDetail is a single post with its comments, newest first.
type PostDetail struct {
	Post            *models.Post      `json:"post"`
	Comments        []*models.Comment `json:"comments"`
	AuthorPostCount int64             `json:"author_post_count"`
}

// FeedService serves the read side: listings, profiles and post detail.
type FeedService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	commentRepo repository.CommentRepository
	followRepo  repository.FollowRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	commentRepo repository.CommentRepository,
	followRepo repository.FollowRepository,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		commentRepo: commentRepo,
		followRepo:  followRepo,
	}
}

func (s *FeedService) listPage(ctx context.Context, filter repository.PostFilter, page int) (PostPage, error) {
	page = models.NormalizePageNumber(page)
	size := models.DefaultPageSize
	posts, total, err := s.postRepo.List(ctx, filter, size, models.PageOffset(page, size))
	if err != nil {
		return PostPage{}, err
	}
	return models.NewPage(posts, page, size, total), nil
}

// ListPosts returns one page of the global feed, newest first.
func (s *FeedService) ListPosts(ctx context.Context, page int) (PostPage, error) {
	return s.listPage(ctx, repository.PostFilter{}, page)
}

// ListPostsByGroup returns one page of a group's posts.
func (s *FeedService) ListPostsByGroup(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	posts, err := s.listPage(ctx, repository.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, err
	}
	return &GroupFeed{Group: group, Posts: posts}, nil
}

// ListPostsByAuthor returns one page of an author's posts with profile
// counters. viewerID is zero for anonymous viewers.
func (s *FeedService) ListPostsByAuthor(ctx context.Context, username string, page int, viewerID uint) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	posts, err := s.listPage(ctx, repository.PostFilter{AuthorID: &author.ID}, page)
	if err != nil {
		return nil, err
	}

	followers, err := s.followRepo.CountFollowers(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	following, err := s.followRepo.CountFollowing(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	feed := &ProfileFeed{
		Author:         author,
		Posts:          posts,
		PostCount:      posts.Total,
		FollowerCount:  followers,
		FollowingCount: following,
	}
	if viewerID != 0 && viewerID != author.ID {
		feed.Following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}
	return feed, nil
}

// GetPost returns a post with its comments and its author's post count.
func (s *FeedService) GetPost(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.commentRepo.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &PostDetail{Post: post, Comments: comments}
	if post.AuthorID != nil {
		detail.AuthorPostCount, err = s.postRepo.CountByAuthor(ctx, *post.AuthorID)
		if err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// ListFollowedFeed returns one page of posts by authors userID follows. A
// user who follows nobody gets an empty page.
func (s *FeedService) ListFollowedFeed(ctx context.Context, userID uint, page int) (posts PostPage, err error) {
	if userID == 0 {
		return PostPage{}, models.NewUnauthorizedError("Authentication required")
	}
	ctx, span := observability.StartSpan(ctx, "feed", "ListFollowedFeed",
		attribute.Int64("user.id", int64(userID)),
		attribute.Int("page", page),
	)
	defer func() { observability.EndSpan(span, err) }()

	return s.listPage(ctx, repository.PostFilter{FollowerID: &userID}, page)
}
