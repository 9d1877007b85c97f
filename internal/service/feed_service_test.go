package service

import (
	"context"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type groupRepoStub struct {
	getBySlugFn func(context.Context, string) (*models.Group, error)
}

func (s *groupRepoStub) Create(context.Context, *models.Group) error { return nil }
func (s *groupRepoStub) GetBySlug(ctx context.Context, slug string) (*models.Group, error) {
	return s.getBySlugFn(ctx, slug)
}
func (s *groupRepoStub) Exists(context.Context, uint) (bool, error) { return true, nil }
func (s *groupRepoStub) List(context.Context) ([]models.Group, error) {
	return nil, nil
}
func (s *groupRepoStub) Delete(context.Context, string) error { return nil }

func newTestFeedService(posts *postRepoStub, follows *followRepoStub) *FeedService {
	groups := &groupRepoStub{getBySlugFn: func(_ context.Context, slug string) (*models.Group, error) {
		if slug == "cats" {
			return &models.Group{ID: 9, Slug: "cats"}, nil
		}
		return nil, models.NewNotFoundError("Group", slug)
	}}
	return NewFeedService(posts, groups, usersByName(ann, bob), noopCommentRepo(), follows)
}

func TestFeedService_ListPosts_PageMath(t *testing.T) {
	tests := []struct {
		page       int
		wantNumber int
		wantOffset int
	}{
		{page: 1, wantNumber: 1, wantOffset: 0},
		{page: 0, wantNumber: 1, wantOffset: 0},
		{page: -4, wantNumber: 1, wantOffset: 0},
		{page: 3, wantNumber: 3, wantOffset: 20},
	}
	for _, tt := range tests {
		posts := noopPostRepo()
		var gotLimit, gotOffset int
		posts.listFn = func(_ context.Context, _ repository.PostFilter, limit, offset int) ([]*models.Post, int64, error) {
			gotLimit, gotOffset = limit, offset
			return nil, 25, nil
		}
		svc := newTestFeedService(posts, noopFollowRepo())

		page, err := svc.ListPosts(context.Background(), tt.page)
		require.NoError(t, err)
		assert.Equal(t, models.DefaultPageSize, gotLimit)
		assert.Equal(t, tt.wantOffset, gotOffset)
		assert.Equal(t, tt.wantNumber, page.Number)
		assert.Equal(t, 3, page.NumPages)
		assert.NotNil(t, page.Items)
	}
}

func TestFeedService_ListPostsByGroup(t *testing.T) {
	posts := noopPostRepo()
	var filter repository.PostFilter
	posts.listFn = func(_ context.Context, f repository.PostFilter, _, _ int) ([]*models.Post, int64, error) {
		filter = f
		return nil, 0, nil
	}
	svc := newTestFeedService(posts, noopFollowRepo())

	feed, err := svc.ListPostsByGroup(context.Background(), "cats", 1)
	require.NoError(t, err)
	assert.Equal(t, "cats", feed.Group.Slug)
	require.NotNil(t, filter.GroupID)
	assert.Equal(t, uint(9), *filter.GroupID)

	_, err = svc.ListPostsByGroup(context.Background(), "dogs", 1)
	assertAppError(t, err, models.CodeNotFound)
}

func TestFeedService_ListPostsByAuthor_Following(t *testing.T) {
	posts := noopPostRepo()
	posts.listFn = func(_ context.Context, _ repository.PostFilter, _, _ int) ([]*models.Post, int64, error) {
		return nil, 4, nil
	}
	follows := noopFollowRepo()
	follows.existsFn = func(_ context.Context, userID, authorID uint) (bool, error) {
		return userID == bob.ID && authorID == ann.ID, nil
	}
	follows.countFollowersFn = func(_ context.Context, _ uint) (int64, error) { return 1, nil }
	follows.countFollowingFn = func(_ context.Context, _ uint) (int64, error) { return 0, nil }
	svc := newTestFeedService(posts, follows)
	ctx := context.Background()

	asBob, err := svc.ListPostsByAuthor(ctx, "ann", 1, bob.ID)
	require.NoError(t, err)
	assert.True(t, asBob.Following)
	assert.Equal(t, int64(4), asBob.PostCount)
	assert.Equal(t, int64(1), asBob.FollowerCount)

	anonymous, err := svc.ListPostsByAuthor(ctx, "ann", 1, 0)
	require.NoError(t, err)
	assert.False(t, anonymous.Following)

	_, err = svc.ListPostsByAuthor(ctx, "nobody", 1, 0)
	assertAppError(t, err, models.CodeNotFound)
}

func TestFeedService_GetPost(t *testing.T) {
	posts := noopPostRepo()
	posts.getByIDFn = func(_ context.Context, id uint) (*models.Post, error) {
		if id != 3 {
			return nil, models.NewNotFoundError("Post", id)
		}
		return &models.Post{ID: 3, AuthorID: uintPtr(ann.ID)}, nil
	}
	posts.countByAuthorFn = func(_ context.Context, authorID uint) (int64, error) {
		assert.Equal(t, ann.ID, authorID)
		return 12, nil
	}
	svc := newTestFeedService(posts, noopFollowRepo())

	detail, err := svc.GetPost(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(12), detail.AuthorPostCount)
	assert.NotNil(t, detail.Comments)

	_, err = svc.GetPost(context.Background(), 4)
	assertAppError(t, err, models.CodeNotFound)
}

func TestFeedService_ListFollowedFeed_RequiresUser(t *testing.T) {
	svc := newTestFeedService(noopPostRepo(), noopFollowRepo())

	_, err := svc.ListFollowedFeed(context.Background(), 0, 1)
	assertAppError(t, err, models.CodeUnauthorized)
}
