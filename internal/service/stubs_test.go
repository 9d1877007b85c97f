package service

import (
	"context"
	"errors"
	"io"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postRepoStub is a stub for repository.PostRepository.
type postRepoStub struct {
	createFn        func(context.Context, *models.Post) error
	getByIDFn       func(context.Context, uint) (*models.Post, error)
	listFn          func(context.Context, repository.PostFilter, int, int) ([]*models.Post, int64, error)
	countByAuthorFn func(context.Context, uint) (int64, error)
	updateFn        func(context.Context, *models.Post) error
	deleteFn        func(context.Context, uint) error
}

func (s *postRepoStub) Create(ctx context.Context, post *models.Post) error {
	return s.createFn(ctx, post)
}
func (s *postRepoStub) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	return s.getByIDFn(ctx, id)
}
func (s *postRepoStub) List(ctx context.Context, filter repository.PostFilter, limit, offset int) ([]*models.Post, int64, error) {
	return s.listFn(ctx, filter, limit, offset)
}
func (s *postRepoStub) CountByAuthor(ctx context.Context, authorID uint) (int64, error) {
	return s.countByAuthorFn(ctx, authorID)
}
func (s *postRepoStub) Update(ctx context.Context, post *models.Post) error {
	return s.updateFn(ctx, post)
}
func (s *postRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

func noopPostRepo() *postRepoStub {
	return &postRepoStub{
		createFn:  func(_ context.Context, _ *models.Post) error { return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Post, error) { return &models.Post{ID: id}, nil },
		listFn: func(_ context.Context, _ repository.PostFilter, _, _ int) ([]*models.Post, int64, error) {
			return nil, 0, nil
		},
		countByAuthorFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		updateFn:        func(_ context.Context, _ *models.Post) error { return nil },
		deleteFn:        func(_ context.Context, _ uint) error { return nil },
	}
}

// userRepoStub is a stub for repository.UserRepository.
type userRepoStub struct {
	createFn         func(context.Context, *models.User) error
	getByIDFn        func(context.Context, uint) (*models.User, error)
	getByUsernameFn  func(context.Context, string) (*models.User, error)
	findByUsernameFn func(context.Context, string) (*models.User, error)
	setAdminFn       func(context.Context, uint, bool) error
	listAdminsFn     func(context.Context) ([]models.User, error)
	deleteFn         func(context.Context, uint) error
}

func (s *userRepoStub) Create(ctx context.Context, user *models.User) error {
	return s.createFn(ctx, user)
}
func (s *userRepoStub) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}
func (s *userRepoStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}
func (s *userRepoStub) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.findByUsernameFn(ctx, username)
}
func (s *userRepoStub) SetAdmin(ctx context.Context, id uint, isAdmin bool) error {
	return s.setAdminFn(ctx, id, isAdmin)
}
func (s *userRepoStub) ListAdmins(ctx context.Context) ([]models.User, error) {
	return s.listAdminsFn(ctx)
}
func (s *userRepoStub) Delete(ctx context.Context, id uint) error {
	return s.deleteFn(ctx, id)
}

// usersByName resolves the given users by username and reports NotFound otherwise.
func usersByName(users ...*models.User) *userRepoStub {
	lookup := func(_ context.Context, name string) (*models.User, error) {
		for _, u := range users {
			if u.Username == name {
				return u, nil
			}
		}
		return nil, models.NewNotFoundError("User", name)
	}
	return &userRepoStub{
		createFn:        func(_ context.Context, _ *models.User) error { return nil },
		getByUsernameFn: lookup,
		findByUsernameFn: func(ctx context.Context, name string) (*models.User, error) {
			u, err := lookup(ctx, name)
			if err != nil {
				return nil, nil
			}
			return u, nil
		},
		getByIDFn: func(_ context.Context, id uint) (*models.User, error) {
			for _, u := range users {
				if u.ID == id {
					return u, nil
				}
			}
			return nil, models.NewNotFoundError("User", id)
		},
		setAdminFn:   func(_ context.Context, _ uint, _ bool) error { return nil },
		listAdminsFn: func(_ context.Context) ([]models.User, error) { return nil, nil },
		deleteFn:     func(_ context.Context, _ uint) error { return nil },
	}
}

// followRepoStub is a stub for repository.FollowRepository.
type followRepoStub struct {
	followFn         func(context.Context, uint, uint) (bool, error)
	unfollowFn       func(context.Context, uint, uint) (bool, error)
	existsFn         func(context.Context, uint, uint) (bool, error)
	countFollowersFn func(context.Context, uint) (int64, error)
	countFollowingFn func(context.Context, uint) (int64, error)
}

func (s *followRepoStub) Follow(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.followFn(ctx, userID, authorID)
}
func (s *followRepoStub) Unfollow(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.unfollowFn(ctx, userID, authorID)
}
func (s *followRepoStub) Exists(ctx context.Context, userID, authorID uint) (bool, error) {
	return s.existsFn(ctx, userID, authorID)
}
func (s *followRepoStub) CountFollowers(ctx context.Context, authorID uint) (int64, error) {
	return s.countFollowersFn(ctx, authorID)
}
func (s *followRepoStub) CountFollowing(ctx context.Context, userID uint) (int64, error) {
	return s.countFollowingFn(ctx, userID)
}

func noopFollowRepo() *followRepoStub {
	return &followRepoStub{
		followFn:         func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		unfollowFn:       func(_ context.Context, _, _ uint) (bool, error) { return true, nil },
		existsFn:         func(_ context.Context, _, _ uint) (bool, error) { return false, nil },
		countFollowersFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
		countFollowingFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// commentRepoStub is a stub for repository.CommentRepository.
type commentRepoStub struct {
	createFn      func(context.Context, *models.Comment) error
	listByPostFn  func(context.Context, uint) ([]*models.Comment, error)
	countByPostFn func(context.Context, uint) (int64, error)
}

func (s *commentRepoStub) Create(ctx context.Context, comment *models.Comment) error {
	return s.createFn(ctx, comment)
}
func (s *commentRepoStub) ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error) {
	return s.listByPostFn(ctx, postID)
}
func (s *commentRepoStub) CountByPost(ctx context.Context, postID uint) (int64, error) {
	return s.countByPostFn(ctx, postID)
}

func noopCommentRepo() *commentRepoStub {
	return &commentRepoStub{
		createFn:      func(_ context.Context, _ *models.Comment) error { return nil },
		listByPostFn:  func(_ context.Context, _ uint) ([]*models.Comment, error) { return []*models.Comment{}, nil },
		countByPostFn: func(_ context.Context, _ uint) (int64, error) { return 0, nil },
	}
}

// groupLookupStub satisfies validation.GroupLookup.
type groupLookupStub map[uint]bool

func (s groupLookupStub) Exists(_ context.Context, id uint) (bool, error) {
	return s[id], nil
}

// imageStoreStub is an in-memory storage.ImageStore.
type imageStoreStub struct {
	saved   map[string][]byte
	deleted []string
	saveErr error
}

func newImageStoreStub() *imageStoreStub {
	return &imageStoreStub{saved: map[string][]byte{}}
}

func (s *imageStoreStub) Save(_ context.Context, ext string, data []byte) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	ref := "posts/stub-" + string(rune('a'+len(s.saved))) + "." + ext
	s.saved[ref] = data
	return ref, nil
}

func (s *imageStoreStub) Open(_ context.Context, _ string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

func (s *imageStoreStub) Delete(_ context.Context, ref string) error {
	s.deleted = append(s.deleted, ref)
	delete(s.saved, ref)
	return nil
}

func uintPtr(v uint) *uint { return &v }

// assertAppError asserts that err is an AppError with the given code.
func assertAppError(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

// assertValidationError asserts that err is an AppError with code VALIDATION_ERROR.
func assertValidationError(t *testing.T, err error) {
	t.Helper()
	assertAppError(t, err, models.CodeValidation)
}
