package repository

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	"inkwell/internal/models"
	"inkwell/internal/testutil"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostRepository_Create(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	authorID := uint(1)
	post := &models.Post{Text: "Test Post", AuthorID: &authorID}

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectCommit()

	err := repo.Create(ctx, post)
	assert.NoError(t, err)
	assert.Equal(t, uint(1), post.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_GetByID(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	tech := testutil.CreateGroup(t, db, "tech")
	post := testutil.CreatePost(t, db, ann, tech, "hello")

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)
	require.NotNil(t, got.Author)
	assert.Equal(t, "ann", got.Author.Username)
	require.NotNil(t, got.Group)
	assert.Equal(t, "tech", got.Group.Slug)

	_, err = repo.GetByID(ctx, 9999)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_ListOrderAndPaging(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	for i := 1; i <= 11; i++ {
		testutil.CreatePost(t, db, ann, nil, fmt.Sprintf("post %d", i))
	}

	first, total, err := repo.List(ctx, PostFilter{}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, first, 10)
	assert.Equal(t, "post 11", first[0].Text)
	assert.Equal(t, "post 2", first[9].Text)

	second, _, err := repo.List(ctx, PostFilter{}, 10, 10)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, "post 1", second[0].Text)

	beyond, total, err := repo.List(ctx, PostFilter{}, 10, 20)
	require.NoError(t, err)
	assert.Empty(t, beyond)
	assert.Equal(t, int64(11), total)
}

func TestPostRepository_ListFilters(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	bob := testutil.CreateUser(t, db, "bob")
	cat := testutil.CreateUser(t, db, "cat")
	tech := testutil.CreateGroup(t, db, "tech")

	testutil.CreatePost(t, db, ann, tech, "ann in tech")
	testutil.CreatePost(t, db, ann, nil, "ann alone")
	testutil.CreatePost(t, db, bob, tech, "bob in tech")
	testutil.CreatePost(t, db, cat, nil, "cat alone")
	require.NoError(t, db.Create(models.NewFollow(cat.ID, ann.ID)).Error)

	byGroup, total, err := repo.List(ctx, PostFilter{GroupID: &tech.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "bob in tech", byGroup[0].Text)

	byAuthor, total, err := repo.List(ctx, PostFilter{AuthorID: &ann.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "ann alone", byAuthor[0].Text)

	followed, total, err := repo.List(ctx, PostFilter{FollowerID: &cat.ID}, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	for _, p := range followed {
		assert.Equal(t, ann.ID, *p.AuthorID)
	}

	none, total, err := repo.List(ctx, PostFilter{FollowerID: &bob.ID}, 10, 0)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, none)
	assert.Empty(t, none)

	count, err := repo.CountByAuthor(ctx, ann.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestPostRepository_UpdateKeepsIdentity(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	tech := testutil.CreateGroup(t, db, "tech")
	post := testutil.CreatePost(t, db, ann, tech, "draft")

	require.NoError(t, repo.Update(ctx, &models.Post{ID: post.ID, Text: "final", Image: "posts/x.png"}))

	got, err := repo.GetByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "final", got.Text)
	assert.Nil(t, got.GroupID)
	assert.Equal(t, "posts/x.png", got.Image)
	assert.Equal(t, ann.ID, *got.AuthorID)
	assert.True(t, post.CreatedAt.Equal(got.CreatedAt))

	err = repo.Update(ctx, &models.Post{ID: 9999, Text: "x"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}

func TestPostRepository_UpdateUnchangedRowIsNotMissing(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	err := repo.Update(context.Background(), &models.Post{ID: 7, Text: "same"})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_UpdateMissingRow(t *testing.T) {
	db, mock := setupMockDB(t)
	repo := NewPostRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "posts" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "posts"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	err := repo.Update(context.Background(), &models.Post{ID: 7, Text: "same"})
	assert.True(t, models.HasCode(err, models.CodeNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostRepository_DeleteRemovesComments(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()

	ann := testutil.CreateUser(t, db, "ann")
	post := testutil.CreatePost(t, db, ann, nil, "bye")
	require.NoError(t, db.Create(&models.Comment{PostID: &post.ID, AuthorID: &ann.ID, Text: "c"}).Error)

	require.NoError(t, repo.Delete(ctx, post.ID))

	var comments int64
	db.Model(&models.Comment{}).Count(&comments)
	assert.Zero(t, comments)

	err := repo.Delete(ctx, post.ID)
	assert.True(t, models.HasCode(err, models.CodeNotFound))
}
