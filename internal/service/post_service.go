package service

import (
	"context"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/storage"
	"inkwell/internal/validation"

	"go.uber.org/zap"
)

// PostService creates and edits posts.
type PostService struct {
	postRepo  repository.PostRepository
	validator *validation.Validator
	images    storage.ImageStore
}

type CreatePostInput struct {
	AuthorID uint
	Form     validation.PostForm
}

type UpdatePostInput struct {
	PostID   uint
	EditorID uint
	Form     validation.PostForm
}

func NewPostService(
	postRepo repository.PostRepository,
	validator *validation.Validator,
	images storage.ImageStore,
) *PostService {
	return &PostService{
		postRepo:  postRepo,
		validator: validator,
		images:    images,
	}
}

func (s *PostService) saveImage(ctx context.Context, img *validation.Image) (string, error) {
	if img == nil {
		return "", nil
	}
	if s.images == nil {
		return "", models.NewValidationError("Image uploads are not enabled")
	}
	ref, err := s.images.Save(ctx, img.Ext(), img.Data)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return ref, nil
}

func (s *PostService) discardImage(ctx context.Context, ref string) {
	if ref == "" || s.images == nil {
		return
	}
	if err := s.images.Delete(ctx, ref); err != nil {
		middleware.LoggerFromContext(ctx).Warn("failed to delete image",
			zap.String("ref", ref), zap.Error(err))
	}
}

// CreatePost validates the form and stores a new post owned by AuthorID.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	post, img, err := s.validator.ValidatePost(ctx, in.Form)
	if err != nil {
		return nil, err
	}

	post.Image, err = s.saveImage(ctx, img)
	if err != nil {
		return nil, err
	}

	authorID := in.AuthorID
	post.AuthorID = &authorID
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.discardImage(ctx, post.Image)
		return nil, err
	}
	observability.ContentCreated.WithLabelValues("post").Inc()

	return s.postRepo.GetByID(ctx, post.ID)
}

// UpdatePost overwrites text and group. The image is replaced only when a
// new one is uploaded. Only the author may edit.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}
	if in.EditorID == 0 || !post.IsAuthoredBy(in.EditorID) {
		return nil, models.NewForbiddenError("You can only edit your own posts")
	}

	validated, img, err := s.validator.ValidatePost(ctx, in.Form)
	if err != nil {
		return nil, err
	}

	newImage, err := s.saveImage(ctx, img)
	if err != nil {
		return nil, err
	}

	oldImage := post.Image
	post.Text = validated.Text
	post.GroupID = validated.GroupID
	if newImage != "" {
		post.Image = newImage
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.discardImage(ctx, newImage)
		return nil, err
	}
	if newImage != "" {
		s.discardImage(ctx, oldImage)
	}

	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes a post, its comments and its stored image.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	post, err := s.postRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.postRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.discardImage(ctx, post.Image)
	return nil
}
