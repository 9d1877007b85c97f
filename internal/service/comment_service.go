package service

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

// CommentService adds comments to posts.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	validator   *validation.Validator
}

type AddCommentInput struct {
	PostID   uint
	AuthorID uint
	Form     validation.CommentForm
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	validator *validation.Validator,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		validator:   validator,
	}
}

// AddComment stores a comment on an existing post.
func (s *CommentService) AddComment(ctx context.Context, in AddCommentInput) (*models.Comment, error) {
	if in.AuthorID == 0 {
		return nil, models.NewUnauthorizedError("Authentication required")
	}

	if _, err := s.postRepo.GetByID(ctx, in.PostID); err != nil {
		return nil, err
	}

	comment, err := s.validator.ValidateComment(in.Form)
	if err != nil {
		return nil, err
	}

	postID, authorID := in.PostID, in.AuthorID
	comment.PostID = &postID
	comment.AuthorID = &authorID
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	observability.ContentCreated.WithLabelValues("comment").Inc()

	return comment, nil
}
