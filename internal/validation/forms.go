package validation

import (
	"context"
	"regexp"
	"strings"

	"inkwell/internal/models"
)

// Upload is a file submitted with a form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// PostForm is the input for creating or editing a post. The author is never
// part of the form.
type PostForm struct {
	Text    string  `json:"text" form:"text" validate:"required"`
	GroupID *uint   `json:"group,omitempty" form:"group"`
	Image   *Upload `json:"-" form:"-"`
}

// CommentForm is the input for adding a comment. Post and author come from
// the request.
type CommentForm struct {
	Text string `json:"text" form:"text" validate:"required"`
}

// SignupForm is the input for creating an account.
type SignupForm struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=150,username"`
	Email    string `json:"email" form:"email" validate:"required,email,max=254"`
	Password string `json:"password" form:"password" validate:"required,min=8,max=128"`
}

// LoginForm is the input for exchanging credentials for a token.
type LoginForm struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidatePost checks form and returns a post ready to persist (author not
// set) and the decoded image, if one was uploaded.
func (v *Validator) ValidatePost(ctx context.Context, form PostForm) (*models.Post, *Image, error) {
	form.Text = strings.TrimSpace(form.Text)

	errs := v.Struct(form)
	if errs == nil {
		errs = Errors{}
	}

	if form.GroupID != nil {
		ok, err := v.groupExists(ctx, *form.GroupID)
		if err != nil {
			return nil, nil, err
		}
		if !ok {
			errs["group"] = msgInvalidGroup
		}
	}

	var img *Image
	if form.Image != nil {
		decoded, msg := v.CheckImage(form.Image)
		if msg != "" {
			errs["image"] = msg
		}
		img = decoded
	}

	if len(errs) > 0 {
		return nil, nil, errs.AppError()
	}

	return &models.Post{Text: form.Text, GroupID: form.GroupID}, img, nil
}

func (v *Validator) groupExists(ctx context.Context, id uint) (bool, error) {
	if v.groups == nil {
		return false, nil
	}
	return v.groups.Exists(ctx, id)
}

// ValidateComment checks form and returns a comment ready to persist (post
// and author not set).
func (v *Validator) ValidateComment(form CommentForm) (*models.Comment, error) {
	form.Text = strings.TrimSpace(form.Text)
	if errs := v.Struct(form); errs != nil {
		return nil, errs.AppError()
	}
	return &models.Comment{Text: form.Text}, nil
}

// ValidateSignup checks a signup form and normalizes its fields.
func (v *Validator) ValidateSignup(form *SignupForm) error {
	form.Username = strings.TrimSpace(form.Username)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	if errs := v.Struct(form); errs != nil {
		return errs.AppError()
	}
	return nil
}

// ValidateLogin checks that both credentials are present.
func (v *Validator) ValidateLogin(form *LoginForm) error {
	form.Username = strings.TrimSpace(form.Username)
	if errs := v.Struct(form); errs != nil {
		return errs.AppError()
	}
	return nil
}
