package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func (s *Server) parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam converts a route param name into a human-readable label.
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	if strings.HasSuffix(param, "Id") {
		return strings.ToLower(param[:len(param)-2]) + " ID"
	}
	return param
}

// parsePage reads ?page=N. Missing, unparsable and non-positive values all
// mean the first page.
func parsePage(c *fiber.Ctx) int {
	n, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		return 1
	}
	return models.NormalizePageNumber(n)
}

// respondError writes err with the status its code maps to. Anything that is
// not an AppError is treated as internal; internal errors are logged and
// never exposed.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if !errors.As(err, &appErr) {
		appErr = models.NewInternalError(err)
	}
	if appErr.Code == models.CodeInternal {
		middleware.LoggerFromContext(c.UserContext()).Error("request failed",
			zap.String("path", c.Path()), zap.Error(err))
	}
	return models.RespondWithError(c, appErr.Status(), appErr)
}

// respondFormError is respondError for form submissions: validation failures
// carry the submitted input back so the client can redisplay the form.
func (s *Server) respondFormError(c *fiber.Ctx, err error, input any) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) && appErr.Code == models.CodeValidation {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse{
			Error:  appErr.Message,
			Code:   appErr.Code,
			Fields: appErr.Fields,
			Input:  input,
		})
	}
	return s.respondError(c, err)
}

// seeOther answers 303 with a Location header and body as JSON.
func seeOther(c *fiber.Ctx, location string, body any) error {
	c.Location(location)
	return c.Status(fiber.StatusSeeOther).JSON(body)
}

func profilePath(username string) string {
	return "/api/profile/" + username
}

func postPath(id uint) string {
	return fmt.Sprintf("/api/posts/%d", id)
}

// postInput is the echo of a submitted post form. Image bytes are never
// echoed.
type postInput struct {
	Text  string `json:"text"`
	Group *uint  `json:"group,omitempty"`
}

// isMultipart reports whether the request carries a multipart form body.
func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEMultipartForm)
}

// parsePostForm reads a post form from either a JSON body or a multipart
// form with an optional "image" file. A group value that is not a number
// becomes group 0, which the validator reports as an invalid choice.
func parsePostForm(c *fiber.Ctx) (validation.PostForm, error) {
	var form validation.PostForm

	if !isMultipart(c) {
		if err := c.BodyParser(&form); err != nil {
			return form, models.NewValidationError("Invalid request body")
		}
		return form, nil
	}

	form.Text = c.FormValue("text")
	if raw := strings.TrimSpace(c.FormValue("group")); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			id = 0
		}
		gid := uint(id)
		form.GroupID = &gid
	}

	file, err := c.FormFile("image")
	if err != nil {
		// No file part is the common case.
		return form, nil
	}
	src, err := file.Open()
	if err != nil {
		return form, models.NewValidationError("Unable to read uploaded file")
	}
	defer func() { _ = src.Close() }()

	data, err := io.ReadAll(src)
	if err != nil {
		return form, models.NewValidationError("Unable to read uploaded file")
	}
	form.Image = &validation.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}
	return form, nil
}
