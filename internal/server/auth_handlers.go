package server

import (
	"inkwell/internal/models"
	"inkwell/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// Signup handles POST /api/auth/signup
// @Summary User signup
// @Description Register a new user account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,email=string,password=string} true "Signup request"
// @Success 201 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Router /auth/signup [post]
func (s *Server) Signup(c *fiber.Ctx) error {
	var form validation.SignupForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.userService.Register(c.UserContext(), form)
	if err != nil {
		return s.respondFormError(c, err, fiber.Map{
			"username": form.Username,
			"email":    form.Email,
		})
	}

	return c.Status(fiber.StatusCreated).JSON(result)
}

// Login handles POST /api/auth/login
// @Summary User login
// @Description Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body object{username=string,password=string} true "Login credentials"
// @Success 200 {object} service.AuthResult
// @Failure 400 {object} models.ErrorResponse
// @Failure 401 {object} models.ErrorResponse
// @Router /auth/login [post]
func (s *Server) Login(c *fiber.Ctx) error {
	var form validation.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.userService.Authenticate(c.UserContext(), form)
	if err != nil {
		return s.respondFormError(c, err, fiber.Map{"username": form.Username})
	}

	return c.JSON(result)
}

// LoginInfo handles GET /api/auth/login, the target of login redirects.
// @Summary Login hint
// @Tags auth
// @Produce json
// @Param next query string false "Path to return to after logging in"
// @Success 200 {object} object{message=string,next=string}
// @Router /auth/login [get]
func (s *Server) LoginInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "Authentication required. POST username and password to " + LoginPath,
		"next":    c.Query("next"),
	})
}
