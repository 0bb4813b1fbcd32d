package handler

import (
	"net/http"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"useraccounts/internal/auth"
	"useraccounts/internal/errors"
	"useraccounts/internal/logger"
	"useraccounts/internal/model"
	"useraccounts/internal/service"
)

// UserHandler bundles HTTP handlers.
type UserHandler struct {
	svc service.UserService
	log *logger.Logger
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService, log *logger.Logger) *UserHandler {
	return &UserHandler{svc: svc, log: log}
}

// EmailRequest selects users by exact email.
type EmailRequest struct {
	Email string `json:"email" validate:"required"`
}

// UserNameRequest selects users by exact user name.
type UserNameRequest struct {
	UserName string `json:"user_name" validate:"required"`
}

// CreateUserRequest represents a signup request.
type CreateUserRequest struct {
	Name          *string `json:"name"`
	UserName      string  `json:"user_name" validate:"required"`
	Email         string  `json:"email" validate:"required,email"`
	Password      string  `json:"password" validate:"required"`
	ProfilePhoto  *string `json:"profile_photo"`
	Bio           *string `json:"bio"`
	Address       *string `json:"address"`
	Qualification *string `json:"qualification"`
	Skills        *string `json:"skills"`
	Gender        *string `json:"gender"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserRequest sets the listed fields on the user with the given email.
type UpdateUserRequest struct {
	Email  string         `json:"email" validate:"required"`
	Update map[string]any `json:"update" validate:"required"`
}

// DeleteUserRequest deletes the user with the given email.
type DeleteUserRequest struct {
	Email string `json:"email" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

// UpdateUserResponse wraps the updated record.
type UpdateUserResponse struct {
	Message string      `json:"message"`
	Data    *model.User `json:"data"`
}

// DeletedUser identifies a deleted record.
type DeletedUser struct {
	ID uuid.UUID `json:"id"`
}

// DeleteUserResponse confirms a deletion.
type DeleteUserResponse struct {
	Message string      `json:"message"`
	Data    DeletedUser `json:"data"`
}

// GetByEmail godoc
// @Summary Get users by email
// @Tags users
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Email"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/email [post]
func (h *UserHandler) GetByEmail(c echo.Context) error {
	var req EmailRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	users, err := h.svc.GetByEmail(c.Request().Context(), req.Email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetByUserName godoc
// @Summary Get users by user name
// @Tags users
// @Accept json
// @Produce json
// @Param request body UserNameRequest true "User name"
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/user_name [post]
func (h *UserHandler) GetByUserName(c echo.Context) error {
	var req UserNameRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	users, err := h.svc.GetByUserName(c.Request().Context(), req.UserName)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Param limit query int false "Page size" default(10)
// @Param page query int false "Page number" default(1)
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.List(c.Request().Context(), queryInt(c, "limit"), queryInt(c, "page"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// SearchUsers godoc
// @Summary Search users by name or user name
// @Tags users
// @Produce json
// @Param query query string true "Case-insensitive substring"
// @Param limit query int false "Page size" default(20)
// @Param page query int false "Page number" default(1)
// @Success 200 {array} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/search [get]
func (h *UserHandler) SearchUsers(c echo.Context) error {
	users, err := h.svc.Search(c.Request().Context(), c.QueryParam("query"), queryInt(c, "limit"), queryInt(c, "page"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	users, err := h.svc.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// Me godoc
// @Summary Get the user identified by the bearer token
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/me [get]
func (h *UserHandler) Me(c echo.Context) error {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Error: "invalid token", Code: "INVALID_TOKEN"})
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok || claims.Email == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{Error: "invalid token", Code: "INVALID_TOKEN"})
	}

	users, err := h.svc.GetByEmail(c.Request().Context(), claims.Email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Sign up
// @Tags users
// @Accept json
// @Produce json
// @Param request body CreateUserRequest true "Signup data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	token, user, err := h.svc.Create(c.Request().Context(), service.CreateUserInput{
		Name:          req.Name,
		UserName:      req.UserName,
		Email:         req.Email,
		Password:      req.Password,
		ProfilePhoto:  req.ProfilePhoto,
		Bio:           req.Bio,
		Address:       req.Address,
		Qualification: req.Qualification,
		Skills:        req.Skills,
		Gender:        req.Gender,
	})
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, AuthResponse{Token: token, User: user})
}

// Login godoc
// @Summary Login user
// @Tags users
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user/login [post]
func (h *UserHandler) Login(c echo.Context) error {
	var req LoginRequest
	// Not validated: empty credentials must fail exactly like wrong ones.
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body", Code: "INVALID_BODY"})
	}

	token, user, err := h.svc.Authenticate(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

// UpdateUser godoc
// @Summary Partially update a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body UpdateUserRequest true "Email and fields to set"
// @Success 201 {object} UpdateUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	user, err := h.svc.Update(c.Request().Context(), req.Email, req.Update)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, UpdateUserResponse{Message: "User updated successfully", Data: user})
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Accept json
// @Produce json
// @Param request body DeleteUserRequest true "Email"
// @Success 201 {object} DeleteUserResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /user [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	var req DeleteUserRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}

	id, err := h.svc.Delete(c.Request().Context(), req.Email)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusCreated, DeleteUserResponse{Message: "User deleted successfully", Data: DeletedUser{ID: id}})
}

func (h *UserHandler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: "invalid request body", Code: "INVALID_BODY"})
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
	}
	return nil
}

// fail maps err to its HTTP error. Internal failures are logged here with the
// wrapped cause; clients only see the generic message.
func (h *UserHandler) fail(c echo.Context, err error) error {
	httpErr := errors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		h.log.Error("request failed",
			"method", c.Request().Method,
			"path", c.Path(),
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID),
			"error", err,
		)
	}
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// queryInt returns the integer query parameter name, or 0 when it is missing
// or malformed so the service applies its default.
func queryInt(c echo.Context, name string) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return 0
	}
	return v
}
