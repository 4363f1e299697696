package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"staffdir/internal/model"
	"staffdir/internal/service"
	"staffdir/internal/upload"
)

// UserHandler bundles HTTP handlers for the staff roster.
type UserHandler struct {
	svc      service.UserService
	photoURL func(name string) string
	logger   *slog.Logger
}

// NewUserHandler creates a handler layer. photoURL turns a stored photo
// name into the URL persisted on the user row.
func NewUserHandler(svc service.UserService, photoURL func(name string) string, logger *slog.Logger) *UserHandler {
	return &UserHandler{svc: svc, photoURL: photoURL, logger: logger}
}

// CreateUserRequest is the form of a new staff member.
type CreateUserRequest struct {
	Name     string `json:"name" form:"name"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
	Role     string `json:"role" form:"role"`
}

// UpdateUserRequest carries the optional fields of a partial update.
// Empty values count as absent.
type UpdateUserRequest struct {
	Name  string `json:"name" form:"name"`
	Email string `json:"email" form:"email" validate:"omitempty,email"`
	Role  string `json:"role" form:"role"`
}

func (r UpdateUserRequest) patch() model.UserPatch {
	var p model.UserPatch
	if r.Name != "" {
		p.Name = &r.Name
	}
	if r.Email != "" {
		p.Email = &r.Email
	}
	if r.Role != "" {
		p.Role = &r.Role
	}
	return p
}

// ListUsers godoc
// @Summary List staff members
// @Description Returns every user row, or a message object when the roster is empty.
// @Tags users
// @Produce json
// @Success 200 {array} model.User
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return failure(c, h.logger, "list users", err)
	}
	if len(users) == 0 {
		return c.JSON(http.StatusOK, MessageResponse{Message: "No users found"})
	}
	return c.JSON(http.StatusOK, users)
}

// CreateUser godoc
// @Summary Create staff member
// @Description The optional photo is stored but only linked to the user through an update.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param name formData string false "Display name"
// @Param email formData string true "Email"
// @Param password formData string true "Password"
// @Param role formData string false "Role"
// @Param photo formData file false "JPEG photo, at most 300 KiB"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}

	user, err := h.svc.CreateUser(c.Request().Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return failure(c, h.logger, "create user", err)
	}

	h.logger.InfoContext(c.Request().Context(), "user created", slog.String("id", user.ID))
	return c.JSON(http.StatusOK, MessageResponse{Message: "User added successfully"})
}

// UpdateUser godoc
// @Summary Update staff member
// @Description Only the supplied fields change. Unknown ids succeed with zero affected rows.
// @Tags users
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "User ID"
// @Param name formData string false "Display name"
// @Param email formData string false "Email"
// @Param role formData string false "Role"
// @Param photo formData file false "JPEG photo, at most 300 KiB"
// @Success 200 {object} model.UpdateResult
// @Failure 400 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return badRequest("invalid request body", "INVALID_REQUEST")
	}
	if err := c.Validate(&req); err != nil {
		return badRequest(err.Error(), "VALIDATION_FAILED")
	}

	patch := req.patch()
	if name, ok := upload.StoredPhoto(c); ok {
		url := h.photoURL(name)
		patch.Photo = &url
	}

	res, err := h.svc.UpdateUser(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return failure(c, h.logger, "update user", err)
	}
	return c.JSON(http.StatusOK, res)
}

// DeleteUser godoc
// @Summary Delete staff member
// @Description Succeeds whether or not a row was removed.
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := h.svc.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return failure(c, h.logger, "delete user", err)
	}
	return c.JSON(http.StatusOK, MessageResponse{Message: "Staff member deleted successfully"})
}
