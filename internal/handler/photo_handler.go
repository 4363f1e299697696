package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"staffdir/internal/upload"
)

// PhotoHandler serves stored profile photos read-only.
type PhotoHandler struct {
	store  upload.PhotoStore
	logger *slog.Logger
}

func NewPhotoHandler(store upload.PhotoStore, logger *slog.Logger) *PhotoHandler {
	return &PhotoHandler{store: store, logger: logger}
}

// ServePhoto godoc
// @Summary Get profile photo
// @Tags photos
// @Produce jpeg
// @Param name path string true "Stored file name"
// @Success 200 {file} binary
// @Failure 404 {object} map[string]string
// @Router /img/{name} [get]
func (h *PhotoHandler) ServePhoto(c echo.Context) error {
	rc, err := h.store.Open(c.Request().Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, upload.ErrPhotoNotFound) {
			return echo.ErrNotFound
		}
		h.logger.ErrorContext(c.Request().Context(), "open photo failed", slog.Any("error", err))
		return echo.ErrInternalServerError
	}
	defer rc.Close()

	c.Response().Header().Set("Cache-Control", "public, max-age=86400")
	return c.Stream(http.StatusOK, "image/jpeg", rc)
}
