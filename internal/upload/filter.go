package upload

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/labstack/echo/v4"

	apperrors "staffdir/internal/errors"
)

const (
	// FieldName is the only multipart file field accepted.
	FieldName = "photo"
	// ContextKey holds the stored photo name for the handler.
	ContextKey = "uploaded_photo"
)

var allowedTypes = map[string]bool{
	"image/jpg":  true,
	"image/jpeg": true,
}

// Filter validates and stores the optional photo attached to a multipart request.
type Filter struct {
	store    PhotoStore
	maxBytes int64
	now      func() time.Time
}

// NewFilter creates a filter accepting JPEG photos up to maxBytes.
func NewFilter(store PhotoStore, maxBytes int64) *Filter {
	return &Filter{store: store, maxBytes: maxBytes, now: time.Now}
}

// Middleware rejects bad uploads before the handler runs. Accepted files are
// written to the store and their generated name is put on the echo context.
// Requests that are not multipart pass through untouched.
func (f *Filter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
				return next(c)
			}

			form, err := c.MultipartForm()
			if errors.Is(err, echo.ErrStatusRequestEntityTooLarge) {
				return err
			}
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, apperrors.ErrorResponse{
					Error: "invalid multipart body",
					Code:  "INVALID_REQUEST",
				})
			}

			var photo *multipart.FileHeader
			for field, files := range form.File {
				if field != FieldName || len(files) > 1 {
					return rejection(apperrors.NewUploadError("Unexpected field"))
				}
				photo = files[0]
			}
			if photo == nil {
				return next(c)
			}

			name, err := f.accept(c, photo)
			if err != nil {
				return err
			}
			c.Set(ContextKey, name)
			return next(c)
		}
	}
}

func (f *Filter) accept(c echo.Context, fh *multipart.FileHeader) (string, error) {
	if !allowedTypes[strings.ToLower(fh.Header.Get(echo.HeaderContentType))] {
		return "", rejection(apperrors.NewUploadError("Photo extension only can .jpg and .jpeg"))
	}
	if fh.Size > f.maxBytes {
		return "", rejection(&apperrors.UploadError{Message: "File too large", TooLarge: true})
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	detected, err := mimetype.DetectReader(src)
	if err != nil {
		return "", fmt.Errorf("detect upload type: %w", err)
	}
	if !detected.Is("image/jpeg") {
		return "", rejection(apperrors.NewUploadError("Photo extension only can .jpg and .jpeg"))
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}

	name := f.storedName(fh.Filename)
	if err := f.store.Save(c.Request().Context(), name, src, fh.Size, "image/jpeg"); err != nil {
		return "", fmt.Errorf("store photo: %w", err)
	}
	return name, nil
}

// storedName builds "<field>-<unix millis>-<random><ext>"; the client's file name is dropped.
func (f *Filter) storedName(original string) string {
	return fmt.Sprintf("%s-%d-%d%s", FieldName, f.now().UnixMilli(), rand.IntN(1e9), filepath.Ext(original))
}

func rejection(err *apperrors.UploadError) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
}

// StoredPhoto returns the name the filter stored for this request, if any.
func StoredPhoto(c echo.Context) (string, bool) {
	name, ok := c.Get(ContextKey).(string)
	return name, ok && name != ""
}
