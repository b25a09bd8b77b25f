package common

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"wmsconsole/internal/models"

	"github.com/labstack/echo/v4"
)

// MaxUploadSize caps attachments and CSV imports
const MaxUploadSize = 10 << 20

// ParseID reads a positive integer path parameter
func ParseID(c echo.Context, name string) (int, error) {
	raw := c.Param(name)
	id, err := strconv.Atoi(raw)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return id, nil
}

// FormInt reads an optional integer form or query value, 0 when blank
func FormInt(c echo.Context, name string) (int, error) {
	raw := strings.TrimSpace(c.FormValue(name))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a whole number", name)
	}
	return n, nil
}

// Confirmed reports whether the destructive-action form carried confirm=yes
func Confirmed(c echo.Context) bool {
	switch strings.ToLower(c.FormValue("confirm")) {
	case "yes", "true", "on", "1":
		return true
	}
	return false
}

// FormUpload opens the multipart file of field, nil when none was chosen
// or the form was not multipart.
// The file stays readable for the rest of the request.
func FormUpload(c echo.Context, field string) (*models.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		// a urlencoded post carries no files at all
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}
	if fh.Size > MaxUploadSize {
		return nil, echo.NewHTTPError(http.StatusRequestEntityTooLarge, fmt.Sprintf("%s is larger than %d MB", fh.Filename, MaxUploadSize>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	return &models.Upload{FieldName: field, Filename: fh.Filename, Size: fh.Size, Content: f}, nil
}
