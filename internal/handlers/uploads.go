package handlers

import (
	"io"

	"wmsconsole/internal/models"
)

// uploadCloser returns the closer of an opened form file
func uploadCloser(upload *models.Upload) (io.Closer, bool) {
	if upload == nil {
		return nil, false
	}
	closer, ok := upload.Content.(io.Closer)
	return closer, ok
}
