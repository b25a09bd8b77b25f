package wmsapi

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"wmsconsole/internal/models"
)

// importField is the multipart part name every bulk upload endpoint reads
const importField = "file"

// encodeMultipart writes the non-empty text fields and the optional file part
func encodeMultipart(fields []models.FormField, upload *models.Upload) (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", fmt.Errorf("failed to write field %s: %w", f.Name, err)
		}
	}

	if upload != nil && upload.Content != nil {
		part, err := w.CreateFormFile(upload.FieldName, upload.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("failed to create file part: %w", err)
		}
		if _, err := io.Copy(part, upload.Content); err != nil {
			return nil, "", fmt.Errorf("failed to copy file %s: %w", upload.Filename, err)
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return buf, w.FormDataContentType(), nil
}

func (c *Client) multipartRequest(method, path, token string, fields []models.FormField, upload *models.Upload) (request, error) {
	body, contentType, err := encodeMultipart(fields, upload)
	if err != nil {
		return request{}, &TransportError{Method: method, Path: path, Err: err}
	}
	return request{method: method, path: path, token: token, body: body, contentType: contentType}, nil
}

// bulkImport posts a CSV file to one of the upload endpoints
func (c *Client) bulkImport(ctx context.Context, path, token string, file *models.Upload) (*models.ImportSummary, error) {
	if file == nil || file.Content == nil {
		return nil, &TransportError{Method: http.MethodPost, Path: path, Err: errors.New("no file to upload")}
	}
	upload := *file
	upload.FieldName = importField
	r, err := c.multipartRequest(http.MethodPost, path, token, nil, &upload)
	if err != nil {
		return nil, err
	}
	var summary models.ImportSummary
	if err := c.do(ctx, r, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}
