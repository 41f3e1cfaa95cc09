package handlers

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"

	"github.com/Brownie44l1/agro-api/internal/model"
)

// FormField is the multipart field that carries the image.
const FormField = "image"

type upload struct {
	filename    string
	contentType string
	data        []byte
}

func (u *upload) reader() io.Reader {
	return bytes.NewReader(u.data)
}

// dataURI lets a page echo the submitted image back without storing it.
func (u *upload) dataURI() template.URL {
	return template.URL("data:" + u.contentType + ";base64," + base64.StdEncoding.EncodeToString(u.data))
}

// readUpload reads the image field of a multipart form. Only JPEG and PNG
// content is accepted.
func (h *Handler) readUpload(w http.ResponseWriter, r *http.Request) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: failed to parse form", errBadInput)
	}

	file, header, err := r.FormFile(FormField)
	if err != nil {
		return nil, fmt.Errorf("%w: no image file provided, use %q as the form field name", errBadInput, FormField)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}

	contentType := http.DetectContentType(data)
	if contentType != "image/jpeg" && contentType != "image/png" {
		return nil, fmt.Errorf("%w: got %s", model.ErrInvalidImage, contentType)
	}

	return &upload{
		filename:    header.Filename,
		contentType: contentType,
		data:        data,
	}, nil
}
