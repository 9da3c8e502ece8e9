package handlers

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"

	"github.com/labstack/echo/v4"
)

var (
	errMissingFile   = errors.New("no file part in request")
	errEmptyFilename = errors.New("file part has an empty filename")
)

type upload struct {
	Filename string
	Data     []byte
}

// bindUpload streams the multipart body looking for a file part named key.
// A part counts as a file only when its Content-Disposition carries a
// filename parameter, so filename="" is told apart from a plain text field.
func bindUpload(c echo.Context, key string) (*upload, error) {
	reader, err := c.Request().MultipartReader()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errMissingFile, err)
	}

	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return nil, errMissingFile
		}
		if err != nil {
			return nil, fmt.Errorf("reading multipart form: %w", err)
		}

		if part.FormName() != key {
			continue
		}

		filename, isFile := partFilename(part)
		if !isFile {
			continue
		}
		if filename == "" {
			return nil, errEmptyFilename
		}

		data, err := io.ReadAll(part)
		if err != nil {
			return nil, fmt.Errorf("reading file part: %w", err)
		}

		return &upload{Filename: part.FileName(), Data: data}, nil
	}
}

func partFilename(part *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(part.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}

	filename, ok := params["filename"]

	return filename, ok
}
