package handler

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/labstack/echo/v4"
	"github.com/shinyyama/cafe-menu/internal/service"
	"go.uber.org/zap"
)

type UploadHandler struct {
	svc service.ImageService
	log *zap.SugaredLogger
}

func NewUploadHandler(svc service.ImageService, log *zap.SugaredLogger) *UploadHandler {
	return &UploadHandler{svc: svc, log: log}
}

type UploadImageResponse struct {
	URL string `json:"url"`
}

func (h *UploadHandler) Upload(c echo.Context) error {
	path := c.FormValue("path")
	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "no file or path provided"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid multipart form"))
	}
	f, err := fh.Open()
	if err != nil {
		return writeError(c, h.log, err, "failed to upload image")
	}
	defer f.Close()

	body, contentType, err := detectContentType(f, fh.Header.Get(echo.HeaderContentType), fh.Filename)
	if err != nil {
		return writeError(c, h.log, err, "failed to upload image")
	}

	url, err := h.svc.Upload(c.Request().Context(), service.UploadImageInput{
		Path:        path,
		Filename:    fh.Filename,
		ContentType: contentType,
		Size:        fh.Size,
		Body:        body,
	})
	if err != nil {
		return writeError(c, h.log, err, "failed to upload image")
	}
	h.log.Infow("image uploaded", "url", url, "size", fh.Size, "uid", c.Get("uid"))
	return c.JSON(http.StatusOK, UploadImageResponse{URL: url})
}

// detectContentType trusts the part header unless it is missing or generic,
// in which case the extension and then the first bytes decide.
func detectContentType(r io.Reader, declared, filename string) (io.Reader, string, error) {
	if declared != "" && declared != "application/octet-stream" {
		return r, declared, nil
	}
	if byExt := mime.TypeByExtension(filepath.Ext(filename)); byExt != "" {
		return r, byExt, nil
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return nil, "", err
	}
	head = head[:n]
	return io.MultiReader(bytes.NewReader(head), r), http.DetectContentType(head), nil
}
