package handler

import (
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

// multipartSlack covers the multipart framing around the file part.
const multipartSlack = 64 << 10

// uploadTypes maps sniffed content types to the stored file extension.
var uploadTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// UploadHandler stores profile photos and proof documents on local disk.
// Files are served back under /uploads.
type UploadHandler struct {
	Dir      string
	MaxBytes int64
	Log      logrus.FieldLogger
}

// Upload accepts a multipart "file" part.  Oversized or unsupported files
// are rejected with 400 before anything is written.
func (h *UploadHandler) Upload(c echo.Context) error {
	req := c.Request()
	req.Body = http.MaxBytesReader(c.Response(), req.Body, h.MaxBytes+multipartSlack)

	fh, err := c.FormFile("file")
	if req.MultipartForm != nil {
		defer req.MultipartForm.RemoveAll()
	}
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return badRequest(c, "file exceeds size limit")
		}
		return badRequest(c, "file is required")
	}
	if fh.Size > h.MaxBytes {
		return badRequest(c, "file exceeds size limit")
	}

	src, err := fh.Open()
	if err != nil {
		return badRequest(c, "unreadable file")
	}
	defer src.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) {
		return badRequest(c, "unreadable file")
	}
	ext, ok := uploadTypes[http.DetectContentType(head[:n])]
	if !ok {
		return badRequest(c, "only jpeg, png, gif, webp or pdf files are accepted")
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return fail(c, h.Log, err)
	}

	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		return fail(c, h.Log, err)
	}
	name := uuid.NewString() + ext
	dst, err := os.OpenFile(filepath.Join(h.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fail(c, h.Log, err)
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		_ = os.Remove(dst.Name())
		return fail(c, h.Log, err)
	}
	if err := dst.Close(); err != nil {
		_ = os.Remove(dst.Name())
		return fail(c, h.Log, err)
	}

	uid, _ := getUserID(c)
	h.Log.WithFields(logrus.Fields{"user_id": uid, "file": name, "bytes": fh.Size}).Info("upload stored")
	return c.JSON(http.StatusCreated, echo.Map{"url": "/uploads/" + name})
}
