package handle

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
)

// Upload limits and the formats the pipeline accepts. Checked before any
// model call; the pipeline itself never re-validates pixels.
const maxUploadBytes = 10 << 20 // 10 MiB

var allowedContentTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/bmp":  true,
	"image/webp": true,
}

var errNoImage = errors.New("no image file provided")

// validateImage applies the basic file checks: non-empty, bounded size,
// allowed content type, sane filename.
func validateImage(hdr *multipart.FileHeader) error {
	if hdr == nil || hdr.Size == 0 {
		return errNoImage
	}
	if hdr.Size > maxUploadBytes {
		return fmt.Errorf("the uploaded image is too large (max %d bytes)", int64(maxUploadBytes))
	}
	ct := strings.ToLower(strings.TrimSpace(hdr.Header.Get("Content-Type")))
	if !allowedContentTypes[ct] {
		return fmt.Errorf("invalid image format %q; supported: JPEG, PNG, GIF, BMP, WebP", ct)
	}
	name := strings.TrimSpace(filepath.Base(hdr.Filename))
	if name == "" || name == "." {
		return errors.New("invalid filename")
	}
	return nil
}
