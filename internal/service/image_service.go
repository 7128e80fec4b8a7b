package service

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for uploaded files
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"inkwell/internal/config"
	"inkwell/internal/models"
	"inkwell/internal/observability"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	xdraw "golang.org/x/image/draw"
)

const (
	DefaultImageUploadDir = "images"
	ImageMaxUploadSizeMB  = 10
	ThumbnailMaxSize      = 256
	WebPQuality           = 70
)

type ImageService struct {
	uploadDir          string
	maxUploadSizeBytes int64
}

type StoredImage struct {
	Path          string `json:"filePath"`
	ThumbnailPath string `json:"thumbnailPath,omitempty"`
}

func NewImageService(cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	if cfg != nil && cfg.ImageUploadDir != "" {
		uploadDir = cfg.ImageUploadDir
	}
	return &ImageService{
		uploadDir:          uploadDir,
		maxUploadSizeBytes: ImageMaxUploadSizeMB * 1024 * 1024,
	}
}

// Store validates and persists an uploaded image under a collision-free
// name, generating a small webp thumbnail next to it. The returned paths are
// relative, suitable for storing on a post.
func (s *ImageService) Store(filename string, content []byte) (*StoredImage, error) {
	if len(content) == 0 {
		return nil, models.NewValidationError("No file provided.")
	}
	if int64(len(content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB).", ImageMaxUploadSizeMB))
	}
	if !isAllowedImageExtension(filename) {
		return nil, models.NewValidationError("Only png, jpg and jpeg files are accepted.")
	}

	decoded, _, err := image.Decode(bytes.NewReader(content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file.")
	}

	name := uuid.NewString() + "-" + sanitizeFilename(filename)
	rel := filepath.ToSlash(filepath.Join(s.uploadDir, name))
	if err := writeFile(filepath.FromSlash(rel), content); err != nil {
		return nil, models.NewInternalError(err)
	}

	stored := &StoredImage{Path: rel}

	thumb, err := encodeThumbnail(decoded)
	if err == nil {
		thumbRel := rel + ".thumb.webp"
		if writeErr := writeFile(filepath.FromSlash(thumbRel), thumb); writeErr == nil {
			stored.ThumbnailPath = thumbRel
		}
	}

	return stored, nil
}

// Clear removes a previously stored image and its thumbnail. Failures are
// reported so callers can decide whether they matter.
func (s *ImageService) Clear(path string) error {
	if path == "" {
		return nil
	}
	clean := filepath.Clean(filepath.FromSlash(path))
	if !strings.HasPrefix(clean, filepath.Clean(s.uploadDir)+string(os.PathSeparator)) {
		return fmt.Errorf("image path %q outside upload dir", path)
	}

	// Thumbnail removal never blocks: the main file is what matters.
	if err := os.Remove(clean + ".thumb.webp"); err != nil && !os.IsNotExist(err) {
		observability.ImageCleanupFailures.Inc()
	}

	if err := os.Remove(clean); err != nil && !os.IsNotExist(err) {
		observability.ImageCleanupFailures.Inc()
		return err
	}
	return nil
}

func isAllowedImageExtension(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".jpg", ".jpeg":
		return true
	default:
		return false
	}
}

// sanitizeFilename strips path separators so uploads cannot escape the
// upload directory through crafted names.
func sanitizeFilename(filename string) string {
	base := filepath.Base(filepath.FromSlash(filename))
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':':
			return '_'
		}
		return r
	}, base)
}

func encodeThumbnail(src image.Image) ([]byte, error) {
	resized := resizeToFit(src, ThumbnailMaxSize, ThumbnailMaxSize)
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, resized, &webp.Options{Quality: WebPQuality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
