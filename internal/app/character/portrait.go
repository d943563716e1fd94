package character

import (
	"path/filepath"
	"strings"
	"time"

	"hvchat/internal/pkg/errs"
)

const (
	// MaxPortraitSizeMB is the maximum allowed portrait size in megabytes.
	MaxPortraitSizeMB = 2

	// MaxPortraitSize is the maximum allowed portrait size in bytes.
	MaxPortraitSize = MaxPortraitSizeMB * 1024 * 1024

	// PresignedURLDuration is the duration for which a portrait upload or
	// download URL stays valid.
	PresignedURLDuration = 5 * time.Minute
)

// AllowedMIMETypes defines the set of permitted MIME types for portraits.
var AllowedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/webp": {},
	"image/gif":  {},
}

// ExtToMIME maps file extensions to their corresponding MIME types.
var ExtToMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

// ValidatePortraitSize checks if the provided file size is within acceptable limits.
func ValidatePortraitSize(fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if fileSize > MaxPortraitSize {
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}

// ValidatePortraitType checks if the provided file name and MIME type are
// allowed and consistent with each other.
func ValidatePortraitType(fileName string, mimeType string) *errs.CustomError {
	lowerMimeType := strings.ToLower(mimeType)

	if _, ok := AllowedMIMETypes[lowerMimeType]; !ok {
		return errs.NewError(errs.ErrInvalidParams)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	if ext == "" || len(ext) < 2 {
		return errs.NewError(errs.ErrInvalidParams)
	}

	expectedMIME, ok := ExtToMIME[ext]
	if !ok {
		return errs.NewError(errs.ErrInvalidParams)
	}

	if expectedMIME != lowerMimeType {
		return errs.NewError(errs.ErrInvalidParams)
	}

	return nil
}
