package validation

import (
	"errors"
	"mime/multipart"
	"path/filepath"
	"strings"
)

var (
	ErrFileSize     = errors.New("file size exceeds limit of 10MB")
	ErrFileType     = errors.New("invalid file type")
	ErrFileRequired = errors.New("no file provided")
)

const MaxUploadSize = 10 * 1024 * 1024 // 10MB

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
}

var allowedDocumentExts = map[string]bool{
	".pdf": true,
}

func ValidateImage(file *multipart.FileHeader) error {
	return validate(file, allowedImageExts)
}

// ValidateDocument covers assembly minutes uploads (PDF only).
func ValidateDocument(file *multipart.FileHeader) error {
	return validate(file, allowedDocumentExts)
}

func validate(file *multipart.FileHeader, allowed map[string]bool) error {
	if file == nil {
		return ErrFileRequired
	}

	if file.Size > MaxUploadSize {
		return ErrFileSize
	}

	ext := filepath.Ext(strings.ToLower(file.Filename))
	if !allowed[ext] {
		return ErrFileType
	}

	return nil
}
