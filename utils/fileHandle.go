package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"portal/apperrors"

	"github.com/samber/lo"
)

// FileRule restricts what an upload field accepts.
type FileRule struct {
	Field        string
	MaxSize      int64
	ContentTypes []string
	Extensions   []string
	Message      string
}

const mb = 1 << 20

var (
	ImageRule = FileRule{
		Field:        "file",
		MaxSize:      5 * mb,
		ContentTypes: []string{"image/jpeg", "image/png", "image/gif"},
		Extensions:   []string{".jpg", ".jpeg", ".png", ".gif"},
		Message:      "Only JPEG, PNG and GIF images are allowed",
	}
	DocumentRule = FileRule{
		Field:   "file",
		MaxSize: 10 * mb,
		ContentTypes: []string{
			"application/pdf",
			"application/msword",
			"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		},
		Extensions: []string{".pdf", ".doc", ".docx"},
		Message:    "Only PDF, DOC and DOCX files are allowed",
	}
	// AttachmentRule covers documents attached to applications, which may
	// also be scanned images.
	AttachmentRule = FileRule{
		Field:        "file",
		MaxSize:      10 * mb,
		ContentTypes: append(append([]string{}, DocumentRule.ContentTypes...), "image/jpeg", "image/png"),
		Extensions:   []string{".pdf", ".doc", ".docx", ".jpg", ".jpeg", ".png"},
		Message:      "Images and documents only!",
	}
	CSVRule = FileRule{
		Field:        "file",
		MaxSize:      5 * mb,
		ContentTypes: []string{"text/csv", "text/plain", "application/csv", "application/vnd.ms-excel"},
		Extensions:   []string{".csv"},
		Message:      "Only CSV files are allowed",
	}
)

// For returns a copy of the rule reading the given form field.
func (r FileRule) For(field string) FileRule {
	r.Field = field
	return r
}

// UploadedFile is a validated upload held in memory.
type UploadedFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReadUploadedFile checks the file against rule and reads its content.
func ReadUploadedFile(file *multipart.FileHeader, rule FileRule) (*UploadedFile, error) {
	if file == nil {
		return nil, apperrors.Validation("No file uploaded", map[string]string{rule.Field: "file is required"})
	}
	if file.Size > rule.MaxSize {
		return nil, apperrors.Validation("File too large", map[string]string{
			rule.Field: fmt.Sprintf("file must be at most %d MB", rule.MaxSize/mb),
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !lo.Contains(rule.Extensions, ext) {
		return nil, apperrors.Validation(rule.Message, map[string]string{rule.Field: "unsupported file type"})
	}

	src, err := file.Open()
	if err != nil {
		return nil, apperrors.Internal("open uploaded file", err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, rule.MaxSize+1))
	if err != nil {
		return nil, apperrors.Internal("read uploaded file", err)
	}
	if int64(len(data)) > rule.MaxSize {
		return nil, apperrors.Validation("File too large", map[string]string{
			rule.Field: fmt.Sprintf("file must be at most %d MB", rule.MaxSize/mb),
		})
	}

	contentType := strings.TrimSpace(strings.Split(file.Header.Get("Content-Type"), ";")[0])
	if !lo.Contains(rule.ContentTypes, contentType) {
		contentType = http.DetectContentType(data)
		contentType = strings.TrimSpace(strings.Split(contentType, ";")[0])
	}
	if !lo.Contains(rule.ContentTypes, contentType) {
		return nil, apperrors.Validation(rule.Message, map[string]string{rule.Field: "unsupported file type"})
	}

	return &UploadedFile{Filename: file.Filename, ContentType: contentType, Data: data}, nil
}
