package documents

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"voyara/utils"
)

const (
	maxUploadSize = 15 << 20 // 15 MiB
	docsSubdir    = "docs"
)

var (
	errInvalidExtension = errors.New("file type not allowed")
	errFileTooLarge     = errors.New("file exceeds the size limit")

	allowedExtensions = map[string]bool{
		".pdf":  true,
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".doc":  true,
		".docx": true,
		".txt":  true,
	}
	allowedMIMEs = map[string]bool{
		"application/pdf":    true,
		"image/jpeg":         true,
		"image/png":          true,
		"image/webp":         true,
		"application/msword": true,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
		"text/plain": true,
	}
)

// BlobStore holds document bytes under slash-separated relative keys.
// Metadata stays in Mongo either way; only the bytes move when the
// backing store changes.
type BlobStore interface {
	Save(key string, src io.Reader) (int64, error)
	Open(key string) (io.ReadCloser, error)
	Remove(key string) error
}

var store BlobStore = &DiskStore{}

// DiskStore is the local-disk BlobStore. An empty Root resolves to the
// static directory at call time, after .env has been loaded.
type DiskStore struct {
	Root string
}

func (s *DiskStore) root() string {
	if s.Root != "" {
		return s.Root
	}
	return utils.StaticDir()
}

func (s *DiskStore) path(key string) string {
	return filepath.Join(s.root(), filepath.Clean("/"+key))
}

func (s *DiskStore) Save(key string, src io.Reader) (int64, error) {
	full := s.path(key)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir for %s: %w", key, err)
	}
	out, err := os.Create(full)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", key, err)
	}
	defer out.Close()

	n, err := io.Copy(out, src)
	if err != nil {
		return n, fmt.Errorf("write %s: %w", key, err)
	}
	return n, nil
}

func (s *DiskStore) Open(key string) (io.ReadCloser, error) {
	return os.Open(s.path(key))
}

func (s *DiskStore) Remove(key string) error {
	return os.Remove(s.path(key))
}

func isImageExt(ext string) bool {
	switch ext {
	case ".jpg", ".jpeg", ".png", ".webp":
		return true
	}
	return false
}

// saveUpload validates one multipart file and hands its bytes to the
// blob store. Content type is sniffed from the first bytes, not trusted
// from the form. Returns the storage key.
func saveUpload(file multipart.File, header *multipart.FileHeader) (key, contentType string, size int64, err error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", "", 0, fmt.Errorf("%w: %s", errInvalidExtension, ext)
	}
	if header.Size > maxUploadSize {
		return "", "", 0, errFileTooLarge
	}

	head := make([]byte, 512)
	n, err := file.Read(head)
	if err != nil && err != io.EOF {
		return "", "", 0, fmt.Errorf("read header: %w", err)
	}
	contentType = http.DetectContentType(head[:n])
	// sniffing cannot tell office formats apart; fall back to the form
	if contentType == "application/octet-stream" || contentType == "application/zip" {
		if ct := header.Header.Get("Content-Type"); ct != "" {
			contentType = ct
		}
	}
	if base, _, ok := strings.Cut(contentType, ";"); ok {
		contentType = base
	}
	if !allowedMIMEs[contentType] {
		return "", "", 0, fmt.Errorf("%w: %s", errInvalidExtension, contentType)
	}

	key = path.Join(docsSubdir, uuid.New().String()+ext)
	body := io.MultiReader(bytes.NewReader(head[:n]), io.LimitReader(file, maxUploadSize))
	size, err = store.Save(key, body)
	if err != nil {
		return "", "", 0, err
	}
	if size > maxUploadSize {
		_ = store.Remove(key)
		return "", "", 0, errFileTooLarge
	}

	return key, contentType, size, nil
}

func removeBlob(key string) {
	if key == "" {
		return
	}
	if err := store.Remove(key); err != nil && !os.IsNotExist(err) {
		log.Printf("[Documents] remove %s: %v", key, err)
	}
}
