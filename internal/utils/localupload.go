package utils

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	UploadBasePath = "./uploads"
	coversDir      = "covers"
	othersDir      = "others"
)

// NewLocalStorage creates the upload directories under baseDir.
func NewLocalStorage(baseDir string) (*Storage, error) {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, coversDir), filepath.Join(baseDir, othersDir)} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return &Storage{baseDir: baseDir}, nil
}

func (s *Storage) uploadToLocal(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %v", err)
	}
	defer src.Close()

	folder := othersDir
	if strings.HasPrefix(file.Header.Get("Content-Type"), "image/") {
		folder = coversDir
	}

	filename := fmt.Sprintf("%s-%s%s",
		time.Now().Format("20060102-150405"),
		uuid.New().String()[:8],
		filepath.Ext(file.Filename),
	)
	relative := filepath.Join(folder, filename)

	dst, err := os.Create(filepath.Join(s.baseDir, relative))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %v", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save file: %v", err)
	}

	return "/uploads/" + filepath.ToSlash(relative), nil
}

func (s *Storage) deleteFromLocal(url string) error {
	relative := strings.TrimPrefix(url, "/uploads/")

	baseAbs, err := filepath.Abs(s.baseDir)
	if err != nil {
		return fmt.Errorf("invalid base path: %v", err)
	}
	absPath, err := filepath.Abs(filepath.Join(s.baseDir, relative))
	if err != nil {
		return fmt.Errorf("invalid file path: %v", err)
	}
	if !strings.HasPrefix(absPath, baseAbs+string(filepath.Separator)) {
		return fmt.Errorf("file path outside uploads directory")
	}

	if err := os.Remove(absPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("file not found: %s", url)
		}
		return fmt.Errorf("failed to delete file: %v", err)
	}
	return nil
}
