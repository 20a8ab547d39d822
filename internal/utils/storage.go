package utils

import (
	"mime/multipart"

	"github.com/aws/aws-sdk-go/service/s3"
)

// Storage stores uploaded media either on local disk or in S3.
type Storage struct {
	baseDir string

	s3Client      *s3.S3
	s3Bucket      string
	s3Region      string
	cloudFrontURL string
}

func (s *Storage) Mode() string {
	if s.s3Client == nil {
		return "local"
	}
	return "s3"
}

// BaseDir is the local upload root. It is empty in S3 mode.
func (s *Storage) BaseDir() string {
	return s.baseDir
}

func (s *Storage) Upload(file *multipart.FileHeader) (string, error) {
	if s.s3Client == nil {
		return s.uploadToLocal(file)
	}
	return s.uploadToS3(file)
}

func (s *Storage) Delete(url string) error {
	if s.s3Client == nil {
		return s.deleteFromLocal(url)
	}
	return s.deleteFromS3(url)
}
