package utils

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/google/uuid"
)

func NewS3Storage(bucket, region, cloudFrontURL string) (*Storage, error) {
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}

	return &Storage{
		s3Client:      s3.New(sess),
		s3Bucket:      bucket,
		s3Region:      region,
		cloudFrontURL: strings.TrimSuffix(cloudFrontURL, "/"),
	}, nil
}

func (s *Storage) uploadToS3(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	key := fmt.Sprintf("covers/%s/%s%s",
		time.Now().Format("2006/01"),
		uuid.New().String(),
		filepath.Ext(file.Filename),
	)

	_, err = s.s3Client.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		Body:        src,
		ContentType: aws.String(file.Header.Get("Content-Type")),
		ACL:         aws.String("public-read"),
	})
	if err != nil {
		return "", err
	}

	return s.publicURL(key), nil
}

func (s *Storage) publicURL(key string) string {
	if s.cloudFrontURL != "" {
		return s.cloudFrontURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.s3Bucket, s.s3Region, key)
}

func (s *Storage) deleteFromS3(url string) error {
	key := s.keyFromURL(url)
	if key == "" {
		return fmt.Errorf("url %q does not belong to bucket %s", url, s.s3Bucket)
	}

	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Bucket),
		Key:    aws.String(key),
	})
	return err
}

// keyFromURL reverses publicURL.
func (s *Storage) keyFromURL(url string) string {
	prefixes := []string{
		fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", s.s3Bucket, s.s3Region),
	}
	if s.cloudFrontURL != "" {
		prefixes = append(prefixes, s.cloudFrontURL+"/")
	}
	for _, p := range prefixes {
		if strings.HasPrefix(url, p) {
			return strings.TrimPrefix(url, p)
		}
	}
	return ""
}
