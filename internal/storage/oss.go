package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/aliyun/aliyun-oss-go-sdk/oss"
)

// OSSStorage keeps objects in an Aliyun OSS bucket.
type OSSStorage struct {
	bucket     *oss.Bucket
	bucketName string
	endpoint   string
}

func NewOSSStorage(endpoint, accessKeyID, accessKeySecret, bucketName string) (*OSSStorage, error) {
	client, err := oss.New(endpoint, accessKeyID, accessKeySecret)
	if err != nil {
		return nil, fmt.Errorf("connect oss: %w", err)
	}
	bucket, err := client.Bucket(bucketName)
	if err != nil {
		return nil, fmt.Errorf("open bucket %s: %w", bucketName, err)
	}
	return &OSSStorage{bucket: bucket, bucketName: bucketName, endpoint: endpoint}, nil
}

func (s *OSSStorage) Save(ctx context.Context, key string, r io.Reader) error {
	return s.bucket.PutObject(key, r, oss.WithContext(ctx))
}

func (s *OSSStorage) Open(ctx context.Context, key string, offset, length int64) (io.ReadCloser, error) {
	body, err := s.bucket.GetObject(key, oss.Range(offset, offset+length-1), oss.WithContext(ctx))
	if err != nil {
		return nil, translateOSSError(err)
	}
	return body, nil
}

func (s *OSSStorage) Size(ctx context.Context, key string) (int64, error) {
	meta, err := s.bucket.GetObjectMeta(key, oss.WithContext(ctx))
	if err != nil {
		return 0, translateOSSError(err)
	}
	return strconv.ParseInt(meta.Get("Content-Length"), 10, 64)
}

func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	return translateOSSError(s.bucket.DeleteObject(key, oss.WithContext(ctx)))
}

func (s *OSSStorage) URL(key string) string {
	return fmt.Sprintf("https://%s.%s/%s", s.bucketName, s.endpoint, key)
}

func translateOSSError(err error) error {
	var svcErr oss.ServiceError
	if errors.As(err, &svcErr) && svcErr.StatusCode == http.StatusNotFound {
		return ErrObjectNotFound
	}
	return err
}
