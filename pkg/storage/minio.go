// Copyright 2025 The freshwax Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/freshwax/submit/pkg/fxlog"
)

// Options binds an S3-compatible backend (MinIO, R2, S3). Endpoint,
// AccessKey, SecretKey and Bucket are all required.
type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioStore is the ObjectStore adapter for S3-compatible backends. The
// client handle is stateless configuration and safe for concurrent use.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore validates the binding and constructs the adapter. It fails
// here, at process start, rather than letting callers discover a missing
// credential mid-upload. The bucket is created if it does not exist yet.
func NewMinioStore(ctx context.Context, opts Options) (*MinioStore, error) {
	if opts.Endpoint == "" || opts.AccessKey == "" || opts.SecretKey == "" || opts.Bucket == "" {
		return nil, fmt.Errorf("incomplete object store configuration: endpoint, access key, secret key and bucket are all required")
	}

	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object store client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check if bucket '%s' exists: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket '%s': %w", opts.Bucket, err)
		}
		fxlog.Infof("Created bucket: %s", opts.Bucket)
	}

	return &MinioStore{client: client, bucket: opts.Bucket}, nil
}

// Put uploads one object under the given key.
func (s *MinioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (PutResult, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return PutResult{}, err
	}
	return PutResult{Key: info.Key, Size: info.Size, Location: info.Location}, nil
}

// List streams every object in the bucket. The minio client pages through
// the backend listing internally, so the channel covers the whole bucket.
func (s *MinioStore) List(ctx context.Context) <-chan ObjectInfo {
	out := make(chan ObjectInfo)
	go func() {
		defer close(out)
		for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Recursive: true}) {
			if obj.Err != nil {
				out <- ObjectInfo{Err: obj.Err}
				return
			}
			out <- ObjectInfo{Key: obj.Key, Size: obj.Size}
		}
	}()
	return out
}

// PresignedGetURL generates a temporary, presigned URL for downloading a
// stored object.
func (s *MinioStore) PresignedGetURL(ctx context.Context, key string, expires time.Duration) (*url.URL, error) {
	return s.client.PresignedGetObject(ctx, s.bucket, key, expires, nil)
}

var _ ObjectStore = (*MinioStore)(nil)
