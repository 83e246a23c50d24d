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
	"io"
	"net/url"
	"time"
)

// ObjectInfo describes one stored object as reported by the backend
// listing. A listing failure surfaces in-band through Err and terminates
// the stream.
type ObjectInfo struct {
	Key  string
	Size int64
	Err  error
}

// PutResult reports a completed write.
type PutResult struct {
	Key      string
	Size     int64
	Location string
}

// Lister streams every object currently in the bucket, paging through
// backend pagination transparently.
type Lister interface {
	List(ctx context.Context) <-chan ObjectInfo
}

// ObjectStore is the storage capability the upload service consumes from
// whatever backend is bound at process start. One adapter is selected at
// startup; call sites never branch on the backend.
type ObjectStore interface {
	Lister

	// Put writes one object. Objects are never mutated afterwards; a
	// duplicate key overwrites (last write wins).
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (PutResult, error)

	// PresignedGetURL returns a temporary download URL for a stored object.
	PresignedGetURL(ctx context.Context, key string, expires time.Duration) (*url.URL, error)
}

// TotalSize exhausts the listing and sums object sizes. There is no cached
// counter anywhere; every call re-lists the bucket.
func TotalSize(ctx context.Context, l Lister) (int64, error) {
	var total int64
	for obj := range l.List(ctx) {
		if obj.Err != nil {
			return 0, obj.Err
		}
		total += obj.Size
	}
	return total, nil
}
