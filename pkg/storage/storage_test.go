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
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
)

func TestMemoryStorePutRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	content := []byte("audio bytes")

	res, err := store.Put(context.Background(), "DJ_Test-1700000000000/track1.wav", bytes.NewReader(content), int64(len(content)), "audio/wav")
	if err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if res.Size != int64(len(content)) {
		t.Errorf("Put() size = %d, want %d", res.Size, len(content))
	}

	got, contentType, ok := store.Get("DJ_Test-1700000000000/track1.wav")
	if !ok {
		t.Fatal("Get() did not find the stored object")
	}
	if !bytes.Equal(got, content) {
		t.Errorf("Get() content = %q, want %q", got, content)
	}
	if contentType != "audio/wav" {
		t.Errorf("Get() contentType = %q, want %q", contentType, "audio/wav")
	}
}

func TestTotalSize(t *testing.T) {
	store := NewMemoryStore()
	for name, size := range map[string]int{"a/info.json": 500, "a/track1.wav": 1024, "b/info.json": 42} {
		if _, err := store.Put(context.Background(), name, strings.NewReader(strings.Repeat("x", size)), int64(size), ""); err != nil {
			t.Fatalf("Put(%s) error = %v", name, err)
		}
	}

	total, err := TotalSize(context.Background(), store)
	if err != nil {
		t.Fatalf("TotalSize() error = %v", err)
	}
	if want := int64(500 + 1024 + 42); total != want {
		t.Errorf("TotalSize() = %d, want %d", total, want)
	}
}

type failingLister struct{}

func (failingLister) List(ctx context.Context) <-chan ObjectInfo {
	out := make(chan ObjectInfo, 1)
	out <- ObjectInfo{Err: errors.New("backend unreachable")}
	close(out)
	return out
}

func TestTotalSizeListingError(t *testing.T) {
	if _, err := TotalSize(context.Background(), failingLister{}); err == nil {
		t.Fatal("TotalSize() expected error from failing listing, got nil")
	}
}
