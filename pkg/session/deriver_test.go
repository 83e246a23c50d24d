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

package session

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(millis int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(millis) }
}

func TestDeriverResolve(t *testing.T) {
	meta := []byte(`{"artistName":"DJ Test","email":"a@b.com"}`)

	testCases := []struct {
		name       string
		parentKey  string
		folderName string
		metadata   []byte
		wantKind   Kind
		wantKey    string
		wantErr    error
	}{
		{
			name:      "parent key wins over everything",
			parentKey: "DJ_Test-1700000000000",
			// folderName and metadata must be ignored on continuation.
			folderName: "X",
			metadata:   meta,
			wantKind:   KindContinuation,
			wantKey:    "DJ_Test-1700000000000",
		},
		{
			name:       "fresh folder name",
			folderName: "X",
			metadata:   meta,
			wantKind:   KindFresh,
			wantKey:    "X",
		},
		{
			name:     "derived from metadata",
			metadata: meta,
			wantKind: KindFresh,
			wantKey:  "DJ_Test-1700000000000",
		},
		{
			name:    "nothing supplied",
			wantErr: ErrMissingCorrelation,
		},
		{
			name:     "unparseable metadata",
			metadata: []byte("not json"),
			wantErr:  ErrMissingCorrelation,
		},
		{
			name:     "metadata without artist",
			metadata: []byte(`{"email":"a@b.com"}`),
			wantErr:  ErrMissingCorrelation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := NewDeriverWithClock(fixedClock(1700000000000))
			got, err := d.Resolve(tc.parentKey, tc.folderName, tc.metadata)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Resolve() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got.Kind != tc.wantKind {
				t.Errorf("Resolve() kind = %v, want %v", got.Kind, tc.wantKind)
			}
			if got.FolderKey != tc.wantKey {
				t.Errorf("Resolve() key = %q, want %q", got.FolderKey, tc.wantKey)
			}
			if got.PublicID != got.FolderKey {
				t.Errorf("Resolve() public id = %q, want the folder key %q", got.PublicID, got.FolderKey)
			}
		})
	}
}

func TestDeriverResolveDeterministic(t *testing.T) {
	d := NewDeriverWithClock(fixedClock(1700000000000))
	meta := []byte(`{"artistName":"DJ Test"}`)

	first, err := d.Resolve("", "X", meta)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	second, err := d.Resolve("", "X", meta)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if first != second {
		t.Errorf("Resolve() not deterministic: %+v vs %+v", first, second)
	}
	if first.FolderKey != "X" {
		t.Errorf("Resolve() key = %q, want %q", first.FolderKey, "X")
	}
}

func TestDeriverEmptyParentFallsThrough(t *testing.T) {
	d := NewDeriverWithClock(fixedClock(42))

	got, err := d.Resolve("", "fresh-folder", nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !got.Establishing() {
		t.Error("empty parentFolderId must count as absent, not as a continuation key")
	}
	if got.FolderKey != "fresh-folder" {
		t.Errorf("Resolve() key = %q, want %q", got.FolderKey, "fresh-folder")
	}
}

func TestSanitizeIdentity(t *testing.T) {
	testCases := []struct {
		in   string
		want string
	}{
		{"DJ Test", "DJ_Test"},
		{"dj-test!", "dj_test_"},
		{"Plain123", "Plain123"},
		{"a.b/c", "a_b_c"},
	}
	for _, tc := range testCases {
		if got := sanitizeIdentity(tc.in); got != tc.want {
			t.Errorf("sanitizeIdentity(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
