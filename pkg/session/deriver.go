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
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
)

// Kind tags how a request correlates to a submission.
type Kind int

const (
	// KindContinuation carries a folder key inherited from an earlier
	// response.
	KindContinuation Kind = iota
	// KindFresh opens a new submission folder.
	KindFresh
)

// Resolution is the outcome of correlating one request to a submission
// folder. FolderKey is the storage prefix; PublicID is what the client
// echoes back on continuation requests (identical to FolderKey unless an
// alias store fronts it).
type Resolution struct {
	Kind      Kind
	FolderKey string
	PublicID  string
}

// Establishing reports whether this request opened the submission.
func (r Resolution) Establishing() bool {
	return r.Kind == KindFresh
}

// ErrMissingCorrelation means the request carried neither an inherited
// folder id, a fresh folder name, nor metadata to derive one from.
var ErrMissingCorrelation = errors.New("no folder correlation provided: expected parentFolderId, folderName or submissionData")

// Deriver computes a submission's folder key from request fields alone.
// It holds no per-session state; correlation is passed by value on every
// request, which keeps the service horizontally scalable but relies on the
// client echoing the key faithfully.
type Deriver struct {
	now func() time.Time
}

func NewDeriver() *Deriver {
	return &Deriver{now: time.Now}
}

// NewDeriverWithClock fixes the clock; for tests.
func NewDeriverWithClock(now func() time.Time) *Deriver {
	return &Deriver{now: now}
}

// Resolve picks the folder key, first match wins:
//
//  1. a non-empty parentKey is returned unchanged (continuation upload);
//  2. a non-empty folderName opens a fresh folder chosen by the caller;
//  3. metadata yields "<sanitized artist>-<unix millis>".
//
// An empty parentKey string counts as absent, not as a literal key.
// Derived keys are unique enough in practice but not guaranteed unique:
// the same artist submitting twice within one millisecond collides.
func (d *Deriver) Resolve(parentKey, folderName string, metadata []byte) (Resolution, error) {
	if parentKey != "" {
		return Resolution{Kind: KindContinuation, FolderKey: parentKey, PublicID: parentKey}, nil
	}
	if folderName != "" {
		return Resolution{Kind: KindFresh, FolderKey: folderName, PublicID: folderName}, nil
	}
	if len(metadata) > 0 {
		var doc struct {
			ArtistName string `json:"artistName"`
		}
		if err := json.Unmarshal(metadata, &doc); err != nil {
			return Resolution{}, fmt.Errorf("unparseable submissionData: %w", ErrMissingCorrelation)
		}
		if doc.ArtistName == "" {
			return Resolution{}, fmt.Errorf("submissionData has no artistName: %w", ErrMissingCorrelation)
		}
		key := sanitizeIdentity(doc.ArtistName) + "-" + strconv.FormatInt(d.now().UnixMilli(), 10)
		return Resolution{Kind: KindFresh, FolderKey: key, PublicID: key}, nil
	}
	return Resolution{}, ErrMissingCorrelation
}

// sanitizeIdentity replaces every character outside [A-Za-z0-9] with an
// underscore, so "DJ Test" becomes "DJ_Test".
func sanitizeIdentity(s string) string {
	out := []rune(s)
	for i, r := range out {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		default:
			out[i] = '_'
		}
	}
	return string(out)
}
