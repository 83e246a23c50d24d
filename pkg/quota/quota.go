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

package quota

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/freshwax/submit/pkg/fxlog"
	"github.com/freshwax/submit/pkg/storage"
)

// Default admission ceilings.
const (
	DefaultMaxFileBytes  int64 = 200 * 1024 * 1024
	DefaultMaxTotalBytes int64 = 9.5 * 1024 * 1024 * 1024
)

// FileTooLargeError rejects a single file exceeding the per-file ceiling.
type FileTooLargeError struct {
	Size  int64
	Limit int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("File too large. Maximum size is %s", humanize.IBytes(uint64(e.Limit)))
}

// ExceededError rejects a write that would push the bucket past the
// aggregate ceiling. It carries the figures for operator visibility.
type ExceededError struct {
	Current  int64
	Incoming int64
	Limit    int64
}

func (e *ExceededError) Error() string {
	return fmt.Sprintf("Storage limit reached. Used: %s / %s",
		humanize.IBytes(uint64(e.Current)), humanize.IBytes(uint64(e.Limit)))
}

// Guard answers whether N more bytes may be written.
//
// Admission is a check-then-act sequence with no cross-request locking:
// two admissions evaluated concurrently can both observe headroom and
// jointly overshoot the aggregate ceiling. The guard prevents overshoot
// under sequential use only.
type Guard struct {
	lister   storage.Lister
	maxFile  int64
	maxTotal int64
}

// NewGuard builds a guard over the given listing. Non-positive limits fall
// back to the defaults.
func NewGuard(l storage.Lister, maxFile, maxTotal int64) *Guard {
	if maxFile <= 0 {
		maxFile = DefaultMaxFileBytes
	}
	if maxTotal <= 0 {
		maxTotal = DefaultMaxTotalBytes
	}
	return &Guard{lister: l, maxFile: maxFile, maxTotal: maxTotal}
}

// Admit decides whether a candidate of n bytes may be written. The
// per-file check happens first and performs no I/O; only then is the
// bucket re-listed to compute current usage.
func (g *Guard) Admit(ctx context.Context, n int64) error {
	if n > g.maxFile {
		return &FileTooLargeError{Size: n, Limit: g.maxFile}
	}

	current, err := storage.TotalSize(ctx, g.lister)
	if err != nil {
		return fmt.Errorf("failed to compute storage usage: %w", err)
	}

	fxlog.Infof("Current storage: %s / %s",
		humanize.IBytes(uint64(current)), humanize.IBytes(uint64(g.maxTotal)))

	if current+n > g.maxTotal {
		return &ExceededError{Current: current, Incoming: n, Limit: g.maxTotal}
	}
	return nil
}
