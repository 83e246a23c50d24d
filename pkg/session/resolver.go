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
	"context"

	"github.com/freshwax/submit/pkg/fxlog"
)

// Resolver correlates one request to a submission folder. Without an
// alias store it is a pure pass-through to the Deriver and the service
// keeps no session state; with one, fresh folders are fronted by opaque
// tokens and continuation tokens are resolved back to storage keys.
type Resolver struct {
	deriver *Deriver
	aliases *FolderAliases
}

// NewResolver builds a resolver. aliases may be nil.
func NewResolver(deriver *Deriver, aliases *FolderAliases) *Resolver {
	return &Resolver{deriver: deriver, aliases: aliases}
}

// Resolve derives the folder key, then applies the alias store when one
// is configured. A continuation token the store does not know yields
// ErrUnknownFolderToken. If minting an alias fails, the upload proceeds
// with the raw folder key as its public id rather than failing the write.
func (r *Resolver) Resolve(ctx context.Context, parentKey, folderName string, metadata []byte) (Resolution, error) {
	res, err := r.deriver.Resolve(parentKey, folderName, metadata)
	if err != nil {
		return Resolution{}, err
	}
	if r.aliases == nil {
		return res, nil
	}

	switch res.Kind {
	case KindContinuation:
		folderKey, err := r.aliases.Lookup(ctx, res.PublicID)
		if err != nil {
			return Resolution{}, err
		}
		res.FolderKey = folderKey
	case KindFresh:
		token, err := r.aliases.Create(ctx, res.FolderKey)
		if err != nil {
			fxlog.Warnf("Failed to create folder alias, falling back to raw key: %v", err)
			break
		}
		res.PublicID = token
	}
	return res, nil
}
