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
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrUnknownFolderToken means a continuation request echoed a token the
// alias store has never seen or has already evicted.
var ErrUnknownFolderToken = errors.New("unknown or expired folder reference")

const (
	aliasKeyPrefix = "folder:"
	aliasTTL       = 30 * time.Minute
)

// FolderAliases is an optional, short-lived keyed lookup from an opaque
// public token to a storage folder key. It decouples the id clients echo
// from the storage path, at the cost of reintroducing shared state with
// TTL-based eviction. The service runs without it by default.
type FolderAliases struct {
	client   redis.Cmdable
	ttl      time.Duration
	newToken func() string
}

// NewFolderAliases connects to redis at addr and verifies the connection.
func NewFolderAliases(addr string) (*FolderAliases, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "",
		DB:       0,
	})
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	return &FolderAliases{client: client, ttl: aliasTTL, newToken: uuid.NewString}, nil
}

// Create mints a fresh token for folderKey and stores the mapping with a
// TTL.
func (a *FolderAliases) Create(ctx context.Context, folderKey string) (string, error) {
	token := a.newToken()
	if err := a.client.Set(ctx, aliasKeyPrefix+token, folderKey, a.ttl).Err(); err != nil {
		return "", err
	}
	return token, nil
}

// Lookup resolves a token back to its folder key.
func (a *FolderAliases) Lookup(ctx context.Context, token string) (string, error) {
	val, err := a.client.Get(ctx, aliasKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrUnknownFolderToken
	}
	if err != nil {
		return "", err
	}
	return val, nil
}
