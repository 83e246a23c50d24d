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
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
)

func TestFolderAliasesCreate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	aliases := &FolderAliases{
		client:   client,
		ttl:      30 * time.Minute,
		newToken: func() string { return "fixed-token" },
	}

	mock.ExpectSet("folder:fixed-token", "DJ_Test-1700000000000", 30*time.Minute).SetVal("OK")

	token, err := aliases.Create(context.Background(), "DJ_Test-1700000000000")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if token != "fixed-token" {
		t.Errorf("Create() token = %q, want %q", token, "fixed-token")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}

func TestFolderAliasesLookup(t *testing.T) {
	testCases := []struct {
		name    string
		token   string
		mocker  func(mock redismock.ClientMock)
		want    string
		wantErr error
	}{
		{
			name:  "known token",
			token: "fixed-token",
			mocker: func(mock redismock.ClientMock) {
				mock.ExpectGet("folder:fixed-token").SetVal("DJ_Test-1700000000000")
			},
			want: "DJ_Test-1700000000000",
		},
		{
			name:  "expired token",
			token: "gone",
			mocker: func(mock redismock.ClientMock) {
				mock.ExpectGet("folder:gone").SetErr(redis.Nil)
			},
			wantErr: ErrUnknownFolderToken,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, mock := redismock.NewClientMock()
			aliases := &FolderAliases{client: client, ttl: 30 * time.Minute, newToken: func() string { return "x" }}
			tc.mocker(mock)

			got, err := aliases.Lookup(context.Background(), tc.token)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Lookup() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Lookup() error = %v", err)
			}
			if got != tc.want {
				t.Errorf("Lookup() = %q, want %q", got, tc.want)
			}
			if err := mock.ExpectationsWereMet(); err != nil {
				t.Errorf("there were unfulfilled expectations: %s", err)
			}
		})
	}
}

func TestResolverWithAliases(t *testing.T) {
	client, mock := redismock.NewClientMock()
	aliases := &FolderAliases{
		client:   client,
		ttl:      30 * time.Minute,
		newToken: func() string { return "public-token" },
	}
	resolver := NewResolver(NewDeriverWithClock(fixedClock(1700000000000)), aliases)

	mock.ExpectSet("folder:public-token", "DJ_Test-1700000000000", 30*time.Minute).SetVal("OK")

	fresh, err := resolver.Resolve(context.Background(), "", "", []byte(`{"artistName":"DJ Test"}`))
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if fresh.PublicID != "public-token" {
		t.Errorf("fresh public id = %q, want the alias token", fresh.PublicID)
	}
	if fresh.FolderKey != "DJ_Test-1700000000000" {
		t.Errorf("fresh folder key = %q, want the derived key", fresh.FolderKey)
	}

	mock.ExpectGet("folder:public-token").SetVal("DJ_Test-1700000000000")

	cont, err := resolver.Resolve(context.Background(), "public-token", "", nil)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cont.Establishing() {
		t.Error("continuation resolved as establishing")
	}
	if cont.FolderKey != "DJ_Test-1700000000000" {
		t.Errorf("continuation folder key = %q, want the stored key", cont.FolderKey)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("there were unfulfilled expectations: %s", err)
	}
}
