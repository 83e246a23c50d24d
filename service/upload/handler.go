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

package upload

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/freshwax/submit/pkg/fxlog"
	"github.com/freshwax/submit/pkg/notify"
	"github.com/freshwax/submit/pkg/quota"
	"github.com/freshwax/submit/pkg/session"
	"github.com/freshwax/submit/pkg/storage"
)

const (
	multipartMemoryLimit = 32 << 20
	notifyTimeout        = 30 * time.Second
	presignExpiry        = 24 * time.Hour
)

// Notifier fires the per-submission emails.
type Notifier interface {
	Notify(ctx context.Context, sub *notify.Submission, folderKey string)
}

// Response is the JSON body of every upload reply.
type Response struct {
	Success  bool   `json:"success"`
	Key      string `json:"key,omitempty"`
	Size     int64  `json:"size,omitempty"`
	URL      string `json:"url,omitempty"`
	FolderID string `json:"folderId,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Handler accepts one file per request, stores it under the submission's
// folder key and triggers the notification pair when the request
// establishes a new submission.
//
// Files of one submission are expected to arrive sequentially: each
// non-first request needs the folderId returned by the previous response.
type Handler struct {
	store    storage.ObjectStore
	guard    *quota.Guard
	resolver *session.Resolver
	notifier Notifier
}

func NewHandler(store storage.ObjectStore, guard *quota.Guard, resolver *session.Resolver, notifier Notifier) *Handler {
	return &Handler{store: store, guard: guard, resolver: resolver, notifier: notifier}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	ctx := r.Context()

	if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file provided")
		return
	}
	defer file.Close()

	parentKey := r.FormValue("parentFolderId")
	folderName := r.FormValue("folderName")
	submissionData := r.FormValue("submissionData")

	res, err := h.resolver.Resolve(ctx, parentKey, folderName, []byte(submissionData))
	if err != nil {
		if errors.Is(err, session.ErrMissingCorrelation) || errors.Is(err, session.ErrUnknownFolderToken) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		fxlog.Errorf("Failed to resolve folder key: %v", err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	// Rejections happen here, before any write; siblings already stored in
	// this submission stay as they are.
	if err := h.guard.Admit(ctx, header.Size); err != nil {
		var tooLarge *quota.FileTooLargeError
		var exceeded *quota.ExceededError
		if errors.As(err, &tooLarge) || errors.As(err, &exceeded) {
			writeError(w, http.StatusRequestEntityTooLarge, err.Error())
			return
		}
		fxlog.Errorf("Admission check failed: %v", err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	key := res.FolderKey + "/" + header.Filename
	contentType := header.Header.Get("Content-Type")

	fxlog.Infof("Uploading: %s (%d bytes)", key, header.Size)

	put, err := h.store.Put(ctx, key, file, header.Size, contentType)
	if err != nil {
		fxlog.Errorf("Failed to store %s: %v", key, err)
		writeError(w, http.StatusInternalServerError, "Upload failed")
		return
	}

	if res.Establishing() && submissionData != "" {
		h.dispatchNotifications(ctx, submissionData, res.FolderKey)
	}

	resp := Response{
		Success:  true,
		Key:      put.Key,
		Size:     put.Size,
		FolderID: res.PublicID,
	}
	if u, err := h.store.PresignedGetURL(ctx, put.Key, presignExpiry); err == nil {
		resp.URL = u.String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// dispatchNotifications fires the email pair off the request path. The
// upload's result does not depend on the outcome.
func (h *Handler) dispatchNotifications(ctx context.Context, submissionData, folderKey string) {
	sub, err := notify.ParseSubmission([]byte(submissionData))
	if err != nil {
		fxlog.Errorf("Unparseable submissionData, skipping notifications: %v", err)
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		ctx, cancel := context.WithTimeout(ctx, notifyTimeout)
		defer cancel()
		h.notifier.Notify(ctx, sub, folderKey)
	}()
}

func writeJSON(w http.ResponseWriter, status int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		fxlog.Errorf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, Response{Success: false, Error: msg})
}
