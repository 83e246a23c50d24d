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

package notify

import (
	"encoding/json"
	"time"
)

// Submission is the metadata document carried on the session-establishing
// upload. It is never persisted as a record by this service; it only feeds
// the notification emails.
type Submission struct {
	ArtistName      string `json:"artistName"`
	LabelName       string `json:"labelName,omitempty"`
	Email           string `json:"email"`
	ReleaseName     string `json:"releaseName"`
	TrackListing    string `json:"trackListing,omitempty"`
	BPM             string `json:"bpm,omitempty"`
	Genre           string `json:"genre"`
	CustomGenre     string `json:"customGenre,omitempty"`
	Notes           string `json:"notes,omitempty"`
	ReleaseDateType string `json:"releaseDateType"`
	ReleaseDate     string `json:"releaseDate,omitempty"`
	VinylRelease    bool   `json:"vinylRelease,omitempty"`
	VinylPrice      string `json:"vinylPrice,omitempty"`
	PricePerSale    string `json:"pricePerSale,omitempty"`
	UploadedAt      string `json:"uploadedAt,omitempty"`
}

// ParseSubmission decodes the submissionData form field and normalizes it:
// a "custom" genre is replaced by the submitter-typed one, and the receipt
// time is stamped.
func ParseSubmission(raw []byte) (*Submission, error) {
	var sub Submission
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil, err
	}
	if sub.Genre == "custom" && sub.CustomGenre != "" {
		sub.Genre = sub.CustomGenre
	}
	if sub.UploadedAt == "" {
		sub.UploadedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return &sub, nil
}

// DisplayGenre prefers the submitter-typed genre over the preset one.
func (s *Submission) DisplayGenre() string {
	if s.CustomGenre != "" {
		return s.CustomGenre
	}
	return s.Genre
}

// ReleaseDateLabel renders the release preference for humans.
func (s *Submission) ReleaseDateLabel() string {
	if s.ReleaseDateType == "asap" {
		return "As Soon As Possible"
	}
	t, err := time.Parse("2006-01-02", s.ReleaseDate)
	if err != nil {
		return s.ReleaseDate
	}
	return t.Format("Monday, 2 January 2006")
}
