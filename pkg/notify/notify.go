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
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"

	"github.com/freshwax/submit/pkg/fxlog"
)

// Sender delivers one email and returns the provider's message id.
type Sender interface {
	Send(ctx context.Context, from, to, subject, html string) (string, error)
}

type resendSender struct {
	client *resend.Client
}

// NewResendSender builds the Resend-backed Sender.
func NewResendSender(apiKey string) Sender {
	return &resendSender{client: resend.NewClient(apiKey)}
}

func (s *resendSender) Send(ctx context.Context, from, to, subject, html string) (string, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return "", err
	}
	return sent.Id, nil
}

// Dispatcher sends the admin notification and the artist confirmation for
// one submission. Both sends are best-effort: failures are logged and
// never propagate to the upload caller. There is no retry and no
// idempotency key; each session-establishing request gets at most one
// attempt.
type Dispatcher struct {
	sender Sender
	from   string
	admin  string
}

func NewDispatcher(sender Sender, from, admin string) *Dispatcher {
	return &Dispatcher{sender: sender, from: from, admin: admin}
}

// Notify fires both emails. A failure of either one does not stop the
// other and is not reported to the caller.
func (d *Dispatcher) Notify(ctx context.Context, sub *Submission, folderKey string) {
	d.sendAdminNotification(ctx, sub, folderKey)
	d.sendArtistConfirmation(ctx, sub, folderKey)
}

func (d *Dispatcher) sendAdminNotification(ctx context.Context, sub *Submission, folderKey string) {
	html, err := renderTemplate(adminTemplate, sub, folderKey)
	if err != nil {
		fxlog.Errorf("Failed to render admin notification: %v", err)
		return
	}
	subject := fmt.Sprintf("New Submission: %s - %s", sub.ArtistName, sub.ReleaseName)
	id, err := d.sender.Send(ctx, d.from, d.admin, subject, html)
	if err != nil {
		fxlog.Errorf("Failed to send admin notification: %v", err)
		return
	}
	fxlog.Infof("Admin notification sent: %s", id)
}

func (d *Dispatcher) sendArtistConfirmation(ctx context.Context, sub *Submission, folderKey string) {
	if sub.Email == "" {
		fxlog.Warnf("Submission from %s has no contact email, skipping confirmation", sub.ArtistName)
		return
	}
	html, err := renderTemplate(artistTemplate, sub, folderKey)
	if err != nil {
		fxlog.Errorf("Failed to render artist confirmation: %v", err)
		return
	}
	subject := fmt.Sprintf("Submission Received - %s", sub.ReleaseName)
	id, err := d.sender.Send(ctx, d.from, sub.Email, subject, html)
	if err != nil {
		fxlog.Errorf("Failed to send artist confirmation: %v", err)
		return
	}
	fxlog.Infof("Artist confirmation sent: %s", id)
}
