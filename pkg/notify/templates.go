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
	"bytes"
	"html/template"
)

// Submitter-controlled fields flow into these templates; html/template
// escaping keeps them inert.

var adminTemplate = template.Must(template.New("admin").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #2563eb; color: white; padding: 20px; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 20px; border: 1px solid #e5e7eb; border-radius: 0 0 8px 8px; }
    .field { margin-bottom: 15px; }
    .label { font-weight: bold; color: #1f2937; }
    .value { color: #4b5563; margin-left: 10px; }
    .divider { border-top: 2px solid #e5e7eb; margin: 20px 0; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header"><h1 style="margin: 0;">&#127925; New Release Submission</h1></div>
    <div class="content">
      <h2>Artist Information</h2>
      <div class="field"><span class="label">Artist Name:</span><span class="value">{{.Sub.ArtistName}}</span></div>
      {{if .Sub.LabelName}}<div class="field"><span class="label">Label:</span><span class="value">{{.Sub.LabelName}}</span></div>{{end}}
      <div class="field"><span class="label">Email:</span><span class="value">{{.Sub.Email}}</span></div>
      <div class="divider"></div>
      <h2>Release Details</h2>
      <div class="field"><span class="label">Release Title:</span><span class="value">{{.Sub.ReleaseName}}</span></div>
      {{if .Sub.TrackListing}}<div class="field"><span class="label">Track Listing:</span><pre style="background: white; padding: 10px; border-radius: 4px; margin-left: 10px;">{{.Sub.TrackListing}}</pre></div>{{end}}
      <div class="field"><span class="label">Genre:</span><span class="value">{{.Sub.DisplayGenre}}</span></div>
      {{if .Sub.BPM}}<div class="field"><span class="label">BPM:</span><span class="value">{{.Sub.BPM}}</span></div>{{end}}
      <div class="divider"></div>
      <h2>Pricing</h2>
      <div class="field"><span class="label">Digital Price:</span><span class="value">&pound;{{.Sub.PricePerSale}}</span></div>
      {{if .Sub.VinylRelease}}<div class="field"><span class="label">Vinyl Release:</span><span class="value">Yes - &pound;{{.Sub.VinylPrice}}</span></div>{{end}}
      <div class="divider"></div>
      <h2>Release Date</h2>
      <div class="field"><span class="label">Preferred Release:</span><span class="value">{{.Sub.ReleaseDateLabel}}</span></div>
      {{if .Sub.Notes}}
      <div class="divider"></div>
      <h2>Additional Notes</h2>
      <div style="background: white; padding: 15px; border-radius: 4px;">{{.Sub.Notes}}</div>
      {{end}}
      <div class="divider"></div>
      <div class="field"><span class="label">Storage Folder:</span><span class="value">{{.FolderKey}}</span></div>
    </div>
  </div>
</body>
</html>
`))

var artistTemplate = template.Must(template.New("artist").Parse(`<!DOCTYPE html>
<html>
<head>
  <style>
    body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
    .container { max-width: 600px; margin: 0 auto; padding: 20px; }
    .header { background: #2563eb; color: white; padding: 30px; text-align: center; border-radius: 8px 8px 0 0; }
    .content { background: #f9fafb; padding: 30px; border: 1px solid #e5e7eb; border-radius: 0 0 8px 8px; }
    .summary { background: white; padding: 20px; border-radius: 6px; margin: 20px 0; }
    .field { margin: 10px 0; }
    .label { font-weight: bold; color: #1f2937; }
    .footer { text-align: center; margin-top: 20px; color: #6b7280; font-size: 14px; }
  </style>
</head>
<body>
  <div class="container">
    <div class="header">
      <div style="font-size: 48px; margin-bottom: 10px;">&#9989;</div>
      <h1 style="margin: 0;">Submission Received!</h1>
    </div>
    <div class="content">
      <p>Hi {{.Sub.ArtistName}},</p>
      <p>Thank you for submitting your release <strong>{{.Sub.ReleaseName}}</strong> to Fresh Wax!</p>
      <div class="summary">
        <h3 style="margin-top: 0;">Submission Summary</h3>
        <div class="field"><span class="label">Release:</span> {{.Sub.ReleaseName}}</div>
        <div class="field"><span class="label">Genre:</span> {{.Sub.DisplayGenre}}</div>
        <div class="field"><span class="label">Digital Price:</span> &pound;{{.Sub.PricePerSale}}</div>
        {{if .Sub.VinylRelease}}<div class="field"><span class="label">Vinyl Price:</span> &pound;{{.Sub.VinylPrice}}</div>{{end}}
      </div>
      <p><strong>What happens next?</strong></p>
      <ul>
        <li>We'll review your submission and uploaded files</li>
        <li>We'll contact you if we need any additional information</li>
        <li>Once approved, your release will be added to the store</li>
      </ul>
      <p>If you have any questions, feel free to reply to this email.</p>
      <div class="footer">
        <p>Good luck with your release! &#127925;</p>
        <p style="font-size: 12px; margin-top: 20px;">freshwax.co.uk - Jungle &amp; Drum and Bass</p>
      </div>
    </div>
  </div>
</body>
</html>
`))

type templateData struct {
	Sub       *Submission
	FolderKey string
}

func renderTemplate(tpl *template.Template, sub *Submission, folderKey string) (string, error) {
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, templateData{Sub: sub, FolderKey: folderKey}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
