// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package brief

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/content-engine/pkg/types"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "brief.yaml")
	content := `title: Product Launch Webinar
description: A live walkthrough of the new release.
date: 2026-09-15
audience: Engineering managers
key_messages:
  - Cut review time in half
  - Live Q&A with the team
channels:
  - linkedin
  - email
urls:
  - label: Register
    url: https://example.com/register
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Product Launch Webinar", b.Title)
	assert.Equal(t, []types.Channel{types.ChannelLinkedIn, types.ChannelEmail}, b.Channels)
	assert.Len(t, b.KeyMessages, 2)
	require.Len(t, b.URLs, 1)
	assert.Equal(t, "Register", b.URLs[0].Label)
}

func TestValidate(t *testing.T) {
	valid := Brief{
		Title:       "Launch",
		Description: "A launch event.",
		Audience:    "Developers",
		KeyMessages: []string{"msg"},
		Channels:    []types.Channel{types.ChannelWeb},
	}

	tests := []struct {
		name   string
		mutate func(*Brief)
		errMsg string
	}{
		{name: "valid", mutate: func(*Brief) {}},
		{name: "missing title", mutate: func(b *Brief) { b.Title = " " }, errMsg: "title"},
		{name: "missing description", mutate: func(b *Brief) { b.Description = "" }, errMsg: "description"},
		{name: "missing audience", mutate: func(b *Brief) { b.Audience = "" }, errMsg: "audience"},
		{name: "no key messages", mutate: func(b *Brief) { b.KeyMessages = nil }, errMsg: "key message"},
		{name: "no channels", mutate: func(b *Brief) { b.Channels = nil }, errMsg: "channel"},
		{name: "unknown channel", mutate: func(b *Brief) { b.Channels = []types.Channel{"tiktok"} }, errMsg: `unknown channel "tiktok"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := valid
			tt.mutate(&b)
			err := b.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			}
		})
	}
}

func TestParseURLs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []types.ReferenceLink
	}{
		{
			name: "label pipe url",
			text: "Register | https://example.com/reg\nDocs | https://example.com/docs",
			want: []types.ReferenceLink{
				{Label: "Register", URL: "https://example.com/reg"},
				{Label: "Docs", URL: "https://example.com/docs"},
			},
		},
		{
			name: "bare url gets default label",
			text: "https://example.com",
			want: []types.ReferenceLink{{Label: "Link", URL: "https://example.com"}},
		},
		{
			name: "blank lines and noise skipped",
			text: "\n\nnot a url\n",
			want: nil,
		},
		{
			name: "empty input",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseURLs(tt.text))
		})
	}
}
