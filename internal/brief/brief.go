// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package brief loads and validates event briefs, the user-provided
// input the pipeline turns into channel content.
package brief

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-engine/pkg/types"
)

// Brief is an event brief as read from a YAML file or CLI flags.
type Brief struct {
	// Title is the event name.
	Title string `json:"title" yaml:"title"`

	// Description says what the event is about.
	Description string `json:"description" yaml:"description"`

	// Date is the event date, free-form (optional).
	Date string `json:"date,omitempty" yaml:"date,omitempty"`

	// Audience says who the content is for.
	Audience string `json:"audience" yaml:"audience"`

	// KeyMessages are the points the content must convey (2-5 bullets).
	KeyMessages []string `json:"key_messages" yaml:"key_messages"`

	// Channels lists the target channels in the order content should be
	// produced.
	Channels []types.Channel `json:"channels" yaml:"channels"`

	// URLs are labeled reference links to weave into CTAs and bodies.
	URLs []types.ReferenceLink `json:"urls,omitempty" yaml:"urls,omitempty"`
}

// Load reads a Brief from a YAML file and validates it.
func Load(path string) (*Brief, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading brief: %w", err)
	}
	var b Brief
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing brief: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// Validate checks the brief holds everything a run needs.
func (b *Brief) Validate() error {
	if strings.TrimSpace(b.Title) == "" {
		return fmt.Errorf("brief: title is required")
	}
	if strings.TrimSpace(b.Description) == "" {
		return fmt.Errorf("brief: description is required")
	}
	if strings.TrimSpace(b.Audience) == "" {
		return fmt.Errorf("brief: audience is required")
	}
	if len(b.KeyMessages) == 0 {
		return fmt.Errorf("brief: at least one key message is required")
	}
	if len(b.Channels) == 0 {
		return fmt.Errorf("brief: at least one channel is required")
	}
	for _, ch := range b.Channels {
		if !types.ValidChannels[ch] {
			return fmt.Errorf("brief: unknown channel %q", ch)
		}
	}
	return nil
}

// ParseURLs parses reference links from text input, one per line, in the
// form "Label | URL". A bare line starting with http becomes a link
// labeled "Link".
func ParseURLs(text string) []types.ReferenceLink {
	var urls []types.ReferenceLink
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if label, url, found := strings.Cut(line, "|"); found {
			urls = append(urls, types.ReferenceLink{
				Label: strings.TrimSpace(label),
				URL:   strings.TrimSpace(url),
			})
		} else if strings.HasPrefix(line, "http") {
			urls = append(urls, types.ReferenceLink{Label: "Link", URL: line})
		}
	}
	return urls
}
