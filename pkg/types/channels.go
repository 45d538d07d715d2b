// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ChannelRules holds the per-channel drafting constraints embedded in
// prompts and checked by the critic. Zero-valued limits do not apply to
// the channel.
type ChannelRules struct {
	// MaxLength caps the body in characters (linkedin, facebook).
	MaxLength int

	// SubjectMaxLength caps the subject line in characters (email).
	SubjectMaxLength int

	// BodyMaxWords caps the body in words (email).
	BodyMaxWords int

	// HeadlineMaxWords caps the headline in words (web).
	HeadlineMaxWords int

	// HeroMaxWords caps the hero paragraph in words (web).
	HeroMaxWords int

	// Tone describes the register the channel expects.
	Tone string

	// RequiredElements lists what the draft must contain.
	RequiredElements []string
}

// ChannelConfigs is the fixed per-channel rule table.
var ChannelConfigs = map[Channel]ChannelRules{
	ChannelLinkedIn: {
		MaxLength:        3000,
		Tone:             "Professional, thought-leadership",
		RequiredElements: []string{"Hook", "value prop", "CTA", "hashtags"},
	},
	ChannelFacebook: {
		MaxLength:        500,
		Tone:             "Conversational, engaging",
		RequiredElements: []string{"Hook", "benefit", "CTA"},
	},
	ChannelEmail: {
		SubjectMaxLength: 60,
		BodyMaxWords:     300,
		Tone:             "Direct, personalized",
		RequiredElements: []string{"Subject", "preheader", "body", "CTA"},
	},
	ChannelWeb: {
		HeadlineMaxWords: 10,
		HeroMaxWords:     50,
		Tone:             "SEO-friendly, benefit-driven",
		RequiredElements: []string{"Headline", "subhead", "hero paragraph"},
	},
}
