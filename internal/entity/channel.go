package entity

import (
	"strings"

	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
)

// ChannelKind discriminates how a channel row should be displayed.
// Resolved once when the row is first read, never re-derived per render.
type ChannelKind int32

const (
	ChannelNamed   ChannelKind = 0 // Plain named channel
	ChannelDefault ChannelKind = 1 // Configured default channel, always listed
	ChannelProject ChannelKind = 2 // Tied to a project row
)

// Channel is the resolved identity of a channel conversation.
type Channel struct {
	Slug      string      `json:"slug"`
	Name      string      `json:"name"`
	Kind      ChannelKind `json:"kind"`
	ProjectId string      `json:"project_id,omitempty"`
}

// ResolveChannel classifies a raw channel name into its tagged kind.
// Project channels follow the "project-<projectId>" naming convention;
// the human-readable name and thumbnail come from a later batched
// project lookup, not from here.
func ResolveChannel(rawName string, defaultChannels []string) Channel {
	ch := Channel{
		Slug: SlugifyChannel(rawName),
		Name: rawName,
		Kind: ChannelNamed,
	}

	if projectId, ok := strings.CutPrefix(rawName, constant.ProjectChannelPrefix); ok && projectId != "" {
		ch.Kind = ChannelProject
		ch.ProjectId = projectId
		return ch
	}

	for _, def := range defaultChannels {
		if strings.EqualFold(rawName, def) {
			ch.Kind = ChannelDefault
			return ch
		}
	}

	return ch
}
