package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveChannel(t *testing.T) {
	defaults := []string{"General"}

	t.Run("project channel", func(t *testing.T) {
		ch := ResolveChannel("project-abc123", defaults)
		assert.Equal(t, ChannelProject, ch.Kind)
		assert.Equal(t, "abc123", ch.ProjectId)
		assert.Equal(t, "project-abc123", ch.Slug)
	})

	t.Run("default channel matches case insensitively", func(t *testing.T) {
		ch := ResolveChannel("general", defaults)
		assert.Equal(t, ChannelDefault, ch.Kind)
		assert.Equal(t, "general", ch.Slug)

		ch = ResolveChannel("General", defaults)
		assert.Equal(t, ChannelDefault, ch.Kind)
	})

	t.Run("named channel", func(t *testing.T) {
		ch := ResolveChannel("Roof Crew", defaults)
		assert.Equal(t, ChannelNamed, ch.Kind)
		assert.Equal(t, "roof-crew", ch.Slug)
		assert.Empty(t, ch.ProjectId)
	})

	t.Run("bare project prefix is not a project channel", func(t *testing.T) {
		ch := ResolveChannel("project-", defaults)
		assert.Equal(t, ChannelNamed, ch.Kind)
	})
}
