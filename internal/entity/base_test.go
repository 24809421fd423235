package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenDirectConversationId(t *testing.T) {
	// Order of arguments must not matter
	assert.Equal(t, GenDirectConversationId("cr__2", "of__1"), GenDirectConversationId("of__1", "cr__2"))
	assert.Equal(t, "dm_cr__2:of__1", GenDirectConversationId("of__1", "cr__2"))
}

func TestDirectViewId(t *testing.T) {
	assert.Equal(t, "dm-cr__7", DirectViewId("cr__7"))

	peer, ok := PeerFromViewId("dm-cr__7")
	assert.True(t, ok)
	assert.Equal(t, "cr__7", peer)

	_, ok = PeerFromViewId("general")
	assert.False(t, ok)

	_, ok = PeerFromViewId("dm-")
	assert.False(t, ok)
}

func TestIsDirectConversation(t *testing.T) {
	assert.True(t, IsDirectConversation("dm_a:b"))
	assert.False(t, IsDirectConversation("dm-a"))
	assert.False(t, IsDirectConversation("general"))
}

func TestSlugifyChannel(t *testing.T) {
	cases := map[string]string{
		"General":      "general",
		"Roof Crew #2": "roof-crew-2",
		"  spaced  ":   "spaced",
		"project-42":   "project-42",
		"A&B Supply":   "a-b-supply",
	}
	for in, want := range cases {
		assert.Equal(t, want, SlugifyChannel(in), "slug of %q", in)
	}
}
