package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirectMessageSummary(t *testing.T) {
	m := &DirectMessage{SenderId: "cr__1", Text: "hello", CreatedAt: 100}
	s := m.Summary()
	assert.Equal(t, "hello", s.Text)
	assert.Equal(t, "cr__1", s.SenderId)
	assert.Equal(t, int64(100), s.SentAt)

	// Attachment-only messages still get a list preview
	m = &DirectMessage{SenderId: "cr__1", AttachmentURL: "https://cdn/x.jpg", CreatedAt: 200}
	assert.Equal(t, "[attachment]", m.Summary().Text)
}
