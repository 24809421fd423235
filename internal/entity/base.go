package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
)

// NowUnixMilli returns current unix timestamp in milliseconds
func NowUnixMilli() int64 {
	return time.Now().UnixMilli()
}

// GenDirectConversationId generates the stored pair id for a direct
// conversation.
// Format: dm_{min(userA,userB)}:{max(userA,userB)}
// Uses ":" as separator between userIds to support userIds containing "_"
func GenDirectConversationId(userA, userB string) string {
	users := []string{userA, userB}
	sort.Strings(users)
	return fmt.Sprintf("%s%s:%s", constant.DirectRowPrefix, users[0], users[1])
}

// DirectViewId is the per-viewer id of a direct conversation: "dm-<peerId>".
// This is what clients see in the merged list; the stored pair id stays
// server-side.
func DirectViewId(peerId string) string {
	return constant.DirectViewPrefix + peerId
}

// PeerFromViewId extracts the peer user id from a "dm-<peerId>" view id.
// Returns false when the id is not a direct view id.
func PeerFromViewId(viewId string) (string, bool) {
	if !strings.HasPrefix(viewId, constant.DirectViewPrefix) {
		return "", false
	}
	peer := viewId[len(constant.DirectViewPrefix):]
	if peer == "" {
		return "", false
	}
	return peer, true
}

// IsDirectConversation checks if a stored conversation id is a direct pair id
func IsDirectConversation(conversationId string) bool {
	return strings.HasPrefix(conversationId, constant.DirectRowPrefix)
}

// SlugifyChannel converts a channel display name to its conversation id.
// "Roof Crew #2" => "roof-crew-2". Channel ids must be stable across
// renders, so slugging happens once at ingestion.
func SlugifyChannel(name string) string {
	var b strings.Builder
	prevDash := true // swallow leading dashes
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			prevDash = false
		default:
			if !prevDash {
				b.WriteByte('-')
				prevDash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
