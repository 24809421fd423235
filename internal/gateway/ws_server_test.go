package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FastFix-SF/west-peak-roofing-app/pkg/constant"
)

func TestMessageForViewer(t *testing.T) {
	s := &WsServer{}
	task := &PushTask{
		Kind:     pushKindMessage,
		SenderId: "cr__1",
		PeerId:   "of__2",
		Msg: &PushMessageData{
			MsgId:          "m1",
			ConversationId: "dm_cr__1:of__2",
			Kind:           constant.ConvKindDirect,
			SenderId:       "cr__1",
			Text:           "on my way",
		},
	}

	// Each participant sees the conversation named after the other side
	forSender := s.messageForViewer(task, "cr__1")
	assert.Equal(t, "dm-of__2", forSender.ConversationId)

	forPeer := s.messageForViewer(task, "of__2")
	assert.Equal(t, "dm-cr__1", forPeer.ConversationId)

	// The stored pair id on the task is left untouched
	assert.Equal(t, "dm_cr__1:of__2", task.Msg.ConversationId)
}

func TestMessageForViewerChannel(t *testing.T) {
	s := &WsServer{}
	task := &PushTask{
		Kind:     pushKindMessage,
		SenderId: "cr__1",
		Msg: &PushMessageData{
			MsgId:          "m2",
			ConversationId: "general",
			Kind:           constant.ConvKindChannel,
			SenderId:       "cr__1",
			Text:           "crew meeting at 8",
		},
	}

	// Channel pushes keep the slug for every viewer
	got := s.messageForViewer(task, "of__2")
	assert.Equal(t, "general", got.ConversationId)
}

func TestProtocolRoundTrip(t *testing.T) {
	req := &WSRequest{
		ReqIdentifier: WSSendDirectMsg,
		MsgIncr:       "1",
		OperationId:   "op-1",
		SendId:        "cr__1",
	}
	data, err := Encode(req)
	assert.NoError(t, err)

	var got WSRequest
	assert.NoError(t, Decode(data, &got))
	assert.Equal(t, int32(WSSendDirectMsg), got.ReqIdentifier)
	assert.Equal(t, "cr__1", got.SendId)
}
