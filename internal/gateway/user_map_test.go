package gateway

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClient(userId, connId string, platformId int) *Client {
	return &Client{UserId: userId, ConnId: connId, PlatformId: platformId}
}

func TestUserMapRegisterUnregister(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	web := testClient("cr__1", "conn-1", 1)
	mobile := testClient("cr__1", "conn-2", 2)

	m.Register(ctx, web)
	m.Register(ctx, mobile)

	assert.True(t, m.HasConnection("cr__1"))
	assert.Equal(t, 1, m.GetOnlineUserCount())
	assert.Equal(t, 2, m.GetOnlineConnCount())

	clients, ok := m.GetAll("cr__1")
	assert.True(t, ok)
	assert.Len(t, clients, 2)

	// First unregister still leaves the mobile connection
	offline := m.Unregister(ctx, web)
	assert.False(t, offline)
	assert.True(t, m.HasConnection("cr__1"))

	offline = m.Unregister(ctx, mobile)
	assert.True(t, offline)
	assert.False(t, m.HasConnection("cr__1"))
	assert.Equal(t, 0, m.GetOnlineUserCount())
}

func TestUserMapGetByPlatform(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	m.Register(ctx, testClient("cr__1", "conn-1", 1))
	m.Register(ctx, testClient("cr__1", "conn-2", 2))

	clients, ok := m.GetByPlatform("cr__1", 2)
	assert.True(t, ok)
	assert.Len(t, clients, 1)
	assert.Equal(t, "conn-2", clients[0].ConnId)

	_, ok = m.GetByPlatform("cr__1", 3)
	assert.False(t, ok)
}

func TestUserMapUnregisterUnknown(t *testing.T) {
	m := NewUserMap(nil)
	assert.False(t, m.Unregister(context.Background(), testClient("cr__1", "conn-1", 1)))
}

func TestUserMapGetAllOnlineUserIds(t *testing.T) {
	m := NewUserMap(nil)
	ctx := context.Background()

	m.Register(ctx, testClient("cr__1", "conn-1", 1))
	m.Register(ctx, testClient("of__2", "conn-2", 1))

	ids := m.GetAllOnlineUserIds()
	assert.ElementsMatch(t, []string{"cr__1", "of__2"}, ids)
}
