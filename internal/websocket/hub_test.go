package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-coding-assistant-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func newTestClient(hub *Hub, userID uuid.UUID) *Client {
	return NewClient(hub, nil, userID)
}

func receive(t *testing.T, c *Client) map[string]interface{} {
	t.Helper()
	select {
	case raw, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var out map[string]interface{}
		require.NoError(t, json.Unmarshal(raw, &out))
		return out
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return nil
	}
}

func TestHubSendReachesEveryDeviceOfUser(t *testing.T) {
	hub, _ := startHub(t)
	ann, bob := uuid.New(), uuid.New()

	phone := newTestClient(hub, ann)
	laptop := newTestClient(hub, ann)
	other := newTestClient(hub, bob)
	hub.Register(phone)
	hub.Register(laptop)
	hub.Register(other)
	require.Eventually(t, func() bool { return hub.ClientCount(ann) == 2 }, time.Second, 5*time.Millisecond)

	hub.Send(ann, "message.appended", map[string]string{"content": "hi"})

	for _, c := range []*Client{phone, laptop} {
		msg := receive(t, c)
		assert.Equal(t, "message.appended", msg["type"])
		assert.Equal(t, map[string]interface{}{"content": "hi"}, msg["data"])
	}
	assert.Len(t, other.Send, 0)
}

func TestHubUnregisterAndDisconnectAreIdempotent(t *testing.T) {
	hub, _ := startHub(t)
	ann := uuid.New()

	first := newTestClient(hub, ann)
	second := newTestClient(hub, ann)
	hub.Register(first)
	hub.Register(second)
	require.Eventually(t, func() bool { return hub.ClientCount(ann) == 2 }, time.Second, 5*time.Millisecond)

	hub.Unregister(first)
	hub.Unregister(first)
	require.Eventually(t, func() bool { return hub.ClientCount(ann) == 1 }, time.Second, 5*time.Millisecond)
	_, ok := <-first.Send
	assert.False(t, ok)

	hub.Disconnect(ann)
	hub.Disconnect(ann)
	require.Eventually(t, func() bool { return hub.ClientCount(ann) == 0 }, time.Second, 5*time.Millisecond)
	_, ok = <-second.Send
	assert.False(t, ok)

	// late unregister from a pump that already lost its client
	hub.Unregister(second)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	ann := uuid.New()
	client := newTestClient(hub, ann)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount(ann) == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case _, ok := <-client.Send:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("client not closed on shutdown")
	}

	// calls after shutdown must not block
	hub.Unregister(client)
	hub.Disconnect(ann)
}

func TestHubIgnoresOwnClusterEcho(t *testing.T) {
	hub, _ := startHub(t)
	ann := uuid.New()
	client := newTestClient(hub, ann)
	hub.Register(client)
	require.Eventually(t, func() bool { return hub.ClientCount(ann) == 1 }, time.Second, 5*time.Millisecond)

	own, _ := json.Marshal(clusterEnvelope{Origin: hub.instanceID, Kind: clusterKindMessage, TargetUserID: ann.String(), Message: json.RawMessage(`{"type":"x"}`)})
	hub.handleClusterPayload(own)
	assert.Len(t, client.Send, 0)

	remote, _ := json.Marshal(clusterEnvelope{Origin: "other-instance", Kind: clusterKindMessage, TargetUserID: ann.String(), Message: json.RawMessage(`{"type":"x"}`)})
	hub.handleClusterPayload(remote)
	assert.Equal(t, "x", receive(t, client)["type"])
}
