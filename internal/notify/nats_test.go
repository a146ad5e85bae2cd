package notify

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	natsserver "github.com/nats-io/nats-server/v2/server"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startTestNATSServer starts an embedded NATS server for testing.
func startTestNATSServer(t *testing.T) *natsserver.Server {
	t.Helper()

	server, err := natsserver.NewServer(&natsserver.Options{
		Host:   "127.0.0.1",
		Port:   -1,
		NoLog:  true,
		NoSigs: true,
	})
	require.NoError(t, err)

	go server.Start()
	if !server.ReadyForConnections(5 * time.Second) {
		t.Fatal("NATS server not ready")
	}

	t.Cleanup(func() {
		server.Shutdown()
		server.WaitForShutdown()
	})
	return server
}

func TestNATSSink_Publishes(t *testing.T) {
	server := startTestNATSServer(t)
	nc, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	msgs := make(chan *nats.Msg, 1)
	sub, err := nc.ChanSubscribe(SubjectPrefix+".*.refresh", msgs)
	require.NoError(t, err)
	defer func() { _ = sub.Unsubscribe() }()
	require.NoError(t, nc.Flush())

	sink, err := NewNATSSink(nc)
	require.NoError(t, err)
	require.NoError(t, sink.Broadcast(context.Background(), RefreshOrder("469", "1001", 16000)))

	select {
	case msg := <-msgs:
		assert.Equal(t, "shopassist.orders.1001.refresh", msg.Subject)
		var got Notification
		require.NoError(t, json.Unmarshal(msg.Data, &got))
		assert.Equal(t, "1001", got.OrderID)
		assert.Equal(t, "469", got.ShopID)
		assert.Equal(t, 16000, got.LaborRate)
	case <-time.After(5 * time.Second):
		t.Fatal("no notification received")
	}
}

func TestNATSSink_ClosedConnection(t *testing.T) {
	server := startTestNATSServer(t)
	nc, err := nats.Connect(server.ClientURL())
	require.NoError(t, err)
	nc.Close()

	sink, err := NewNATSSink(nc)
	require.NoError(t, err)
	assert.Error(t, sink.Broadcast(context.Background(), RefreshOrder("469", "1001", 0)))
}

func TestNewNATSSink_RequiresConnection(t *testing.T) {
	_, err := NewNATSSink(nil)
	assert.Error(t, err)
}
