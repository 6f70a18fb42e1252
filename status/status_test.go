package status

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Message) Message {
	t.Helper()
	select {
	case m := <-ch:
		return m
	case <-time.After(5 * time.Second):
		t.Fatal("no status message")
	}
	return Message{}
}

func TestListen(t *testing.T) {
	ch, stop := Listen(4)
	defer stop()

	Info("loaded %d nodes", 3)
	m := receive(t, ch)
	assert.Equal(t, "loaded 3 nodes", m.Message)
	assert.Equal(t, INFO, m.Type)

	Progress(math.NaN(), "half")
	m = receive(t, ch)
	assert.Equal(t, PROGRESS, m.Type)
	assert.Equal(t, 0.0, m.Progress)

	Error("failed")
	last, ok := Last()
	require.True(t, ok)
	assert.Equal(t, "failed", last.Message)
	assert.Equal(t, ERROR, last.Type)
}

func TestListenStop(t *testing.T) {
	ch, stop := Listen(1)
	stop()
	stop()
	_, ok := <-ch
	assert.False(t, ok)
	Info("nobody listens")
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "info", INFO.String())
	assert.Equal(t, "progress", PROGRESS.String())
	assert.Equal(t, "Kind(7)", Kind(7).String())
}

func TestWebsocketClient(t *testing.T) {
	upgrader := websocket.Upgrader{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn)
	}))
	defer server.Close()

	Info("before connect")

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var m Message
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "before connect", m.Message)

	Progress(0.5, "generating")
	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &m))
	assert.Equal(t, "generating", m.Message)
	assert.Equal(t, 0.5, m.Progress)
}
