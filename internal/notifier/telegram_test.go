package notifier

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTelegram struct {
	mu      sync.Mutex
	sent    []map[string]string
	updates string
	fail    int
}

func (f *fakeTelegram) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/botTOKEN/sendMessage", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.fail > 0 {
			f.fail--
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		var payload map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		f.sent = append(f.sent, payload)
		w.Write([]byte(`{"ok":true}`))
	})
	mux.HandleFunc("/botTOKEN/getUpdates", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(f.updates))
	})
	return mux
}

func newTestNotifier(t *testing.T, f *fakeTelegram) *TelegramNotifier {
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "", nil)
	n.APIBase = srv.URL
	return n
}

func TestTelegramNotifier_Send(t *testing.T) {
	f := &fakeTelegram{}
	n := newTestNotifier(t, f)

	require.NoError(t, n.Send(context.Background(), "<b>hi</b>"))
	require.Len(t, f.sent, 1)
	assert.Equal(t, "42", f.sent[0]["chat_id"])
	assert.Equal(t, "HTML", f.sent[0]["parse_mode"])

	f.fail = 1
	err := n.Send(context.Background(), "x")
	assert.ErrorContains(t, err, "status 429")
}

func TestTelegramNotifier_SendWithRetryGivesUp(t *testing.T) {
	f := &fakeTelegram{fail: 5}
	n := newTestNotifier(t, f)
	err := n.SendWithRetry(context.Background(), "x", 0)
	assert.ErrorContains(t, err, "all 1 retries exhausted")
}

func TestTelegramNotifier_SendWithRetryCancelled(t *testing.T) {
	f := &fakeTelegram{fail: 5}
	n := newTestNotifier(t, f)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := n.SendWithRetry(ctx, "x", 3)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTelegramNotifier_Dispatch(t *testing.T) {
	f := &fakeTelegram{updates: `{"ok":true,"result":[
		{"update_id":7,"message":{"text":" /watchlist ","chat":{"id":42}}},
		{"update_id":8,"message":{"text":"/scan","chat":{"id":99}}},
		{"update_id":9}
	]}`}
	n := newTestNotifier(t, f)

	updates, err := n.getUpdates(context.Background(), n.Client, 0, 0)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	var got []string
	next := n.dispatch(context.Background(), updates, 0, func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		return "reply to " + cmd
	})
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/watchlist"}, got, "foreign chat must be ignored")
	require.Len(t, f.sent, 1)
	assert.Equal(t, "reply to /watchlist", f.sent[0]["text"])
}
