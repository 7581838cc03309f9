package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"

	"SectorRRG/internal/model"
	"SectorRRG/internal/rotation"
)

func testGraph() *model.RotationGraph {
	day := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	mk := func(inst model.Instrument, rs, mom float64) model.InstrumentTrail {
		head := model.RotationPoint{Date: day, RS: rs, MOM: mom}
		return model.InstrumentTrail{
			Instrument: inst,
			Head:       head,
			Trail:      []model.RotationPoint{{Date: day.AddDate(0, 0, -1), RS: rs - 0.1, MOM: mom - 0.1}, head},
			Quadrant:   rotation.Classify(rs, mom),
		}
	}
	return &model.RotationGraph{
		Benchmark: rotation.DefaultBenchmark,
		Lookback:  model.Lookback7D,
		AsOf:      day,
		Trails: []model.InstrumentTrail{
			mk(model.Instrument{Symbol: "XLK", Label: "IT"}, 1.2, 0.8),
			mk(model.Instrument{Symbol: "XLU", Label: "UT"}, -0.5, -1.1),
			mk(model.Instrument{Symbol: "A&B", Label: "<X>"}, 0, 0),
		},
	}
}

func TestFormatRotationReport(t *testing.T) {
	msg := FormatRotationReport(testGraph())

	assert.Contains(t, msg, "2024-06-03")
	assert.Contains(t, msg, "SPY: SP500")
	assert.Contains(t, msg, "7D (last 7 trading days)")
	assert.Contains(t, msg, "<b>LEADING</b>")
	assert.Contains(t, msg, "XLK: IT  RS +1.20 | MOM +0.80  ↗")
	assert.Contains(t, msg, "<b>LAGGING</b>")
	assert.Contains(t, msg, "<b>NEUTRAL</b>")
	assert.Contains(t, msg, "A&amp;B: &lt;X&gt;")
	assert.NotContains(t, msg, "WEAKENING")
	assert.Contains(t, msg, "not investment advice")

	assert.Less(t, strings.Index(msg, "LEADING"), strings.Index(msg, "LAGGING"))
}

func TestFormatGuideAndHelp(t *testing.T) {
	guide := FormatQuadrantGuide()
	for _, q := range rotation.Quadrants {
		assert.Contains(t, guide, string(q.Quadrant))
	}

	help := FormatHelp()
	assert.Contains(t, help, "/rrg")
	assert.Contains(t, help, "LTD, 3D, 7D, 14D, 21D, 50D, MAX")
	assert.Contains(t, help, "/quadrants")

	assert.Contains(t, FormatError(errors.New("fetch <XLK>: boom")), "fetch &lt;XLK&gt;: boom")
}

type recorded struct {
	path        string
	contentType string
	body        []byte
}

type recorder struct {
	mu   sync.Mutex
	reqs []recorded
}

func (r *recorder) all() []recorded {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]recorded(nil), r.reqs...)
}

func newTestNotifier(t *testing.T, handler http.HandlerFunc) (*TelegramNotifier, *recorder) {
	rec := &recorder{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.reqs = append(rec.reqs, recorded{path: r.URL.Path, contentType: r.Header.Get("Content-Type"), body: body})
		rec.mu.Unlock()
		handler(w, r)
	}))
	t.Cleanup(srv.Close)

	n := NewTelegramNotifier("TOKEN", "42", "", arbor.NewLogger())
	n.APIBase = srv.URL + "/"
	return n, rec
}

func ok(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, `{"ok":true,"result":[]}`)
}

func TestSend(t *testing.T) {
	n, reqs := newTestNotifier(t, ok)

	require.NoError(t, n.Send(context.Background(), "<b>hi</b>"))
	all := reqs.all()
	require.Len(t, all, 1)
	r := all[0]
	assert.Equal(t, "/botTOKEN/sendMessage", r.path)
	assert.Equal(t, "application/json", r.contentType)

	var payload map[string]string
	require.NoError(t, json.Unmarshal(r.body, &payload))
	assert.Equal(t, "42", payload["chat_id"])
	assert.Equal(t, "<b>hi</b>", payload["text"])
	assert.Equal(t, "HTML", payload["parse_mode"])
}

func TestSendAPIError(t *testing.T) {
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok":false,"description":"chat not found"}`)
	})

	err := n.Send(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendWithRetry(t *testing.T) {
	var calls atomic.Int32
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		ok(w, r)
	})

	require.NoError(t, n.SendWithRetry(context.Background(), "x", 2))
	assert.Equal(t, int32(2), calls.Load())
}

func TestSendWithRetryCancelled(t *testing.T) {
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := n.SendWithRetry(ctx, "x", 3)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestSendDocument(t *testing.T) {
	n, reqs := newTestNotifier(t, ok)

	require.NoError(t, n.SendDocument(context.Background(), "rrg.pdf", []byte("%PDF-1.3 test"), "chart"))
	all := reqs.all()
	require.Len(t, all, 1)
	r := all[0]
	assert.Equal(t, "/botTOKEN/sendDocument", r.path)
	assert.True(t, strings.HasPrefix(r.contentType, "multipart/form-data"))
	body := string(r.body)
	assert.Contains(t, body, `name="chat_id"`)
	assert.Contains(t, body, `name="caption"`)
	assert.Contains(t, body, `filename="rrg.pdf"`)
	assert.Contains(t, body, "%PDF-1.3 test")
}

func TestPoll(t *testing.T) {
	n, reqs := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/getUpdates") {
			assert.Equal(t, "7", r.URL.Query().Get("offset"))
			fmt.Fprint(w, `{"ok":true,"result":[
				{"update_id":7,"message":{"text":" /help "}},
				{"update_id":8},
				{"update_id":9,"message":{"text":"/quiet"}}
			]}`)
			return
		}
		ok(w, r)
	})

	var got []string
	handler := func(_ context.Context, cmd string) string {
		got = append(got, cmd)
		if cmd == "/help" {
			return "help text"
		}
		return ""
	}

	next, err := n.poll(context.Background(), n.Client, 7, 0, handler)
	require.NoError(t, err)
	assert.Equal(t, 10, next)
	assert.Equal(t, []string{"/help", "/quiet"}, got)

	all := reqs.all()
	require.Len(t, all, 2)
	assert.Equal(t, "/botTOKEN/sendMessage", all[1].path)
	assert.Contains(t, string(all[1].body), "help text")
}

func TestPollNotOK(t *testing.T) {
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"ok":false,"description":"Unauthorized"}`)
	})

	next, err := n.poll(context.Background(), n.Client, 3, 0, func(context.Context, string) string { return "" })
	require.Error(t, err)
	assert.Equal(t, 3, next)
}
