package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rotational-map/internal/parcel"
	"rotational-map/internal/session"
)

func TestSendPostsPlot(t *testing.T) {
	got := make(chan map[string]any, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.Header.Get("content-type") != "application/json" {
			t.Errorf("method %s content-type %s", r.Method, r.Header.Get("content-type"))
		}
		var m map[string]any
		_ = json.NewDecoder(r.Body).Decode(&m)
		got <- m
	}))
	defer srv.Close()

	w := NewWebhook(srv.URL)
	d := session.PlotDetail{ID: "p1", Status: parcel.StatusCarbonSink, CropType: "Rice", AreaUnits: 10, Carbon: 12}
	if err := w.Send(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	m := <-got
	if m["id"] != "p1" || m["status"] != "Carbon Sink" || m["rai"] != float64(10) || m["carbon"] != float64(12) {
		t.Fatalf("body = %v", m)
	}
}

func TestSendRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()
	if err := NewWebhook(srv.URL).Send(context.Background(), session.PlotDetail{ID: "p1"}); err == nil {
		t.Fatal("502 accepted")
	}
}

func TestCallbackDeliversInBackground(t *testing.T) {
	got := make(chan string, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var d session.PlotDetail
		_ = json.NewDecoder(r.Body).Decode(&d)
		got <- d.ID
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w := NewWebhook(srv.URL)
	w.Start(ctx)
	cb := w.Callback()
	cb(session.PlotDetail{ID: "a"})
	cb(session.PlotDetail{ID: "b"})
	for _, want := range []string{"a", "b"} {
		select {
		case id := <-got:
			if id != want {
				t.Fatalf("delivered %s, want %s", id, want)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("webhook not delivered")
		}
	}
}

func TestCallbackDropsWhenQueueFull(t *testing.T) {
	w := NewWebhook("http://127.0.0.1:0")
	cb := w.Callback()
	for i := 0; i < queueSize+10; i++ {
		cb(session.PlotDetail{ID: "x"})
	}
	if len(w.queue) != queueSize {
		t.Fatalf("queue = %d, want %d", len(w.queue), queueSize)
	}
}
