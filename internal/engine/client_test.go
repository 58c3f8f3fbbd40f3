package engine

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/daryltucker/relevance-tuner/internal/config"
	"github.com/daryltucker/relevance-tuner/internal/model"
)

func testConfig(endpoint string) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Endpoint = endpoint
	cfg.Timeout = 2 * time.Second
	return cfg
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(testConfig(srv.URL + "/search"))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

var testParams = model.ParameterSet{{Name: "w_title", Value: 5}, {Name: "k1", Value: 1.2}, {Name: "b", Value: 0.75}}

func TestClient_SendsQueryAndParams(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if r.URL.Path != "/search" {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		want := map[string]string{"q": "The Great Escape", "w_title": "5", "k1": "1.2", "b": "0.75"}
		for k, v := range want {
			if got := q.Get(k); got != v {
				t.Errorf("param %s = %q, want %q", k, got, v)
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": 7, "title": "The Great Escape", "plot_snippet": "..."}, {"id": 3, "title": "Escape"}]`))
	})

	records, err := c.Search(context.Background(), "The Great Escape", testParams)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d, want 2", len(records))
	}
	if records[0] != (model.ResultRecord{ID: 7, Title: "The Great Escape"}) {
		t.Errorf("records[0] = %+v", records[0])
	}
	if records[1].ID != 3 {
		t.Errorf("records[1] = %+v", records[1])
	}
}

func TestClient_EmptyArrayIsValid(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	records, err := c.Search(context.Background(), "Gamma", testParams)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("records = %+v, want none", records)
	}
}

func TestClient_ProtocolFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"server error", http.StatusInternalServerError, `oops`},
		{"not found", http.StatusNotFound, `[]`},
		{"invalid json", http.StatusOK, `[{"id": 1,`},
		{"object not array", http.StatusOK, `{"results": []}`},
		{"missing id", http.StatusOK, `[{"title": "Alpha"}]`},
		{"string id", http.StatusOK, `[{"id": "1", "title": "Alpha"}]`},
		{"fractional id", http.StatusOK, `[{"id": 1.5, "title": "Alpha"}]`},
		{"missing title", http.StatusOK, `[{"id": 1}]`},
		{"null title", http.StatusOK, `[{"id": 1, "title": null}]`},
		{"bad top record before good one", http.StatusOK, `[{"id": 1}, {"id": 2, "title": "Beta"}]`},
		{"id beyond int range", http.StatusOK, `[{"id": 1e300, "title": "Alpha"}]`},
		{"negative id beyond int range", http.StatusOK, `[{"id": -1e19, "title": "Alpha"}]`},
		{"empty body", http.StatusOK, ``},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := c.Search(context.Background(), "Alpha", testParams)
			if err == nil {
				t.Fatal("Search() error = nil, want protocol failure")
			}
			if !errors.Is(err, model.ErrProtocol) {
				t.Errorf("error = %v, want ErrProtocol", err)
			}
			if errors.Is(err, model.ErrTransport) {
				t.Errorf("protocol failure also marked as transport: %v", err)
			}
		})
	}
}

func TestClient_MalformedLowerRanksDoNotAffectTopHit(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id": 0, "title": "Alpha"}, {"id": 7}, {"title": 3}, {"id": 1e300, "title": "Huge"}, {"id": 2, "title": "Gamma"}]`))
	})

	records, err := c.Search(context.Background(), "Alpha", testParams)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	want := []model.ResultRecord{{ID: 0, Title: "Alpha"}, {ID: 2, Title: "Gamma"}}
	if len(records) != len(want) || records[0] != want[0] || records[1] != want[1] {
		t.Errorf("records = %+v, want %+v", records, want)
	}

	o := Judge(model.LabeledItem{ID: 0, Title: "Alpha"}, records, err)
	if o.Kind != model.Hit {
		t.Errorf("outcome = %s (%s), want hit", o.Kind, o.Reason)
	}
}

func TestClient_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.Write([]byte(`[]`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL)
	cfg.Timeout = 50 * time.Millisecond
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	start := time.Now()
	_, err = c.Search(context.Background(), "Alpha", testParams)
	if !errors.Is(err, model.ErrTransport) {
		t.Fatalf("error = %v, want ErrTransport", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("timeout not enforced, took %v", elapsed)
	}
}

func TestClient_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(testConfig(url))
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	_, err = c.Search(context.Background(), "Alpha", testParams)
	if !errors.Is(err, model.ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}

func TestClient_CustomQueryParamAndRateLimit(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if got := r.URL.Query().Get("query"); got != "Alpha" {
			t.Errorf("query param = %q, want Alpha", got)
		}
		if got := r.URL.Query().Get("lang"); got != "en" {
			t.Errorf("endpoint query string not preserved: lang = %q", got)
		}
		w.Write([]byte(`[{"id": 0, "title": "Alpha"}]`))
	}))
	t.Cleanup(srv.Close)

	cfg := testConfig(srv.URL + "/search?lang=en")
	cfg.QueryParam = "query"
	cfg.MaxQPS = 1000
	c, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}

	for i := 0; i < 3; i++ {
		if _, err := c.Search(context.Background(), "Alpha", testParams); err != nil {
			t.Fatalf("Search() error = %v", err)
		}
	}
	if n := calls.Load(); n != 3 {
		t.Errorf("calls = %d, want 3", n)
	}
}

func TestClient_CancelledContextIsTransportFailure(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Search(ctx, "Alpha", testParams)
	if !errors.Is(err, model.ErrTransport) {
		t.Errorf("error = %v, want ErrTransport", err)
	}
}
