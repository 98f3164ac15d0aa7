package statusapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alxayo/gelflb/internal/balancer"
)

type fakeDumper struct{ out string }

func (f fakeDumper) Dump() (string, error) { return f.out, nil }

func TestHandleJSON(t *testing.T) {
	counters := &balancer.Counters{}
	counters.IncHandled()
	counters.IncHandled()
	counters.IncForwarded()

	s := &Server{Counters: counters, Config: fakeDumper{out: "listen_port = 9000\n"}}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/json")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()

	var body jsonResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.HandledPackets != 2 || body.ForwardedMessages != 1 {
		t.Fatalf("unexpected counters: %+v", body)
	}
}

func TestHandleHTMLIncludesConfigDump(t *testing.T) {
	counters := &balancer.Counters{}
	s := &Server{Counters: counters, Config: fakeDumper{out: "listen_port = 9000\n"}}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/html")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestHandleAPIDocs(t *testing.T) {
	s := &Server{Counters: &balancer.Counters{}, Config: fakeDumper{}}
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/api-docs")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}
