// Package statusapi serves the read-only HTTP status endpoint: a JSON
// counter snapshot, an HTML page embedding the same counters plus a TOML
// dump of the effective configuration, and a small embedded OpenAPI
// description of the JSON route.
package statusapi

import (
	"embed"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/alxayo/gelflb/internal/balancer"
)

//go:embed openapi.yaml
var openapiFS embed.FS

// ConfigDumper supplies the effective-configuration TOML for the HTML page.
type ConfigDumper interface {
	Dump() (string, error)
}

type jsonResponse struct {
	ForwardedMessages uint64 `json:"nr_of_forwarded_messages"`
	HandledPackets    uint64 `json:"nr_of_handled_udp_packets"`
}

// Server wires the counters and config dumper into an http.Handler.
type Server struct {
	Counters *balancer.Counters
	Config   ConfigDumper
}

// Handler builds the gorilla/mux router for the status endpoint.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/json", s.handleJSON).Methods(http.MethodGet)
	r.HandleFunc("/", s.handleHTML).Methods(http.MethodGet)
	r.HandleFunc("/html", s.handleHTML).Methods(http.MethodGet)
	r.HandleFunc("/api-docs", s.handleAPIDocs).Methods(http.MethodGet)
	return r
}

func (s *Server) handleJSON(w http.ResponseWriter, _ *http.Request) {
	handled, forwarded := s.Counters.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(jsonResponse{
		ForwardedMessages: forwarded,
		HandledPackets:    handled,
	})
}

func (s *Server) handleHTML(w http.ResponseWriter, _ *http.Request) {
	handled, forwarded := s.Counters.Snapshot()
	dump, err := s.Config.Dump()
	if err != nil {
		dump = fmt.Sprintf("(failed to dump configuration: %v)", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, `<!doctype html>
<html><head><title>gelflb status</title></head>
<body>
<h1>gelflb status</h1>
<ul>
<li>handled_packets: %d</li>
<li>forwarded_messages: %d</li>
</ul>
<h2>effective configuration</h2>
<pre>%s</pre>
</body></html>
`, handled, forwarded, dump)
}

func (s *Server) handleAPIDocs(w http.ResponseWriter, _ *http.Request) {
	data, err := openapiFS.ReadFile("openapi.yaml")
	if err != nil {
		http.Error(w, "api doc unavailable", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(data)
}
