// Package config loads and validates the TOML configuration file.
package config

import (
	"fmt"
	"net"
	"os"

	"github.com/pelletier/go-toml/v2"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// Backend is one forwarding target as declared in the config file.
type Backend struct {
	IP   string `toml:"ip"`
	Port uint16 `toml:"port"`
}

// Config is the decoded configuration file, defaults applied.
type Config struct {
	ListenIP         string    `toml:"listen_ip"`
	ListenPort       uint16    `toml:"listen_port"`
	Backends         []Backend `toml:"backends"`
	Transparent      bool      `toml:"transparent"`
	AttachSourceInfo bool      `toml:"attach_source_info"`
	StripFields      []string  `toml:"strip_fields"`
	BlankFields      []string  `toml:"blank_fields"`
	AllowedSourceIPs []string  `toml:"allowed_source_ips"`
	UseGzip          bool      `toml:"use_gzip"`
	ChunkSize        uint64    `toml:"chunk_size"`
	LogLevel         string    `toml:"log_level"`
	WebUIPort        *uint16   `toml:"web_ui_port"`
}

// defaults mirrors the table in the configuration reference: only
// listen_port is required; everything else has a default applied after
// decode, the way the original's #[serde(default = "...")] fields work.
func defaults() Config {
	return Config{
		ListenIP:    "127.0.0.1",
		Transparent: true,
		UseGzip:     true,
		ChunkSize:   1024,
		LogLevel:    "info",
	}
}

// Load reads and parses the TOML file at path, applying defaults for any
// field the file leaves unset.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, gelflberrors.NewConfigError("read", err)
	}

	cfg := defaults()
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, gelflberrors.NewConfigError("parse", err)
	}
	if cfg.ListenPort == 0 {
		return nil, gelflberrors.NewConfigError("validate.listen_port", fmt.Errorf("listen_port is required"))
	}
	return &cfg, nil
}

// ListenAddr resolves the configured listener address.
func (c *Config) ListenAddr() (*net.UDPAddr, error) {
	return net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", c.ListenIP, c.ListenPort))
}

// BackendAddrs resolves every configured backend to a *net.UDPAddr, in
// declared order.
func (c *Config) BackendAddrs() ([]net.Addr, error) {
	out := make([]net.Addr, 0, len(c.Backends))
	for _, b := range c.Backends {
		addr, err := net.ResolveUDPAddr("udp", fmt.Sprintf("%s:%d", b.IP, b.Port))
		if err != nil {
			return nil, gelflberrors.NewConfigError("resolve_backend", err)
		}
		out = append(out, addr)
	}
	return out, nil
}

// Validate checks startup invariants that are fatal if violated: at least
// one backend, and (in transparent mode) no address-family mismatch between
// the listener and any backend.
func (c *Config) Validate() error {
	if len(c.Backends) == 0 {
		return gelflberrors.NewConfigError("validate.backends", fmt.Errorf("at least one backend is required"))
	}

	listenAddr, err := c.ListenAddr()
	if err != nil {
		return gelflberrors.NewConfigError("validate.listen_ip", err)
	}
	listenIsV4 := listenAddr.IP.To4() != nil

	if !c.Transparent {
		return nil
	}
	backends, err := c.BackendAddrs()
	if err != nil {
		return err
	}
	for i, b := range backends {
		udpAddr := b.(*net.UDPAddr)
		if (udpAddr.IP.To4() != nil) != listenIsV4 {
			return gelflberrors.NewConfigError("validate.address_family",
				fmt.Errorf("backend %d (%s) address family does not match listener %s in transparent mode", i, udpAddr, listenAddr))
		}
	}
	return nil
}

// Dump re-serializes the effective configuration to TOML, for the status
// HTML page.
func (c *Config) Dump() (string, error) {
	b, err := toml.Marshal(c)
	if err != nil {
		return "", gelflberrors.NewConfigError("dump", err)
	}
	return string(b), nil
}
