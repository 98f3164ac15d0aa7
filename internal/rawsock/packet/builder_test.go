package packet

import (
	"net"
	"testing"
)

func TestBuildIPv4RejectsFamilyMismatch(t *testing.T) {
	src := &net.UDPAddr{IP: net.ParseIP("10.0.0.5"), Port: 5000}
	dst := &net.UDPAddr{IP: net.ParseIP("::1"), Port: 12000}
	if _, err := (Builder{}).Build(src, dst, []byte("payload")); err == nil {
		t.Fatalf("expected error for mixed address families")
	}
}

func TestBuildIPv4ProducesNonEmptyDatagram(t *testing.T) {
	src := &net.UDPAddr{IP: net.ParseIP("10.0.0.5"), Port: 5000}
	dst := &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: 12000}
	payload := []byte("hello gelf")

	out, err := (Builder{}).Build(src, dst, payload)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	// IPv4 (20 bytes, no options) + UDP (8 bytes) + payload
	if len(out) != 20+8+len(payload) {
		t.Fatalf("unexpected datagram length %d", len(out))
	}
}

func TestBuildIPv6ProducesNonEmptyDatagram(t *testing.T) {
	src := &net.UDPAddr{IP: net.ParseIP("::1"), Port: 5000}
	dst := &net.UDPAddr{IP: net.ParseIP("::2"), Port: 12000}
	payload := []byte("hello gelf v6")

	out, err := (Builder{}).Build(src, dst, payload)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(out) != 40+8+len(payload) {
		t.Fatalf("unexpected datagram length %d", len(out))
	}
}
