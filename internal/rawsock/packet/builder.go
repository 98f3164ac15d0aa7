// Package packet builds fully-formed IP+UDP datagrams for transparent
// forwarding, given a spoofed source address, a destination address, and a
// GELF payload. Checksums and lengths are computed by gopacket/layers.
package packet

import (
	"net"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// udpSourcePort is fixed per the outbound contract: backends always see
// source port 6666 regardless of the original sender's ephemeral port.
const udpSourcePort = 6666

// Builder constructs IP+UDP datagrams via gopacket/layers serialization.
type Builder struct{}

// Build produces the wire bytes for an IPv4 or IPv6 datagram from src to dst
// carrying payload. src and dst must be the same address family; a mismatch
// is a caller error.
func (Builder) Build(src, dst net.Addr, payload []byte) ([]byte, error) {
	srcIP, srcPort, err := splitIPPort(src)
	if err != nil {
		return nil, gelflberrors.NewForwardError("build.src", err)
	}
	dstIP, dstPort, err := splitIPPort(dst)
	if err != nil {
		return nil, gelflberrors.NewForwardError("build.dst", err)
	}

	srcV4 := srcIP.To4()
	dstV4 := dstIP.To4()
	if (srcV4 == nil) != (dstV4 == nil) {
		return nil, gelflberrors.NewForwardError("build.family_mismatch", nil)
	}
	_ = srcPort // the source port is overridden to udpSourcePort below

	udpLayer := &layers.UDP{
		SrcPort: layers.UDPPort(udpSourcePort),
		DstPort: layers.UDPPort(dstPort),
	}

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{ComputeChecksums: true, FixLengths: true}

	var netLayer gopacket.NetworkLayer
	if srcV4 != nil {
		ipLayer := &layers.IPv4{
			Version:  4,
			TTL:      32,
			Protocol: layers.IPProtocolUDP,
			SrcIP:    srcV4,
			DstIP:    dstV4,
		}
		netLayer = ipLayer
		udpLayer.SetNetworkLayerForChecksum(ipLayer)
		if err := gopacket.SerializeLayers(buf, opts, ipLayer, udpLayer, gopacket.Payload(payload)); err != nil {
			return nil, gelflberrors.NewForwardError("build.serialize", err)
		}
	} else {
		ipLayer := &layers.IPv6{
			Version:      6,
			TrafficClass: 0,
			FlowLabel:    0,
			NextHeader:   layers.IPProtocolUDP,
			HopLimit:     64,
			SrcIP:        srcIP.To16(),
			DstIP:        dstIP.To16(),
		}
		netLayer = ipLayer
		udpLayer.SetNetworkLayerForChecksum(ipLayer)
		if err := gopacket.SerializeLayers(buf, opts, ipLayer, udpLayer, gopacket.Payload(payload)); err != nil {
			return nil, gelflberrors.NewForwardError("build.serialize", err)
		}
	}
	_ = netLayer

	out := make([]byte, len(buf.Bytes()))
	copy(out, buf.Bytes())
	return out, nil
}

func splitIPPort(a net.Addr) (net.IP, uint16, error) {
	udpAddr, ok := a.(*net.UDPAddr)
	if !ok {
		host, portStr, err := net.SplitHostPort(a.String())
		if err != nil {
			return nil, 0, err
		}
		ip := net.ParseIP(host)
		if ip == nil {
			return nil, 0, gelflberrors.NewForwardError("parse_addr", nil)
		}
		port, err := net.LookupPort("udp", portStr)
		if err != nil {
			return nil, 0, err
		}
		return ip, uint16(port), nil
	}
	return udpAddr.IP, uint16(udpAddr.Port), nil
}
