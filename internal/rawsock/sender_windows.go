//go:build windows

package rawsock

import (
	"net"
	"syscall"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// PosixSender is named for interface parity with the Unix build; on Windows
// it sets IP_HDRINCL/IPV6_HDRINCL so the stack does not prepend its own IP
// header over the one already present in datagram.
type PosixSender struct{}

const (
	ipHdrIncl   = 2 // IP_HDRINCL
	ipv6HdrIncl = 36
)

// SendRaw transmits datagram to dst over a one-shot raw socket.
func (PosixSender) SendRaw(datagram []byte, dst net.Addr) error {
	udpAddr, ok := dst.(*net.UDPAddr)
	if !ok {
		resolved, err := net.ResolveUDPAddr("udp", dst.String())
		if err != nil {
			return gelflberrors.NewForwardError("resolve_dst", err)
		}
		udpAddr = resolved
	}

	if ip4 := udpAddr.IP.To4(); ip4 != nil {
		return sendRawV4(datagram, ip4, udpAddr.Port)
	}
	return sendRawV6(datagram, udpAddr.IP.To16(), udpAddr.Port)
}

func sendRawV4(datagram []byte, ip net.IP, port int) error {
	fd, err := syscall.Socket(syscall.AF_INET, syscall.SOCK_RAW, syscall.IPPROTO_UDP)
	if err != nil {
		return gelflberrors.NewForwardError("socket.v4", err)
	}
	defer syscall.Closesocket(fd)

	if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_IP, ipHdrIncl, 1); err != nil {
		return gelflberrors.NewForwardError("setsockopt.hdrincl", err)
	}

	var addr syscall.SockaddrInet4
	copy(addr.Addr[:], ip)
	addr.Port = port
	if err := syscall.Sendto(fd, datagram, 0, &addr); err != nil {
		return gelflberrors.NewForwardError("sendto.v4", err)
	}
	return nil
}

func sendRawV6(datagram []byte, ip net.IP, port int) error {
	fd, err := syscall.Socket(syscall.AF_INET6, syscall.SOCK_RAW, syscall.IPPROTO_UDP)
	if err != nil {
		return gelflberrors.NewForwardError("socket.v6", err)
	}
	defer syscall.Closesocket(fd)

	if err := syscall.SetsockoptInt(fd, syscall.IPPROTO_IPV6, ipv6HdrIncl, 1); err != nil {
		return gelflberrors.NewForwardError("setsockopt.hdrincl6", err)
	}

	var addr syscall.SockaddrInet6
	copy(addr.Addr[:], ip)
	addr.Port = port
	if err := syscall.Sendto(fd, datagram, 0, &addr); err != nil {
		return gelflberrors.NewForwardError("sendto.v6", err)
	}
	return nil
}
