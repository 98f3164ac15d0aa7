//go:build linux || darwin

package rawsock

import (
	"net"

	"golang.org/x/sys/unix"

	gelflberrors "github.com/alxayo/gelflb/internal/errors"
)

// PosixSender opens a SOCK_RAW/IPPROTO_RAW socket per send, the matching Go
// analogue of the C socket/sendto/close sequence: throughput target is
// thousands, not millions, of packets per second, so paying the open/close
// cost per datagram is acceptable.
type PosixSender struct{}

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
	return sendRawV6(datagram, udpAddr.IP.To16(), udpAddr.Port, udpAddr.Zone)
}

func sendRawV4(datagram []byte, ip net.IP, port int) error {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return gelflberrors.NewForwardError("socket.v4", err)
	}
	defer unix.Close(fd)

	var addr unix.SockaddrInet4
	copy(addr.Addr[:], ip)
	addr.Port = port

	if err := unix.Sendto(fd, datagram, 0, &addr); err != nil {
		return gelflberrors.NewForwardError("sendto.v4", err)
	}
	return nil
}

func sendRawV6(datagram []byte, ip net.IP, port int, zone string) error {
	fd, err := unix.Socket(unix.AF_INET6, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return gelflberrors.NewForwardError("socket.v6", err)
	}
	defer unix.Close(fd)

	var addr unix.SockaddrInet6
	copy(addr.Addr[:], ip)
	addr.Port = port
	if zone != "" {
		if iface, err := net.InterfaceByName(zone); err == nil {
			addr.ZoneId = uint32(iface.Index)
		}
	}

	if err := unix.Sendto(fd, datagram, 0, &addr); err != nil {
		return gelflberrors.NewForwardError("sendto.v6", err)
	}
	return nil
}
