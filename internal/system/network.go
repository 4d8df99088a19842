package system

import (
	"context"
	"errors"
	"net"
	"strings"
)

// InterfaceNetInfo finds the first non-loopback IPv4 address of an
// interface that is up. Prefix, when set, restricts the interface names
// (e.g. "wlan" or "eth").
type InterfaceNetInfo struct {
	Prefix string
}

var ErrNoAddress = errors.New("no ipv4 address")

func (n InterfaceNetInfo) IP(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", err
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if n.Prefix != "" && !strings.HasPrefix(iface.Name, n.Prefix) {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if ip := firstIPv4(addrs); ip != "" {
			return ip, nil
		}
	}
	return "", ErrNoAddress
}

func firstIPv4(addrs []net.Addr) string {
	for _, a := range addrs {
		var ip net.IP
		switch v := a.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil && !ip4.IsLoopback() && !ip4.IsLinkLocalUnicast() {
			return ip4.String()
		}
	}
	return ""
}

// BaseURL is the address other devices use to reach the web server: the
// configured public URL, or http://ip:port derived from the listen address.
func BaseURL(publicURL, ip, listen string) string {
	if publicURL != "" {
		return strings.TrimRight(publicURL, "/") + "/"
	}
	if ip == "" {
		return ""
	}
	_, port, err := net.SplitHostPort(listen)
	if err != nil || port == "" || port == "80" {
		return "http://" + ip + "/"
	}
	return "http://" + net.JoinHostPort(ip, port) + "/"
}
