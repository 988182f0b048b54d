// Package netutil provides small network address helpers.
package netutil

import (
	"net"
	"strings"
)

// LocalIP returns the primary local IPv4 address. The UDP dial never sends
// a packet; it only asks the OS which interface would route out.
func LocalIP() (string, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return "", err
	}
	defer conn.Close()

	localAddr := conn.LocalAddr().(*net.UDPAddr)
	return localAddr.IP.String(), nil
}

// AdvertiseURL builds the endpoint URL clients should use to reach a
// listener bound on this machine. listenAddr may bind a wildcard host.
func AdvertiseURL(listenAddr string) string {
	host, port, err := net.SplitHostPort(listenAddr)
	if err != nil {
		return "ws://" + listenAddr + "/ws"
	}

	if host == "" || host == "0.0.0.0" || host == "::" || strings.HasPrefix(host, "[::]") {
		if ip, err := LocalIP(); err == nil {
			host = ip
		} else {
			host = "127.0.0.1"
		}
	}

	return "ws://" + net.JoinHostPort(host, port) + "/ws"
}
