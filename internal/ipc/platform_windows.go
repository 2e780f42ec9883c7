//go:build windows
// +build windows

package ipc

import (
	"fmt"
	"net"
	"time"
)

// CreatePlatformListener listens on DefaultTCPPort; socketPath is ignored
// on Windows.
func CreatePlatformListener(socketPath string) (net.Listener, error) {
	listener, err := net.Listen("tcp", DefaultTCPPort)
	if err != nil {
		return nil, fmt.Errorf("listen tcp %s: %w", DefaultTCPPort, err)
	}

	return listener, nil
}

// ConnectPlatform dials DefaultTCPPort.
func ConnectPlatform(socketPath string) (net.Conn, error) {
	return net.DialTimeout("tcp", DefaultTCPPort, time.Second)
}

// PlatformAddress returns the address viewers dial, for logging.
func PlatformAddress(socketPath string) string {
	return DefaultTCPPort + " (tcp)"
}
