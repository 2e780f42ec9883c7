//go:build !windows
// +build !windows

package ipc

import (
	"fmt"
	"net"
	"os"
	"time"
)

// CreatePlatformListener listens on a Unix domain socket at socketPath,
// replacing a stale socket file.
func CreatePlatformListener(socketPath string) (net.Listener, error) {
	if err := CleanupSocket(socketPath); err != nil {
		return nil, fmt.Errorf("cleanup socket: %w", err)
	}

	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("listen unix: %w", err)
	}

	// viewers may run as another local user
	if err := os.Chmod(socketPath, 0666); err != nil {
		listener.Close()
		return nil, fmt.Errorf("chmod socket: %w", err)
	}

	return listener, nil
}

// ConnectPlatform dials the Unix socket at socketPath.
func ConnectPlatform(socketPath string) (net.Conn, error) {
	return net.DialTimeout("unix", socketPath, time.Second)
}

// PlatformAddress returns the address viewers dial, for logging.
func PlatformAddress(socketPath string) string {
	return socketPath
}
