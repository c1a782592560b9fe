package tunnel

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckLocalPortFree(t *testing.T) {
	require := require.New(t)

	// Grab a free port number by binding to 0 and releasing it
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(listener.Close())

	require.NoError(checkLocalPort(port))
}

func TestCheckLocalPortBusy(t *testing.T) {
	require := require.New(t)

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(err)
	defer listener.Close()

	port := listener.Addr().(*net.TCPAddr).Port
	require.Error(checkLocalPort(port))
}

func TestAddr(t *testing.T) {
	require := require.New(t)

	tunnel := &Tunnel{LocalPort: 3306, RemotePort: 3306}
	require.Equal("127.0.0.1:3306", tunnel.Addr())
}
