package testutil

import (
	"net"
	"testing"
)

// FreeAddr возвращает свободный адрес "127.0.0.1:port" для сервера,
// который сам вызывает Listen.
func FreeAddr(t testing.TB) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to create TCP listener: %v", err)
	}
	addr := listener.Addr().String()
	if err := listener.Close(); err != nil {
		t.Fatalf("closing port listener: %v", err)
	}
	return addr
}
