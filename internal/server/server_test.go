package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"
)

func TestConfigAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 80, "0.0.0.0:80"},
		{"", 8080, ":8080"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			c := &Config{Host: tt.host, Port: tt.port}
			if got := c.Addr(); got != tt.want {
				t.Errorf("Addr() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServeAndShutdown(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "hello")
	})
	srv := New(&Config{Host: "127.0.0.1", Port: 0}, handler)

	if srv.Addr() != nil {
		t.Error("Addr() should be nil before Listen")
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx) }()

	select {
	case <-srv.Ready():
	case <-time.After(5 * time.Second):
		t.Fatal("server did not bind")
	}

	resp, err := http.Get("http://" + srv.Addr().String() + "/")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "hello" {
		t.Errorf("body = %q, want hello", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve() error = %v", err)
		}
	case <-time.After(DefaultShutdownTimeout + time.Second):
		t.Fatal("Serve() did not return after cancel")
	}
}

func TestListenTwiceIsNoop(t *testing.T) {
	srv := New(&Config{Host: "127.0.0.1", Port: 0}, http.NotFoundHandler())
	if err := srv.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	addr := srv.Addr().String()
	if err := srv.Listen(); err != nil {
		t.Fatalf("second Listen() error = %v", err)
	}
	if srv.Addr().String() != addr {
		t.Errorf("second Listen() rebound to %s", srv.Addr())
	}
	_ = srv.listener.Close()
}

func TestListenFailure(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("net.Listen() error = %v", err)
	}
	defer func() { _ = taken.Close() }()
	port := taken.Addr().(*net.TCPAddr).Port

	srv := New(&Config{Host: "127.0.0.1", Port: port}, http.NotFoundHandler())
	if err := srv.Listen(); err == nil {
		t.Error("Listen() on a bound port should fail")
	}
	if srv.GetActiveConnections() != 0 {
		t.Error("no connections expected")
	}
}
