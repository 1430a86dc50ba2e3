package utils

import (
	"context"
	"net"
	"testing"
	"time"
)

func TestDialAddress(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"http://authorizer:8080", "authorizer:8080", false},
		{"http://authorizer", "authorizer:80", false},
		{"https://auth.example.com", "auth.example.com:443", false},
		{"ftp://files", "files:80", false},
		{"http://[::1]:9000", "[::1]:9000", false},
		{"not a url", "", true},
		{"://bad", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := DialAddress(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DialAddress(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DialAddress(%q) = %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestPingService(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("Failed to listen: %v", err)
	}
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	url := "http://" + listener.Addr().String()
	if err := PingService(context.Background(), url, time.Second); err != nil {
		t.Errorf("Expected listener to be reachable: %v", err)
	}

	listener.Close()
	if err := PingService(context.Background(), url, 200*time.Millisecond); err == nil {
		t.Error("Expected closed listener to be unreachable")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := PingAuthorizer(ctx, "http://127.0.0.1:1"); err == nil {
		t.Error("Expected a canceled probe to fail")
	}
}
