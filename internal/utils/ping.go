package utils

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"time"
)

// AuthorizerPingTimeout bounds a single Authorizer reachability probe
const AuthorizerPingTimeout = 1500 * time.Millisecond

var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

// DialAddress returns the host:port a TCP probe of serviceURL dials
func DialAddress(serviceURL string) (string, error) {
	parsed, err := url.Parse(serviceURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Hostname() == "" {
		return "", fmt.Errorf("invalid URL %q: no host", serviceURL)
	}

	port := parsed.Port()
	if port == "" {
		if port = defaultPorts[parsed.Scheme]; port == "" {
			port = "80"
		}
	}
	return net.JoinHostPort(parsed.Hostname(), port), nil
}

// PingService opens and closes a TCP connection to serviceURL. The probe gives up
// at timeout or when ctx is done, whichever comes first.
func PingService(ctx context.Context, serviceURL string, timeout time.Duration) error {
	address, err := DialAddress(serviceURL)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", address, err)
	}
	return conn.Close()
}

// PingAuthorizer checks if the Authorizer service is reachable
func PingAuthorizer(ctx context.Context, authzURL string) error {
	return PingService(ctx, authzURL, AuthorizerPingTimeout)
}
