// Package util provides helpers shared by the integration tests: disposable
// brokers and databases in containers, free ports and metric polling.
package util

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	MosquittoReadyTimeout = 5 * time.Second
	MetricTimeout         = 5 * time.Second

	pollInterval = 50 * time.Millisecond
)

// FreeAddr returns a loopback address with a port that was free at the time
// of the call.
func FreeAddr() (string, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", err
	}
	addr := l.Addr().String()
	if err := l.Close(); err != nil {
		return "", err
	}
	return addr, nil
}

// poll calls probe until it reports done, returns an error or ctx ends.
func poll(ctx context.Context, probe func() (bool, error)) error {
	for {
		done, err := probe()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(pollInterval):
		}
	}
}

// WaitForMetric scrapes metricsURL until its body contains substr.
func WaitForMetric(ctx context.Context, metricsURL, substr string) error {
	err := poll(ctx, func() (bool, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, metricsURL, nil)
		if err != nil {
			return false, err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return false, nil
		}
		defer func() { _ = resp.Body.Close() }()
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return false, fmt.Errorf("read metrics body: %w", err)
		}
		return strings.Contains(string(body), substr), nil
	})
	if err != nil {
		return fmt.Errorf("metric %q not found: %w", substr, err)
	}
	return nil
}
