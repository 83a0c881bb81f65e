package telemetry

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"
)

func TestStartMetricsServerDisabled(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{Enabled: false})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.StartMetricsServer(); err != nil {
		t.Errorf("disabled metrics must not start a server: %v", err)
	}
	if m.ServerAddr() != "" {
		t.Errorf("expected no bound address, got %s", m.ServerAddr())
	}
}

func TestStartMetricsServerOncePerInstance(t *testing.T) {
	m, err := NewMetrics(MetricsConfig{
		Enabled:       true,
		ListenAddress: "127.0.0.1:0",
		Path:          "/metrics",
		Namespace:     "selfdeploy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.StartMetricsServer(); err != nil {
		t.Fatalf("failed to start metrics server: %v", err)
	}
	addr := m.ServerAddr()
	if addr == "" {
		t.Fatal("expected a bound address")
	}

	// Repeated calls reuse the running server instead of rebinding.
	if err := m.StartMetricsServer(); err != nil {
		t.Errorf("second start must be a no-op: %v", err)
	}
	if m.ServerAddr() != addr {
		t.Errorf("address changed from %s to %s", addr, m.ServerAddr())
	}

	m.RecordDeployStarted("local")
	m.RecordDeployCompleted("succeeded", time.Second)

	resp, err := http.Get(fmt.Sprintf("http://%s/metrics", addr))
	if err != nil {
		t.Fatalf("failed to scrape metrics: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	if !strings.Contains(string(body), "selfdeploy_deploys_started_total") {
		t.Error("expected deploy counter in metrics output")
	}
}

func TestStartMetricsServerBindFailure(t *testing.T) {
	// Occupy a port so the bind fails.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	defer listener.Close()

	m, err := NewMetrics(MetricsConfig{
		Enabled:       true,
		ListenAddress: listener.Addr().String(),
		Path:          "/metrics",
		Namespace:     "selfdeploy",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := m.StartMetricsServer(); err == nil {
		t.Fatal("expected an error for an occupied address")
	}
}
