package monitoring

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cascade-live/cascade/pkg/config"
	"github.com/cascade-live/cascade/pkg/logger"
)

func TestMetricsEndpoint(t *testing.T) {
	m := New(config.Monitoring{Port: 0, URLPrefix: "/test", MetricEnabled: true}, "127.0.0.1", logger.Nop())
	if m.Addr() == "" {
		t.Fatalf("no server")
	}
	m.Run()
	defer func() { _ = m.Shutdown(context.Background()) }()

	var (
		resp *http.Response
		err  error
	)
	for range 20 {
		resp, err = http.Get("http://" + m.Addr() + "/test/metrics")
		if err == nil {
			break
		}
		time.Sleep(50 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("couldn't reach metrics: %v", err)
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(body), "go_goroutines") {
		t.Errorf("unexpected metrics response %v", resp.StatusCode)
	}
}
