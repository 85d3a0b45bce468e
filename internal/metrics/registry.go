package metrics

import (
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/testrank/internal/errors"
)

// NewRegistry creates a new Prometheus registry with metrics
func NewRegistry() (*prometheus.Registry, *Metrics) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	return reg, m
}

// WriteTextfile writes the registry in the text exposition format, for
// pickup by the node exporter textfile collector after a CI run.
func WriteTextfile(reg prometheus.Gatherer, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(errors.ErrCodeFileWriteFailed, "create metrics directory", err)
		}
	}
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return errors.Wrap(errors.ErrCodeFileWriteFailed, "write metrics file", err)
	}
	return nil
}
