package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every lazyflow metric name.
const DefaultNamespace = "lazyflow"

// Config holds configuration for metrics collection.
type Config struct {
	// Enabled controls whether metrics collection is active.
	Enabled bool `mapstructure:"enabled"`

	// Registry is the Prometheus registry to use. If nil, uses prometheus.DefaultRegisterer.
	Registry prometheus.Registerer `mapstructure:"-"`

	// Namespace overrides the default "lazyflow" namespace for metrics.
	Namespace string `mapstructure:"namespace"`

	// Labels are additional constant labels to add to all metrics.
	Labels prometheus.Labels `mapstructure:"labels"`
}

// DefaultConfig returns a default metrics configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:   true,
		Registry:  prometheus.DefaultRegisterer,
		Namespace: DefaultNamespace,
		Labels:    nil,
	}
}
