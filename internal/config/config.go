package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Settings holds the environment configuration shared by the API and the
// invoice worker.
type Settings struct {
	OrdersTable      string `envconfig:"ORDERS_TABLE" default:"orders"`
	PolicyTable      string `envconfig:"POLICY_TABLE" default:"order-policy"`
	EventsQueueURL   string `envconfig:"EVENTS_QUEUE_URL"`
	Region           string `envconfig:"AWS_REGION"`
	RunLocal         bool   `envconfig:"RUN_LOCAL"`
	HTTPAddr         string `envconfig:"HTTP_ADDR" default:":8080"`
	WriteRetries     int    `envconfig:"WRITE_RETRIES" default:"3"`
	MetricsNamespace string `envconfig:"METRICS_NAMESPACE" default:"OrderWorkflow"`
}

// Load reads settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("", &s); err != nil {
		return s, fmt.Errorf("process env config: %w", err)
	}
	if s.WriteRetries < 1 {
		s.WriteRetries = 1
	}
	return s, nil
}
