package httpapi

import "time"

type Config struct {
	Addr             string        `envconfig:"ADDR" default:":8000"`
	AllowedOrigins   []string      `envconfig:"ALLOWED_ORIGINS" split_words:"true" default:"http://localhost:3000,http://127.0.0.1:3000"`
	ReadTimeout      time.Duration `envconfig:"READ_TIMEOUT" split_words:"true" default:"15s"`
	WriteTimeout     time.Duration `envconfig:"WRITE_TIMEOUT" split_words:"true" default:"90s"`
	ShutdownTimeout  time.Duration `envconfig:"SHUTDOWN_TIMEOUT" split_words:"true" default:"10s"`
	HistoryLimit     int           `envconfig:"HISTORY_LIMIT" split_words:"true" default:"10"`
	MetricsNamespace string        `envconfig:"METRICS_NAMESPACE" split_words:"true" default:"shop_assistant"`
}
