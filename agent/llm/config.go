package llm

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/chative-shop-assistant/agent/contract"
	openrouterx "github.com/tanpawarit/chative-shop-assistant/pkg/openrouter"
)

const (
	ProviderEino   = "eino"
	ProviderOpenAI = "openai"
)

// Config is the OpenRouter connection plus the client used to reach it.
type Config struct {
	openrouterx.Config
	Provider string `envconfig:"PROVIDER" default:"eino"`
}

// Enabled is false when no API key is configured.
func (c Config) Enabled() bool {
	return c.Configured()
}

func (c Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: model is required", contractx.ErrValidation)
	}
	switch c.provider() {
	case ProviderEino, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", contractx.ErrValidation, c.Provider)
	}
	return nil
}

func (c Config) provider() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return ProviderEino
	}
	return p
}
