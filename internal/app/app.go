// Package app wires configuration into the widget's components. Both entry
// points build on it.
package app

import (
	"net/http"

	"korean_news_vn/internal/config"
	"korean_news_vn/internal/controller"
	"korean_news_vn/internal/metrics"
	"korean_news_vn/internal/translator"

	openai "github.com/sashabaranov/go-openai"
)

// NewController создаёт контроллер по настройкам обновления.
func NewController(cfg *config.Config, m *metrics.Metrics) *controller.Controller {
	return controller.New(controller.Options{
		Delay:       cfg.RefreshDelay(),
		Interval:    cfg.Interval(),
		Source:      cfg.DefaultSource,
		AutoRefresh: cfg.AutoRefresh,
		Metrics:     m,
	})
}

// NewTranslator выбирает провайдера перевода.
func NewTranslator(cfg config.Translator) translator.Translator {
	switch cfg.Provider {
	case "openai":
		oc := openai.DefaultConfig(cfg.APIKey)
		if cfg.Endpoint != "" {
			oc.BaseURL = cfg.Endpoint
		}
		oc.HTTPClient = &http.Client{Timeout: cfg.Timeout()}
		return translator.NewOpenAIClient(oc, cfg.Model, cfg.MaxTokens)
	default:
		return translator.NewAnthropicClient(cfg.Endpoint, cfg.Model, cfg.MaxTokens, cfg.APIKey, cfg.Timeout())
	}
}
