package factory

import (
	"fmt"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/llm"
	"github.com/ilkoid/rakuten-agent/pkg/llm/openai"
)

// NewLLMProvider создает провайдера на основе конфигурации модели.
//
// Все перечисленные провайдеры говорят на OpenAI-совместимом API
// и отличаются только base_url.
func NewLLMProvider(modelDef config.ModelDef) (llm.Provider, error) {
	switch modelDef.Provider {
	case "openai", "zai", "deepseek", "openrouter", "":
		return openai.NewClient(modelDef), nil

	default:
		return nil, fmt.Errorf("unknown provider type: %s", modelDef.Provider)
	}
}
