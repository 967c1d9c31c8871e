package factory

import (
	"testing"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLLMProvider(t *testing.T) {
	p, err := NewLLMProvider(config.ModelDef{Provider: "openai", ModelName: "gpt-4o-mini", APIKey: "k"})
	require.NoError(t, err)
	assert.NotNil(t, p)

	_, err = NewLLMProvider(config.ModelDef{Provider: "anthropic"})
	assert.Error(t, err)
}
