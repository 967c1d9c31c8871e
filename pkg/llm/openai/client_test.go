package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ilkoid/rakuten-agent/pkg/config"
	"github.com/ilkoid/rakuten-agent/pkg/llm"
	"github.com/ilkoid/rakuten-agent/pkg/tools"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewClient тестирует создание клиента.
func TestNewClient(t *testing.T) {
	tests := []struct {
		name     string
		modelDef config.ModelDef
	}{
		{
			name: "minimal config",
			modelDef: config.ModelDef{
				APIKey:    "test-key",
				ModelName: "gpt-4o-mini",
			},
		},
		{
			name: "with custom base url",
			modelDef: config.ModelDef{
				APIKey:    "test-key",
				ModelName: "glm-4",
				BaseURL:   "https://api.z.ai/v4",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(tt.modelDef)
			require.NotNil(t, client)
			assert.Equal(t, tt.modelDef.ModelName, client.model)
			assert.NotNil(t, client.api)
			assert.Equal(t, llm.ToolChoiceAuto, client.defaults.ToolChoice)
		})
	}
}

// TestConvertToolsToOpenAI тестирует конвертацию tools.
func TestConvertToolsToOpenAI(t *testing.T) {
	input := []tools.ToolDefinition{
		{
			Name:        "searchItem",
			Description: "商品の検索をする",
			Parameters: tools.JSONSchema{
				"type": "object",
				"properties": map[string]any{
					"keyword": map[string]any{"type": "string"},
				},
			},
		},
		{
			Name:        "recommend",
			Description: "おすすめの商品を紹介する",
			Parameters:  tools.JSONSchema{"type": "object", "properties": map[string]any{}},
		},
	}

	result := convertToolsToOpenAI(input)

	require.Len(t, result, 2)
	assert.Equal(t, "function", string(result[0].Type))
	assert.Equal(t, "searchItem", result[0].Function.Name)
	assert.Equal(t, "商品の検索をする", result[0].Function.Description)
	assert.NotNil(t, result[0].Function.Parameters)
	assert.Equal(t, "recommend", result[1].Function.Name)
}

func TestMapRoundTrip_ToolCalls(t *testing.T) {
	in := llm.Message{
		Role: llm.RoleAssistant,
		ToolCalls: []llm.ToolCall{
			{ID: "call_1", Name: "recommend", Args: `{"itemName":"a"}`},
		},
	}

	sdk := mapToOpenAI(in)
	require.Len(t, sdk.ToolCalls, 1)
	assert.Equal(t, "recommend", sdk.ToolCalls[0].Function.Name)

	back := mapFromOpenAI(sdk)
	assert.Equal(t, in, back)
}

func TestBuildRequest_ZeroTemperatureIsSent(t *testing.T) {
	zero := 0.0
	req := buildRequest(llm.GenerateOptions{Model: "m", Temperature: &zero}, []llm.Message{llm.UserMessage("hi")}, nil)

	assert.Greater(t, req.Temperature, float32(0))
	assert.Less(t, req.Temperature, float32(1e-30))
	assert.Nil(t, req.ToolChoice)
	assert.Empty(t, req.Tools)
}

func TestGenerate_AgainstFakeServer(t *testing.T) {
	var captured map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &captured))

		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"finish_reason": "tool_calls",
				"message": {
					"role": "assistant",
					"content": "",
					"tool_calls": [
						{"id": "call_a", "type": "function", "function": {"name": "searchItem", "arguments": "{\"keyword\":\"ソファ\",\"sortOrder\":6,\"sort\":\"価格順（昇順）\"}"}},
						{"id": "call_b", "type": "function", "function": {"name": "searchItem", "arguments": "{\"keyword\":\"椅子\",\"sortOrder\":10,\"sort\":\"標準\"}"}}
					]
				}
			}]
		}`)
	}))
	defer srv.Close()

	client := NewClient(config.ModelDef{
		APIKey:    "test-key",
		ModelName: "gpt-4o-mini",
		BaseURL:   srv.URL + "/v1",
	})

	defs := []tools.ToolDefinition{{
		Name:       "searchItem",
		Parameters: tools.JSONSchema{"type": "object", "properties": map[string]any{}},
	}}

	msg, err := client.Generate(context.Background(), []llm.Message{llm.UserMessage("ソファを探しています")}, defs)
	require.NoError(t, err)

	assert.Equal(t, llm.RoleAssistant, msg.Role)
	require.Len(t, msg.ToolCalls, 2)
	assert.Equal(t, "call_a", msg.ToolCalls[0].ID)
	assert.Equal(t, "searchItem", msg.ToolCalls[0].Name)
	assert.JSONEq(t, `{"keyword":"ソファ","sortOrder":6,"sort":"価格順（昇順）"}`, msg.ToolCalls[0].Args)

	assert.Equal(t, "gpt-4o-mini", captured["model"])
	assert.Equal(t, "auto", captured["tool_choice"])
	assert.Len(t, captured["tools"], 1)
	assert.Len(t, captured["messages"], 1)
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"error":{"message":"bad key","type":"invalid_request_error"}}`)
	}))
	defer srv.Close()

	client := NewClient(config.ModelDef{APIKey: "x", ModelName: "m", BaseURL: srv.URL + "/v1"})
	_, err := client.Generate(context.Background(), []llm.Message{llm.UserMessage("hi")}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "openai api error")
}
