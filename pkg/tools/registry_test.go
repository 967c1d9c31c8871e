package tools

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type echoTool struct {
	name   string
	params JSONSchema
	calls  []string
}

func (e *echoTool) Definition() ToolDefinition {
	return ToolDefinition{Name: e.name, Description: "echo", Parameters: e.params}
}

func (e *echoTool) Execute(_ context.Context, argsJSON string) (string, error) {
	e.calls = append(e.calls, argsJSON)
	return argsJSON, nil
}

func keywordSchema() JSONSchema {
	return JSONSchema{
		"type": "object",
		"properties": map[string]any{
			"keyword":   map[string]any{"type": "string"},
			"sortOrder": map[string]any{"type": "integer", "minimum": 0, "maximum": 10},
		},
		"required": []string{"keyword"},
	}
}

func TestRegister_RejectsInvalidDefinitions(t *testing.T) {
	r := NewRegistry()

	assert.Error(t, r.Register(&echoTool{name: "", params: keywordSchema()}))
	assert.Error(t, r.Register(&echoTool{name: "nil_params"}))
	assert.Error(t, r.Register(&echoTool{name: "array", params: JSONSchema{"type": "array"}}))
	assert.Error(t, r.Register(&echoTool{name: "no_type", params: JSONSchema{"properties": map[string]any{}}}))
	assert.NoError(t, r.Register(&echoTool{name: "ok", params: keywordSchema()}))
}

func TestGetDefinitions_Sorted(t *testing.T) {
	r, err := NewRegistryWith(
		&echoTool{name: "searchItem", params: keywordSchema()},
		&echoTool{name: "recommend", params: keywordSchema()},
	)
	require.NoError(t, err)

	defs := r.GetDefinitions()
	require.Len(t, defs, 2)
	assert.Equal(t, "recommend", defs[0].Name)
	assert.Equal(t, "searchItem", defs[1].Name)
}

func TestExecute_ValidatesArguments(t *testing.T) {
	tool := &echoTool{name: "searchItem", params: keywordSchema()}
	r, err := NewRegistryWith(tool)
	require.NoError(t, err)

	out, err := r.Execute(context.Background(), "searchItem", `{"keyword":"ソファ","sortOrder":6}`)
	require.NoError(t, err)
	assert.Equal(t, `{"keyword":"ソファ","sortOrder":6}`, out)

	cases := map[string]string{
		"missing required": `{"sortOrder":1}`,
		"wrong type":       `{"keyword":5}`,
		"out of range":     `{"keyword":"x","sortOrder":11}`,
		"not json":         `{keyword`,
		"empty":            ``,
	}
	for name, args := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := r.Execute(context.Background(), "searchItem", args)
			var argsErr *ArgsError
			require.True(t, errors.As(err, &argsErr), "got %v", err)
			assert.Equal(t, "searchItem", argsErr.Tool)
			assert.NotEmpty(t, argsErr.Details)
		})
	}

	// Невалидные вызовы до инструмента не доходят
	assert.Len(t, tool.calls, 1)
}

func TestExecute_UnknownTool(t *testing.T) {
	r := NewRegistry()
	_, err := r.Execute(context.Background(), "missing", "{}")

	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "missing", nf.Name)
}
