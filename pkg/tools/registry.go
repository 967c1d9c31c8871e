// Реестр для хранения, поиска и вызова инструментов.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

// Registry — потокобезопасное хранилище инструментов.
type Registry struct {
	mu      sync.RWMutex
	tools   map[string]Tool
	schemas map[string]*gojsonschema.Schema
}

// NewRegistry создает новый пустой реестр.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		schemas: make(map[string]*gojsonschema.Schema),
	}
}

// NewRegistryWith создает реестр и регистрирует в нём инструменты.
func NewRegistryWith(ts ...Tool) (*Registry, error) {
	r := NewRegistry()
	for _, t := range ts {
		if err := r.Register(t); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// validateToolDefinition проверяет что ToolDefinition соответствует JSON Schema.
//
// Валидирует:
//   - Name не пустой
//   - Parameters является JSON объектом с type == "object"
//   - Parameters компилируется как JSON Schema
func validateToolDefinition(def ToolDefinition) (*gojsonschema.Schema, error) {
	if def.Name == "" {
		return nil, fmt.Errorf("tool name cannot be empty")
	}

	if def.Parameters == nil {
		return nil, fmt.Errorf("tool '%s': parameters cannot be nil", def.Name)
	}

	typeStr, ok := def.Parameters["type"].(string)
	if !ok {
		return nil, fmt.Errorf("tool '%s': parameters must have string 'type' field", def.Name)
	}
	if typeStr != "object" {
		return nil, fmt.Errorf("tool '%s': parameters.type must be 'object', got: '%s'", def.Name, typeStr)
	}

	schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(map[string]any(def.Parameters)))
	if err != nil {
		return nil, fmt.Errorf("tool '%s': invalid parameters schema: %w", def.Name, err)
	}

	return schema, nil
}

// Register добавляет инструмент в реестр с валидацией схемы.
//
// Возвращает ошибку если определение инструмента не валидно.
func (r *Registry) Register(tool Tool) error {
	def := tool.Definition()

	schema, err := validateToolDefinition(def)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.tools[def.Name] = tool
	r.schemas[def.Name] = schema
	return nil
}

// Get ищет инструмент по имени.
func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tool, ok := r.tools[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return tool, nil
}

// GetDefinitions возвращает список всех определений для отправки в LLM.
//
// Порядок детерминирован (по имени).
func (r *Registry) GetDefinitions() []ToolDefinition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, t := range r.tools {
		defs = append(defs, t.Definition())
	}
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })
	return defs
}

// ValidateArgs проверяет JSON аргументов против схемы инструмента.
func (r *Registry) ValidateArgs(name, argsJSON string) error {
	r.mu.RLock()
	schema, ok := r.schemas[name]
	r.mu.RUnlock()
	if !ok {
		return &NotFoundError{Name: name}
	}

	if argsJSON == "" {
		argsJSON = "{}"
	}
	if !json.Valid([]byte(argsJSON)) {
		return &ArgsError{Tool: name, Details: []string{"arguments are not valid JSON"}}
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(argsJSON))
	if err != nil {
		return &ArgsError{Tool: name, Details: []string{err.Error()}}
	}
	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return &ArgsError{Tool: name, Details: details}
	}
	return nil
}

// Execute находит инструмент, валидирует аргументы и вызывает его.
func (r *Registry) Execute(ctx context.Context, name, argsJSON string) (string, error) {
	tool, err := r.Get(name)
	if err != nil {
		return "", err
	}
	if argsJSON == "" {
		argsJSON = "{}"
	}
	if err := r.ValidateArgs(name, argsJSON); err != nil {
		return "", err
	}
	return tool.Execute(ctx, argsJSON)
}
