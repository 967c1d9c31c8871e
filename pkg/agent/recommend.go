package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"github.com/ilkoid/rakuten-agent/pkg/render"
	"github.com/ilkoid/rakuten-agent/pkg/tools"
)

// RecommendToolName — имя инструмента рекомендации для модели.
const RecommendToolName = "recommend"

// RecommendTool выводит выбранный моделью товар.
type RecommendTool struct {
	out io.Writer

	mu    sync.Mutex
	picks []Recommendation
}

// NewRecommendTool создает инструмент, печатающий в out.
func NewRecommendTool(out io.Writer) *RecommendTool {
	return &RecommendTool{out: out}
}

func (t *RecommendTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        RecommendToolName,
		Description: "おすすめの商品を紹介する",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"itemName": map[string]any{
					"type":        "string",
					"description": "おすすめする商品の商品名",
				},
				"itemUrl": map[string]any{
					"type":        "string",
					"description": "おすすめする商品のURL",
				},
				"reason": map[string]any{
					"type":        "string",
					"description": "おすすめする理由",
				},
			},
			"required": []any{"itemName", "itemUrl", "reason"},
		},
	}
}

func (t *RecommendTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var rec Recommendation
	if err := json.Unmarshal([]byte(argsJSON), &rec); err != nil {
		return "", fmt.Errorf("invalid arguments: %w", err)
	}

	// Вывод и учёт под одним замком: блоки не перемешиваются
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := render.Recommendation(t.out, rec.ItemName, rec.ItemURL, rec.Reason); err != nil {
		return "", fmt.Errorf("write recommendation: %w", err)
	}
	t.picks = append(t.picks, rec)

	return "ok", nil
}

// Picks возвращает выведенные рекомендации в порядке вывода.
func (t *RecommendTool) Picks() []Recommendation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Recommendation(nil), t.picks...)
}
