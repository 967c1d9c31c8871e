package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilkoid/rakuten-agent/pkg/llm"
	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/ilkoid/rakuten-agent/pkg/tools"
	"github.com/ilkoid/rakuten-agent/pkg/utils"
)

// SearchToolName — имя инструмента поиска для модели.
const SearchToolName = "searchItem"

// searchArgs — аргументы searchItem в том виде, в котором их присылает модель.
//
// SortOrder декодируется как число с плавающей точкой: схема допускает 6.0.
type searchArgs struct {
	Keyword   string   `json:"keyword"`
	SortOrder *float64 `json:"sortOrder"`
	Sort      string   `json:"sort"`
}

// SearchTool ищет товары и просит модель выбрать рекомендацию.
type SearchTool struct {
	searcher  Searcher
	gen       *generator
	recommend *RecommendTool
	registry  *tools.Registry
	dispatch  *Dispatcher
}

// newSearchTool связывает поиск с реестром, в котором есть только recommend.
func newSearchTool(searcher Searcher, gen *generator, recommend *RecommendTool, policy DispatchPolicy) (*SearchTool, error) {
	registry, err := tools.NewRegistryWith(recommend)
	if err != nil {
		return nil, fmt.Errorf("register recommend tool: %w", err)
	}
	return &SearchTool{
		searcher:  searcher,
		gen:       gen,
		recommend: recommend,
		registry:  registry,
		dispatch:  NewDispatcher(SearchToolName, registry, policy, gen.tracer, gen.recorder),
	}, nil
}

func (t *SearchTool) Definition() tools.ToolDefinition {
	return tools.ToolDefinition{
		Name:        SearchToolName,
		Description: "商品の検索をする",
		Parameters: tools.JSONSchema{
			"type": "object",
			"properties": map[string]any{
				"keyword": map[string]any{
					"type":        "string",
					"description": "検索キーワード",
				},
				"sortOrder": map[string]any{
					"type":        "integer",
					"description": sortOrderDescription(),
				},
				"sort": map[string]any{
					"type":        "string",
					"description": "並び順の名前",
				},
			},
			// sortOrder не обязателен: отсутствие значит стандартный порядок
			"required": []any{"keyword"},
		},
	}
}

// sortOrderDescription перечисляет коды порядка с подписями.
func sortOrderDescription() string {
	var b strings.Builder
	b.WriteString("並び順。")
	for i, s := range rakuten.AllSortOrders() {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%d: %s", int(s), s.Label())
	}
	return b.String()
}

func (t *SearchTool) Execute(ctx context.Context, argsJSON string) (string, error) {
	var args searchArgs
	if err := json.Unmarshal([]byte(argsJSON), &args); err != nil {
		return "", atStage(StageSearchDispatch, fmt.Errorf("invalid arguments: %w", err))
	}

	sortOrder := int(rakuten.SortStandard)
	if args.SortOrder != nil {
		sortOrder = int(*args.SortOrder)
	}

	items, err := t.searcher.Search(ctx, args.Keyword, sortOrder)
	if err != nil {
		return "", atStage(StageSearchDispatch, err)
	}

	// Подпись всегда выводится из кода, присланное моделью имя не используется
	label := rakuten.SortLabel(sortOrder)
	if args.Sort != "" && args.Sort != label {
		utils.Debug("Model-supplied sort label ignored", "model_label", args.Sort, "label", label)
	}

	prompt, err := BuildRecommendPrompt(args.Keyword, label, items)
	if err != nil {
		return "", atStage(StageSearchDispatch, err)
	}

	msg, err := t.gen.generate(ctx, SearchToolName,
		[]llm.Message{llm.UserMessage(prompt)},
		t.registry.GetDefinitions())
	if err != nil {
		return "", atStage(StageAwaitingRecommendation, err)
	}

	if len(msg.ToolCalls) == 0 {
		utils.Info("Model returned no recommendation", "keyword", args.Keyword, "items", len(items))
		return "no recommendation", nil
	}

	n, err := t.dispatch.Dispatch(ctx, msg.ToolCalls)
	if err != nil {
		return "", atStage(StageRecommendationDispatch, err)
	}

	return fmt.Sprintf("recommended %d item(s) from %d", n, len(items)), nil
}
