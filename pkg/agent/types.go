// Package agent реализует конвейер рекомендации товара:
// запрос пользователя → модель выбирает searchItem → поиск в Rakuten →
// модель выбирает recommend → вывод рекомендации.
//
// Все зависимости (модель, поиск, трейсер, recorder) передаются явно,
// поэтому конвейер тестируется без сети.
package agent

import (
	"context"
	"errors"
	"fmt"

	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
)

// Searcher — источник товаров для searchItem.
//
// *rakuten.Client реализует этот интерфейс.
type Searcher interface {
	Search(ctx context.Context, keyword string, sort int) ([]rakuten.ShapedItem, error)
}

// Stage — этап одного запуска конвейера.
type Stage string

const (
	StageIdle                   Stage = "idle"
	StageAwaitingToolSelection  Stage = "awaiting_tool_selection"
	StageSearchDispatch         Stage = "search_dispatch"
	StageAwaitingRecommendation Stage = "awaiting_recommendation_selection"
	StageRecommendationDispatch Stage = "recommendation_dispatch"
)

// StageError — ошибка с этапом, на котором запуск прервался.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// atStage привязывает ошибку к этапу, если она ещё не привязана к более глубокому.
func atStage(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err}
}

// Recommendation — выбранный моделью товар с обоснованием.
type Recommendation struct {
	ItemName string `json:"itemName"`
	ItemURL  string `json:"itemUrl"`
	Reason   string `json:"reason"`
}

// Result — итог одного запуска.
type Result struct {
	// ToolCalls — сколько вызовов запросила модель на входе
	ToolCalls int

	// Dispatched — сколько из них выполнено согласно политике
	Dispatched int

	// Recommendations — все выведенные рекомендации в порядке вывода
	Recommendations []Recommendation

	// Reply — текст модели, если она ответила без вызова инструмента
	Reply string

	// DebugLogPath — путь к JSON трейсу, если recorder включён
	DebugLogPath string
}
