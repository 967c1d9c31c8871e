package agent

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
)

const recommendPromptTemplate = "[%s]の商品を%sで探しています。以下のitemsの中からおすすめの商品を教えてください。\nitems: %s"

// BuildRecommendPrompt собирает промпт второго вызова модели.
//
// Товары встраиваются компактным JSON без HTML-экранирования,
// пустая выдача даёт "[]".
func BuildRecommendPrompt(keyword, label string, items []rakuten.ShapedItem) (string, error) {
	if items == nil {
		items = []rakuten.ShapedItem{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(items); err != nil {
		return "", fmt.Errorf("encode items: %w", err)
	}

	return fmt.Sprintf(recommendPromptTemplate, keyword, label, strings.TrimRight(buf.String(), "\n")), nil
}
