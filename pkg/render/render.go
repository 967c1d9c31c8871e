// Package render форматирует консольный вывод агента.
//
// Поля рекомендации печатаются как есть, без переносов и экранирования:
// стилизуется только заголовок блока.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

// Подписи строк рекомендации.
const (
	LabelName   = "商品名："
	LabelURL    = "URL:"
	LabelReason = "おすすめポイント："
)

const captionWidth = 76

// Recommendation печатает блок рекомендации: заголовок и три подписанные строки.
func Recommendation(w io.Writer, itemName, itemURL, reason string) error {
	r := lipgloss.NewRenderer(w)
	header := r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")).Render("★ おすすめ商品")

	_, err := fmt.Fprintf(w, "%s\n%s%s\n%s%s\n%s%s\n",
		header,
		LabelName, itemName,
		LabelURL, itemURL,
		LabelReason, reason,
	)
	return err
}

// Items печатает выдачу поиска в читаемом виде.
func Items(w io.Writer, items []rakuten.ShapedItem) error {
	if len(items) == 0 {
		_, err := fmt.Fprintln(w, "No items found.")
		return err
	}

	r := lipgloss.NewRenderer(w)
	title := r.NewStyle().Bold(true)

	var b strings.Builder
	for i, it := range items {
		fmt.Fprintf(&b, "%s\n", title.Render(fmt.Sprintf("[%d] %s", i+1, it.Name)))
		fmt.Fprintf(&b, "%s\n", indent.String(it.URL, 4))
		caption := strings.TrimSpace(it.Description)
		if caption != "" {
			fmt.Fprintf(&b, "%s\n", indent.String(wordwrap.String(caption, captionWidth), 4))
		}
		b.WriteString("\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// ItemsJSON печатает выдачу как JSON массив ShapedItem.
func ItemsJSON(w io.Writer, items []rakuten.ShapedItem) error {
	if items == nil {
		items = []rakuten.ShapedItem{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(items)
}
