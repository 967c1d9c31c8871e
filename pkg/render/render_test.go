package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ilkoid/rakuten-agent/pkg/rakuten"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecommendation_FieldsUntransformed(t *testing.T) {
	var buf bytes.Buffer
	name := "【送料無料】 コンパクト ソファ 2人掛け <限定>"
	url := "https://item.rakuten.co.jp/shop/sofa-01/?a=1&b=2"
	reason := "狭い部屋にも置けるサイズで、   デザインもおしゃれです。"

	require.NoError(t, Recommendation(&buf, name, url, reason))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "おすすめ商品")
	assert.Equal(t, LabelName+name, lines[1])
	assert.Equal(t, LabelURL+url, lines[2])
	assert.Equal(t, LabelReason+reason, lines[3])
}

func TestItems(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Items(&buf, []rakuten.ShapedItem{
		{Name: "A", URL: "https://a", Description: "caption a"},
		{Name: "B", URL: "https://b"},
	}))

	out := buf.String()
	assert.Contains(t, out, "[1] A")
	assert.Contains(t, out, "    https://a")
	assert.Contains(t, out, "    caption a")
	assert.Contains(t, out, "[2] B")

	buf.Reset()
	require.NoError(t, Items(&buf, nil))
	assert.Equal(t, "No items found.\n", buf.String())
}

func TestItemsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, ItemsJSON(&buf, []rakuten.ShapedItem{{Name: "A&B", URL: "u", Description: "d"}}))

	var got []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "A&B", got[0]["itemName"])
	assert.Contains(t, buf.String(), "A&B")

	buf.Reset()
	require.NoError(t, ItemsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}
