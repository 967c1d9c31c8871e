package rakuten

// SearchResponse — конверт ответа IchibaItem/Search (formatVersion=1).
//
// Декодируется только Items: счётчики страниц и остальные поля товара
// не используются, и их формат не должен ломать разбор ответа.
// Items — указатель на срез: отсутствие поля отличается от пустого массива
// и считается нарушением формата ответа.
type SearchResponse struct {
	Items *[]ItemWrapper `json:"Items"`
}

// ItemWrapper — обёртка {"Item": {...}} вокруг каждого товара.
type ItemWrapper struct {
	Item Item `json:"Item"`
}

// Item — поля товара, которые уходят дальше по конвейеру.
type Item struct {
	ItemName    string `json:"itemName"`
	ItemURL     string `json:"itemUrl"`
	ItemCaption string `json:"itemCaption"`
}

// ShapedItem — проекция товара, которая уходит в промпт.
type ShapedItem struct {
	Name        string `json:"itemName"`
	URL         string `json:"itemUrl"`
	Description string `json:"itemCaption"`
}

// Shape проецирует товар ровно на три поля.
func Shape(it Item) ShapedItem {
	return ShapedItem{
		Name:        it.ItemName,
		URL:         it.ItemURL,
		Description: it.ItemCaption,
	}
}

// errorResponse — тело ответа API при ошибке (400/401/404/429/500/503).
type errorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}
