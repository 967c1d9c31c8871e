package rakuten

// SortOrder — порядок сортировки выдачи, как его выбирает модель (0..10).
type SortOrder int

const (
	SortAscAffiliateRate SortOrder = iota
	SortDescAffiliateRate
	SortAscReviewCount
	SortDescReviewCount
	SortAscReviewAverage
	SortDescReviewAverage
	SortAscItemPrice
	SortDescItemPrice
	SortAscUpdateTimestamp
	SortDescUpdateTimestamp
	SortStandard
)

// StandardToken — 楽天標準ソート順, значение для любого неизвестного входа.
const StandardToken = "standard"

type sortDef struct {
	token string
	label string
}

// Токены хранятся в сыром виде: "+" кодируется в %2B при сборке URL.
var sortDefs = [...]sortDef{
	SortAscAffiliateRate:    {"+affiliateRate", "アフィリエイト料率順（昇順）"},
	SortDescAffiliateRate:   {"-affiliateRate", "アフィリエイト料率順（降順）"}, // отклонение: исходный скрипт слал опечатку "%2DdescAffiliateRate"
	SortAscReviewCount:      {"+reviewCount", "レビュー件数順（昇順）"},
	SortDescReviewCount:     {"-reviewCount", "レビュー件数順（降順）"},
	SortAscReviewAverage:    {"+reviewAverage", "レビュー平均順（昇順）"},
	SortDescReviewAverage:   {"-reviewAverage", "レビュー平均順（降順）"},
	SortAscItemPrice:        {"+itemPrice", "価格順（昇順）"},
	SortDescItemPrice:       {"-itemPrice", "価格順（降順）"},
	SortAscUpdateTimestamp:  {"+updateTimestamp", "商品更新日時順（昇順）"},
	SortDescUpdateTimestamp: {"-updateTimestamp", "商品更新日時順（降順）"},
	SortStandard:            {StandardToken, "楽天標準ソート順"},
}

// Valid сообщает, входит ли значение в закрытое множество 0..10.
func (s SortOrder) Valid() bool {
	return s >= SortAscAffiliateRate && s <= SortStandard
}

// Normalize сводит любое значение вне диапазона к SortStandard.
func (s SortOrder) Normalize() SortOrder {
	if !s.Valid() {
		return SortStandard
	}
	return s
}

// Token возвращает значение параметра sort для API.
func (s SortOrder) Token() string {
	return sortDefs[s.Normalize()].token
}

// Label возвращает человекочитаемое название порядка.
func (s SortOrder) Label() string {
	return sortDefs[s.Normalize()].label
}

// ResolveSort — тотальная функция над int: вне 0..10 возвращает "standard".
func ResolveSort(id int) string {
	return SortOrder(id).Token()
}

// ResolveSortPtr трактует отсутствие значения как неизвестный вход.
func ResolveSortPtr(id *int) string {
	if id == nil {
		return StandardToken
	}
	return ResolveSort(*id)
}

// SortLabel — обратное отображение для подписи порядка в промпте.
func SortLabel(id int) string {
	return SortOrder(id).Label()
}

// AllSortOrders возвращает все порядки в порядке их номеров.
func AllSortOrders() []SortOrder {
	out := make([]SortOrder, 0, len(sortDefs))
	for i := range sortDefs {
		out = append(out, SortOrder(i))
	}
	return out
}
