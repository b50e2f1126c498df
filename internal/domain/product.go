package domain

// Category — категория товара в том виде, в каком её прислал бэкенд.
type Category string

// Style — модификатор отображения категории.
type Style string

const (
	StyleSoft       Style = "soft"
	StyleHard       Style = "hard"
	StyleOther      Style = "other"
	StyleAdditional Style = "additional"
	StyleButton     Style = "button"
)

var categoryStyles = map[Category]Style{
	"софт-скил":      StyleSoft,
	"хард-скил":      StyleHard,
	"другое":         StyleOther,
	"дополнительное": StyleAdditional,
	"кнопка":         StyleButton,
}

// Style возвращает модификатор категории; для неизвестных — StyleOther.
func (c Category) Style() Style {
	if s, ok := categoryStyles[c]; ok {
		return s
	}
	return StyleOther
}

// Product — товар каталога.
type Product struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Image       string   `json:"image"`
	Description string   `json:"description"`
	Price       Price    `json:"price"`
}

// ProductList — тело ответа GET /product/. Total — число товаров.
type ProductList struct {
	Total int       `json:"total"`
	Items []Product `json:"items"`
}

// CopyProducts возвращает новый срез, не связанный с состоянием владельца.
func CopyProducts(items []Product) []Product {
	if items == nil {
		return []Product{}
	}
	out := make([]Product, len(items))
	copy(out, items)
	return out
}
