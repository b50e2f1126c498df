package domain

import "fmt"

// OrderRequest — тело запроса POST /order.
type OrderRequest struct {
	Payment Payment  `json:"payment"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Address string   `json:"address"`
	Total   Money    `json:"total"`
	Items   []string `json:"items"`
}

// Buyer — данные покупателя из запроса.
func (r OrderRequest) Buyer() BuyerData {
	return BuyerData{Payment: r.Payment, Email: r.Email, Phone: r.Phone, Address: r.Address}
}

// NewOrderRequest собирает запрос из данных покупателя и содержимого корзины.
func NewOrderRequest(b BuyerData, items []Product, total Money) OrderRequest {
	ids := make([]string, 0, len(items))
	for _, p := range items {
		ids = append(ids, p.ID)
	}
	return OrderRequest{
		Payment: b.Payment,
		Email:   b.Email,
		Phone:   b.Phone,
		Address: b.Address,
		Total:   total,
		Items:   ids,
	}
}

// OrderResult — успешный ответ POST /order.
type OrderResult struct {
	ID    string `json:"id"`
	Total Money  `json:"total"`
}

// ErrorBody — тело ошибки бэкенда: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// OrderRejectedError — отказ бэкенда в оформлении заказа.
type OrderRejectedError struct {
	Status  int
	Message string
}

func (e *OrderRejectedError) Error() string {
	return fmt.Sprintf("order rejected (%d): %s", e.Status, e.Message)
}
