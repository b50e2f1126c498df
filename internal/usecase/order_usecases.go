package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/example/storefront/internal/domain"
	"github.com/example/storefront/internal/validation"
)

// Причины отказа, которые видит покупатель.
const (
	ReasonNoItems      = "Корзина пуста"
	ReasonDuplicate    = "Товар указан дважды: %s"
	ReasonUnknown      = "Товар с id %s не найден"
	ReasonPriceless    = "Товар %s не продаётся"
	ReasonTotalInvalid = "Неверная сумма заказа"
)

// RejectionError — заказ отклонён; Reason показывается покупателю как есть.
type RejectionError struct {
	Reason string
}

func (e *RejectionError) Error() string { return e.Reason }

func (e *RejectionError) Unwrap() error { return domain.ErrValidation }

func reject(format string, args ...any) error {
	return &RejectionError{Reason: fmt.Sprintf(format, args...)}
}

// PlaceOrder — проверить заказ по каталогу, присвоить идентификатор и сохранить.
type PlaceOrder struct {
	Cache domain.ProductCache
	Repo  domain.OrderRepository
	// NewID по умолчанию выдаёт UUID.
	NewID func() string
}

func (uc PlaceOrder) Execute(ctx context.Context, req domain.OrderRequest) (domain.OrderResult, error) {
	if errs := validation.CheckValidity(req.Buyer()); len(errs) > 0 {
		return domain.OrderResult{}, reject("%s", errs.Messages(domain.Fields...)[0])
	}
	if len(req.Items) == 0 {
		return domain.OrderResult{}, reject(ReasonNoItems)
	}

	sum := domain.NewMoney(0)
	seen := make(map[string]struct{}, len(req.Items))
	for _, id := range req.Items {
		if _, dup := seen[id]; dup {
			return domain.OrderResult{}, reject(ReasonDuplicate, id)
		}
		seen[id] = struct{}{}

		p, ok := uc.Cache.Get(id)
		if !ok {
			return domain.OrderResult{}, reject(ReasonUnknown, id)
		}
		if !p.Price.Purchasable() {
			return domain.OrderResult{}, reject(ReasonPriceless, id)
		}
		sum = sum.Plus(p.Price.Amount())
	}
	if !sum.Same(req.Total) {
		return domain.OrderResult{}, reject(ReasonTotalInvalid)
	}

	newID := uc.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	id := newID()
	raw, err := json.Marshal(req)
	if err != nil {
		return domain.OrderResult{}, errors.Wrap(err, "encode order")
	}
	if err := uc.Repo.SaveOrder(ctx, id, raw); err != nil {
		return domain.OrderResult{}, err
	}
	return domain.OrderResult{ID: id, Total: sum}, nil
}
