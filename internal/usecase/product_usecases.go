package usecase

import (
	"context"
	"encoding/json"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/example/storefront/internal/domain"
)

// ListProducts — весь каталог из кэша в порядке поступления.
type ListProducts struct {
	Cache domain.ProductCache
}

func (uc ListProducts) Execute() domain.ProductList {
	items := uc.Cache.List()
	return domain.ProductList{Total: len(items), Items: items}
}

// GetProduct — получить товар из кэша по идентификатору.
type GetProduct struct {
	Cache domain.ProductCache
}

func (uc GetProduct) Execute(id string) (domain.Product, bool) {
	return uc.Cache.Get(id)
}

// LoadCache — загрузить все товары из репозитория в кэш при старте.
type LoadCache struct {
	Repo  domain.ProductRepository
	Cache domain.ProductCache
	Log   *zap.Logger
}

func (uc LoadCache) Execute(ctx context.Context) error {
	return uc.Repo.LoadProducts(ctx, func(id string, raw []byte) error {
		var p domain.Product
		if err := json.Unmarshal(raw, &p); err != nil {
			// пропускаем битые записи, не прерывая полную загрузку
			uc.Log.Warn("skip broken product", zap.String("id", id), zap.Error(err))
			return nil
		}
		uc.Cache.Set(id, p)
		return nil
	})
}

// ProcessIncomingProduct — сохранить входящее сообщение товара и обновить кэш.
type ProcessIncomingProduct struct {
	Repo  domain.ProductRepository
	Cache domain.ProductCache
}

func (uc ProcessIncomingProduct) Execute(ctx context.Context, raw []byte) error {
	var p domain.Product
	if err := json.Unmarshal(raw, &p); err != nil {
		return errors.Wrap(domain.ErrValidation, err.Error())
	}
	if p.ID == "" {
		return errors.Wrap(domain.ErrValidation, "missing product id")
	}
	canonical, err := json.Marshal(p)
	if err != nil {
		return errors.Wrap(err, "encode product")
	}
	if err := uc.Repo.UpsertProduct(ctx, p.ID, canonical); err != nil {
		return err
	}
	uc.Cache.Set(p.ID, p)
	return nil
}
