// Package checkout turns a cart into a persisted order.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/padec243-alt/Padec-Connect-sub000/services/cart"
	"github.com/padec243-alt/Padec-Connect-sub000/services/docstore"
	"github.com/padec243-alt/Padec-Connect-sub000/utils"
)

type Service interface {
	// PlaceOrder snapshots the cart into an order document. The cart is
	// cleared only after the order has been written.
	PlaceOrder(ctx context.Context, uid string, c *cart.Store) (*Order, error)
	// Orders returns the user's past orders, newest first.
	Orders(ctx context.Context, uid string) ([]Order, error)
}

const orderCollection = "orders"

// Order is a completed checkout.
type Order struct {
	ID        string      `json:"id"`
	Reference string      `json:"reference"`
	UID       string      `json:"uid"`
	Lines     []OrderLine `json:"lines"`
	Total     float64     `json:"total"`
	Status    string      `json:"status"`
	CreatedAt time.Time   `json:"createdAt"`
}

// OrderLine captures a product at the price it was bought for.
type OrderLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unitPrice"`
	Quantity  int     `json:"quantity"`
}

const StatusPlaced = "placed"

var ErrEmptyCart = errors.New("cart is empty")

type service struct {
	db docstore.Store
}

var _ Service = (*service)(nil)

func NewService(db docstore.Store) Service {
	return &service{db: db}
}

func (s *service) PlaceOrder(ctx context.Context, uid string, c *cart.Store) (*Order, error) {
	items := c.Items()
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	// Total is derived from the snapshot so a concurrent cart mutation
	// cannot make it disagree with the lines.
	lines := make([]OrderLine, 0, len(items))
	total := 0.0
	for _, item := range items {
		lines = append(lines, OrderLine{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			UnitPrice: item.Product.Price,
			Quantity:  item.Quantity,
		})
		total += item.Product.Price * float64(item.Quantity)
	}
	order := Order{
		Reference: uuid.NewString(),
		UID:       uid,
		Lines:     lines,
		Total:     total,
		Status:    StatusPlaced,
		CreatedAt: time.Now().UTC(),
	}

	doc, err := utils.EncodeToMap(order)
	if err != nil {
		return nil, err
	}
	delete(doc, "id")
	id, err := s.db.Add(ctx, orderCollection, doc)
	if err != nil {
		return nil, fmt.Errorf("failed to place order: %w", err)
	}
	order.ID = id

	c.Clear()
	log.Info().Str("uid", uid).Str("reference", order.Reference).Float64("total", order.Total).Msg("order placed")
	return &order, nil
}

func (s *service) Orders(ctx context.Context, uid string) ([]Order, error) {
	docs, err := s.db.Query(ctx, orderCollection, docstore.Filter{
		Path:  "uid",
		Op:    "==",
		Value: uid,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	orders := make([]Order, 0, len(docs))
	for _, doc := range docs {
		var o Order
		if err := utils.DecodeInto(doc, &o); err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}
