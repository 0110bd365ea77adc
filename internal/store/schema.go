package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ivkovb/printstudio/internal/domain"
)

// Historical documents predate the current schema: order totals were
// written under "totalAmount", customer contact fields were flattened to
// the top level, and promotions were flat "promo*" keys on the product.
// All aliases are resolved here, at decode time; every write emits only
// the canonical shape. Business logic never sees a legacy key.

// orderDocument is the wire shape of an order. Canonical fields are
// written; pointer fields marked legacy are read-side import shims.
type orderDocument struct {
	ID             primitive.ObjectID       `bson:"_id,omitempty"`
	Items          []domain.LineItem        `bson:"items"`
	ShippingMethod domain.ShippingSelection `bson:"shippingMethod"`
	Total          *float64                 `bson:"total,omitempty"`
	TotalAmount    *float64                 `bson:"totalAmount,omitempty"` // legacy
	CustomerInfo   *domain.CustomerInfo     `bson:"customerInfo,omitempty"`
	CustomerName   string                   `bson:"customerName,omitempty"`    // legacy
	CustomerEmail  string                   `bson:"customerEmail,omitempty"`   // legacy
	CustomerPhone  string                   `bson:"customerPhone,omitempty"`   // legacy
	CustomerAddr   string                   `bson:"customerAddress,omitempty"` // legacy
	CustomerCity   string                   `bson:"customerCity,omitempty"`    // legacy
	Status         domain.OrderStatus       `bson:"orderStatus"`
	UserID         string                   `bson:"userId,omitempty"`
	UserName       string                   `bson:"userName,omitempty"`
	UserEmail      string                   `bson:"userEmail,omitempty"`
	CreatedAt      time.Time                `bson:"createdAt"`
}

func newOrderDocument(o *domain.Order) orderDocument {
	total := o.Total
	info := o.CustomerInfo
	return orderDocument{
		Items:          o.Items,
		ShippingMethod: o.ShippingMethod,
		Total:          &total,
		CustomerInfo:   &info,
		Status:         o.Status,
		UserID:         o.UserID,
		UserName:       o.UserName,
		UserEmail:      o.UserEmail,
		CreatedAt:      o.CreatedAt,
	}
}

func (d orderDocument) toDomain() *domain.Order {
	o := &domain.Order{
		Items:          d.Items,
		ShippingMethod: d.ShippingMethod,
		Status:         d.Status,
		UserID:         d.UserID,
		UserName:       d.UserName,
		UserEmail:      d.UserEmail,
		CreatedAt:      d.CreatedAt,
	}
	if !d.ID.IsZero() {
		o.ID = d.ID.Hex()
	}

	switch {
	case d.Total != nil:
		o.Total = *d.Total
	case d.TotalAmount != nil:
		o.Total = *d.TotalAmount
	}

	if d.CustomerInfo != nil {
		o.CustomerInfo = *d.CustomerInfo
	} else {
		o.CustomerInfo = domain.CustomerInfo{
			Name:    d.CustomerName,
			Email:   d.CustomerEmail,
			Phone:   d.CustomerPhone,
			Address: d.CustomerAddr,
			City:    d.CustomerCity,
		}
	}

	if o.Status == "" {
		o.Status = domain.StatusPending
	}

	return o
}

// inventoryDocument is the wire shape of a product/inventory record.
type inventoryDocument struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty"`
	ProductID    string              `bson:"productId"`
	Name         string              `bson:"productName"`
	BasePrice    float64             `bson:"basePrice"`
	WeightGrams  int                 `bson:"weightGrams,omitempty"`
	Category     domain.Category     `bson:"category"`
	ReorderLevel int                 `bson:"reorderLevel"`
	ColorStock   []domain.ColorStock `bson:"colorStock"`
	Stock        int                 `bson:"stock"`
	Promo        *domain.Promotion   `bson:"promo,omitempty"`
	PromoActive  *bool               `bson:"promoActive,omitempty"` // legacy
	PromoType    string              `bson:"promoType,omitempty"`   // legacy
	PromoValue   *float64            `bson:"promoValue,omitempty"`  // legacy
	PromoStart   *time.Time          `bson:"promoStart,omitempty"`  // legacy
	PromoEnd     *time.Time          `bson:"promoEnd,omitempty"`    // legacy
	Version      *int64              `bson:"version,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt"`
}

func (d inventoryDocument) toDomain() *domain.Product {
	p := &domain.Product{
		ProductID:    d.ProductID,
		Name:         d.Name,
		BasePrice:    d.BasePrice,
		WeightGrams:  d.WeightGrams,
		Category:     d.Category,
		ReorderLevel: d.ReorderLevel,
		ColorStock:   d.ColorStock,
		Stock:        d.Stock,
		Promo:        d.Promo,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
	}
	if !d.ID.IsZero() {
		p.ID = d.ID.Hex()
	}
	if d.Version != nil {
		p.Version = *d.Version
	}

	// Flat promo* keys from records written before the nested descriptor.
	if p.Promo == nil && d.PromoActive != nil {
		promo := &domain.Promotion{
			Active: *d.PromoActive,
			Type:   domain.PromoType(d.PromoType),
			Start:  d.PromoStart,
			End:    d.PromoEnd,
		}
		if d.PromoValue != nil {
			promo.Value = *d.PromoValue
		}
		p.Promo = promo
	}

	return p
}
