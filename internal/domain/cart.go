package domain

import (
	"encoding/json"
	"math"
)

// Cart domain errors.
var (
	ErrEmptyCart       = &Error{Code: EINVALID, Message: "Cart is empty"}
	ErrItemNotFound    = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// LineItem is one product selection inside a cart or order.
// UnitPrice is the effective base price after promotion plus the material
// surcharge; TotalPrice is always UnitPrice * Quantity. The two are never
// updated independently: every quantity mutation goes through Recompute.
type LineItem struct {
	ProductID     string   `bson:"productId" json:"productId"`
	Name          string   `bson:"name" json:"name"`
	BasePrice     float64  `bson:"basePrice" json:"basePrice"`
	SelectedColor string   `bson:"selectedColor,omitempty" json:"selectedColor,omitempty"`
	Material      string   `bson:"material,omitempty" json:"material,omitempty"`
	MaterialPrice float64  `bson:"materialPrice" json:"materialPrice"`
	CustomText    string   `bson:"customText,omitempty" json:"customText,omitempty"`
	Quantity      int      `bson:"quantity" json:"quantity"`
	WeightGrams   int      `bson:"weightGrams,omitempty" json:"weightGrams,omitempty"`
	Category      Category `bson:"category" json:"category"`
	UnitPrice     float64  `bson:"unitPrice" json:"unitPrice"`
	TotalPrice    float64  `bson:"totalPrice" json:"totalPrice"`
}

// Recompute re-derives UnitPrice and TotalPrice from the item's parts.
// effectiveBase is the base price after any active promotion.
func (li *LineItem) Recompute(effectiveBase float64) {
	if li.Quantity < 1 {
		li.Quantity = 1
	}
	li.UnitPrice = Round2(effectiveBase + li.MaterialPrice)
	li.TotalPrice = Round2(li.UnitPrice * float64(li.Quantity))
}

// Normalize restores the TotalPrice invariant from the stored UnitPrice.
// Used when accepting items whose quantity may have been mutated without a
// matching total update.
func (li *LineItem) Normalize() {
	if li.Quantity < 1 {
		li.Quantity = 1
	}
	li.TotalPrice = Round2(li.UnitPrice * float64(li.Quantity))
}

// Cart is an explicit cart object owned by the session. It is passed by
// reference into checkout; persistence to a client-side store is an
// explicit Serialize/Deserialize step at session boundaries, never ambient
// global state.
type Cart struct {
	Items []LineItem `json:"items"`
}

// AddItem appends a line item, normalizing its derived prices.
func (c *Cart) AddItem(item LineItem) {
	item.Normalize()
	c.Items = append(c.Items, item)
}

// UpdateQuantity sets the quantity of the item at index and recomputes its
// total in the same operation.
func (c *Cart) UpdateQuantity(index, quantity int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrItemNotFound
	}
	if quantity < 1 {
		return ErrInvalidQuantity
	}
	c.Items[index].Quantity = quantity
	c.Items[index].Normalize()
	return nil
}

// RemoveItem deletes the item at index, preserving order.
func (c *Cart) RemoveItem(index int) error {
	if index < 0 || index >= len(c.Items) {
		return ErrItemNotFound
	}
	c.Items = append(c.Items[:index], c.Items[index+1:]...)
	return nil
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = nil
}

// IsEmpty reports whether the cart has no items.
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Subtotal sums line totals.
func (c *Cart) Subtotal() float64 {
	total := 0.0
	for _, item := range c.Items {
		total += item.TotalPrice
	}
	return Round2(total)
}

// Serialize encodes the cart for a client-side session store.
func (c *Cart) Serialize() ([]byte, error) {
	return json.Marshal(c)
}

// DeserializeCart decodes a cart from a client-side session store,
// re-normalizing line totals in case the stored copy is stale.
func DeserializeCart(data []byte) (*Cart, error) {
	var c Cart
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, WrapError(err, EINVALID, "cart.deserialize", "malformed cart payload")
	}
	for i := range c.Items {
		c.Items[i].Normalize()
	}
	return &c, nil
}

// Round2 rounds a monetary value to 2 decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
