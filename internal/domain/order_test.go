package domain

import (
	"math"
	"testing"
)

func TestOrderStatusValid(t *testing.T) {
	for _, s := range []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}

	if OrderStatus("refunded").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestOrderStatusValidTransition(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusPending, StatusShipped, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusDelivered, false},
		{StatusProcessing, StatusShipped, true},
		{StatusProcessing, StatusCancelled, true},
		{StatusProcessing, StatusPending, false},
		{StatusShipped, StatusDelivered, true},
		{StatusShipped, StatusCancelled, false},
		{StatusDelivered, StatusPending, false},
		{StatusCancelled, StatusProcessing, false},
	}

	for _, tt := range tests {
		if got := tt.from.ValidTransition(tt.to); got != tt.want {
			t.Errorf("ValidTransition(%q -> %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestOrderSubtotal(t *testing.T) {
	order := Order{
		Items: []LineItem{
			{TotalPrice: 28.00},
			{TotalPrice: 22.50},
		},
		ShippingMethod: ShippingSelection{ID: "econt", Price: 4.80},
		Total:          55.30,
	}

	if got := order.Subtotal(); math.Abs(got-50.50) > 0.001 {
		t.Errorf("Subtotal() = %v, want 50.50", got)
	}
}
