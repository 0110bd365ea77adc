package service

import (
	"github.com/ivkovb/printstudio/internal/domain"
)

// Checkout validation errors - use domain.EINVALID
var (
	ErrEmptyCart             = domain.Errorf(domain.EINVALID, "", "Cart is empty")
	ErrMissingShippingMethod = domain.Errorf(domain.EINVALID, "", "Shipping method is required")
)

// Persistence errors - use domain.EUNAVAILABLE so callers can present them
// as retryable
var (
	ErrOrderNotPersisted = domain.Errorf(domain.EUNAVAILABLE, "", "Order could not be saved, please try again")
)
