package service

import "errors"

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrIllegalTransition = errors.New("illegal transition of order status")
	ErrForbidden         = errors.New("operation requires admin role")
)
