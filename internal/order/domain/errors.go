package domain

import "errors"

// 订单相关业务错误
var (
	// ErrOrderNotFound 订单不存在
	ErrOrderNotFound = errors.New("order not found")
	// ErrEmptyCart 购物车为空，无法结算
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition 非法的订单状态迁移
	ErrInvalidTransition = errors.New("invalid order status transition")
	// ErrInvalidOrderStatus 非法的订单状态枚举值
	ErrInvalidOrderStatus = errors.New("invalid order status")
	// ErrInvalidPaymentStatus 非法的支付状态枚举值
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
	// ErrInvalidPaymentMethod 非法的支付方式
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	// ErrMissingCheckoutFields 结算必填字段缺失
	ErrMissingCheckoutFields = errors.New("shipping address and payment method are required")
	// ErrAddressNotFound 收货地址不存在或不属于当前用户
	ErrAddressNotFound = errors.New("shipping address not found")
)
