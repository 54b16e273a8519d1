package errors

import "errors"

// Domain errors for the loyalty system. Declared here, below both the
// repository and service layers, so repositories can translate driver-level
// failures into them without importing the service package.
var (
	ErrMemberNotFound      = errors.New("member not found")
	ErrVoucherNotFound     = errors.New("voucher not found")
	ErrVoucherTypeNotFound = errors.New("voucher type not found")
	ErrTierNotFound        = errors.New("recharge tier not found")
	ErrItemNotFound        = errors.New("item not found or unavailable")

	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInsufficientPoints  = errors.New("insufficient points")
	ErrVoucherUsed         = errors.New("voucher already used")
	ErrVoucherExpired      = errors.New("voucher is expired")
	ErrBelowThreshold      = errors.New("bill amount below voucher threshold")
	ErrBillRequired        = errors.New("bill amount is required for discount vouchers")
	ErrOutOfStock          = errors.New("no stock available")
	ErrInvalidAmount       = errors.New("invalid amount")

	ErrEmailTaken         = errors.New("email already registered")
	ErrPhoneTaken         = errors.New("phone already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrNotStaff           = errors.New("staff access required")

	// ErrConflict marks concurrent-update contention; callers may retry.
	ErrConflict = errors.New("concurrent update conflict")
)
