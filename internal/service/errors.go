package service

import apperrors "loyalty-system/pkg/errors"

// Domain errors re-exported from pkg/errors. Repositories translate
// driver-level failures into them and handlers map them onto HTTP statuses;
// no mongo error ever crosses the API. The values are shared, so errors.Is
// matches across packages.
var (
	ErrMemberNotFound      = apperrors.ErrMemberNotFound
	ErrVoucherNotFound     = apperrors.ErrVoucherNotFound
	ErrVoucherTypeNotFound = apperrors.ErrVoucherTypeNotFound
	ErrTierNotFound        = apperrors.ErrTierNotFound
	ErrItemNotFound        = apperrors.ErrItemNotFound

	ErrInsufficientBalance = apperrors.ErrInsufficientBalance
	ErrInsufficientPoints  = apperrors.ErrInsufficientPoints
	ErrVoucherUsed         = apperrors.ErrVoucherUsed
	ErrVoucherExpired      = apperrors.ErrVoucherExpired
	ErrBelowThreshold      = apperrors.ErrBelowThreshold
	ErrBillRequired        = apperrors.ErrBillRequired
	ErrOutOfStock          = apperrors.ErrOutOfStock
	ErrInvalidAmount       = apperrors.ErrInvalidAmount

	ErrEmailTaken         = apperrors.ErrEmailTaken
	ErrPhoneTaken         = apperrors.ErrPhoneTaken
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
	ErrNotStaff           = apperrors.ErrNotStaff

	ErrConflict = apperrors.ErrConflict
)
