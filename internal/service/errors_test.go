package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "loyalty-system/pkg/errors"
)

// The repository layer returns pkg/errors values while callers match against
// the re-exports in this package; both must be the same error instances.
func TestDomainErrorsMatchLeafPackage(t *testing.T) {
	pairs := []struct {
		leaf, svc error
	}{
		{apperrors.ErrMemberNotFound, ErrMemberNotFound},
		{apperrors.ErrInsufficientBalance, ErrInsufficientBalance},
		{apperrors.ErrInsufficientPoints, ErrInsufficientPoints},
		{apperrors.ErrVoucherUsed, ErrVoucherUsed},
		{apperrors.ErrOutOfStock, ErrOutOfStock},
		{apperrors.ErrEmailTaken, ErrEmailTaken},
		{apperrors.ErrConflict, ErrConflict},
	}
	for _, p := range pairs {
		assert.True(t, errors.Is(p.leaf, p.svc), p.svc.Error())
	}
}
