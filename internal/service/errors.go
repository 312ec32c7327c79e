package service

import (
	"context"
	"errors"
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/auth"
	"github.com/mmynk/splitledger/internal/middleware"
	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/money"
)

// toConnectError maps ledger error kinds to Connect codes.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, models.ErrValidation), errors.Is(err, money.ErrInvalidAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrEmptyGroup):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, models.ErrPermission):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// actingMember returns the authenticated member or an Unauthenticated error.
func actingMember(ctx context.Context) (string, error) {
	member := middleware.GetMemberID(ctx)
	if member == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, auth.ErrMissingToken)
	}
	return member, nil
}

// parseAmount reads a decimal string from a request field.
func parseAmount(field, s string) (decimal.Decimal, error) {
	d, err := money.Parse(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", models.ErrValidation, field, err)
	}
	return d, nil
}

// required rejects blank identifiers in requests.
func required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s is required", models.ErrValidation, field)
	}
	return nil
}
