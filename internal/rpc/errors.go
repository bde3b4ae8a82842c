// Package rpc serves the groupledger.v1 Connect services on top of package
// service.
package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/groupledger/internal/models"
)

// toConnectError maps domain errors onto Connect codes.
func toConnectError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, models.ErrInvalidInput):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, models.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, models.ErrCorruptState):
		return connect.NewError(connect.CodeDataLoss, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

func requireGroupID(groupID string) error {
	if groupID == "" {
		return connect.NewError(connect.CodeInvalidArgument, models.InvalidInput("groupId is required"))
	}
	return nil
}
