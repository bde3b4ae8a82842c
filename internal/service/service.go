// Package service exposes the group ledger operations on top of a
// storage.Store. Services are transport-agnostic; internal/rpc adapts them to
// Connect and cmd/ledgerctl calls them directly.
package service

import (
	"errors"
	"log/slog"

	"github.com/mmynk/groupledger/internal/models"
)

// logFailure logs caller mistakes at Warn and everything else at Error.
func logFailure(op string, err error, attrs ...any) {
	attrs = append(attrs, "error", err)
	if errors.Is(err, models.ErrInvalidInput) || errors.Is(err, models.ErrNotFound) {
		slog.Warn(op+" rejected", attrs...)
		return
	}
	slog.Error(op+" failed", attrs...)
}
