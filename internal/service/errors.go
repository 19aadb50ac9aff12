package service

import (
	"errors"

	"product-catalog/internal/apperr"

	"go.uber.org/zap"
)

// classify funnels a failure from the store layer into the catalog's error
// taxonomy. Already-tagged failures (NotFound, Conflict) pass through
// untouched; anything else is logged with the invoking component's name and
// surfaced as a generic Internal error so no backend detail leaks to callers.
// The component name is a per-call argument, never shared state.
func classify(logger *zap.Logger, component string, err error) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr
	}

	logger.Error("unexpected error",
		zap.String("component", component),
		zap.Error(err),
	)

	return apperr.Internal(err)
}
