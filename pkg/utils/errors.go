package utils

import (
	"fmt"

	"github.com/rs/zerolog"
)

// CheckWarn logs a warning and returns true if err is not nil
func CheckWarn(logger zerolog.Logger, err error, context string) bool {
	if err != nil {
		logger.Warn().Err(err).Msg(context)
		return true
	}
	return false
}

// WrapError wraps an error with additional context
func WrapError(err error, context string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}
