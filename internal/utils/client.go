package utils

import (
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
)

func Try(f func() error) {
	if err := f(); err != nil {
		logger.LogError("deferred cleanup failed: %v", err)
	}
}
