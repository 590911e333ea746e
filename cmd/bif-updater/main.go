package main

import (
	"os"

	cmd "github.com/wpsix/breakdance-icon-fix/internal"
	"github.com/wpsix/breakdance-icon-fix/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
