// Package main runs the offline sheet tool.
package main

import (
	"errors"
	"os"
	"time"

	"github.com/louisbranch/grandline/internal/cmd/sheetctl"
	"github.com/louisbranch/grandline/internal/platform/config"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		config.Exitf(config.ExitFailure, "load env: %v", err)
	}
	if err := sheetctl.Run(os.Args[1:], os.Stdout, time.Now); err != nil {
		if errors.Is(err, sheetctl.ErrUsage) {
			config.Exitf(config.ExitUsage, "%v", err)
		}
		config.Exitf(config.ExitFailure, "sheetctl: %v", err)
	}
}
