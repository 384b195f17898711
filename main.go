package main

import (
	"fmt"
	"os"

	"facegate.io/infrastructure"
	"facegate.io/infrastructure/env"
	"facegate.io/infrastructure/logger"
)

func main() {
	config, err := env.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	if err := logger.InitializeLogger(config.GinMode); err != nil {
		fmt.Fprintf(os.Stderr, "could not initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := infrastructure.StartServer(config); err != nil {
		logger.Error("server stopped with error", logger.LoggerOptions{
			Key:  "error",
			Data: err.Error(),
		})
		logger.Sync()
		os.Exit(1)
	}
}
