package infrastructure

import "facegate.io/infrastructure/env"

type serverInterface interface {
	Start() error
}

func StartServer(config *env.Config) error {
	var server serverInterface = &ginServer{config: config}
	return server.Start()
}
