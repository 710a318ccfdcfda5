package server

import (
	"os"

	"github.com/gin-gonic/gin"
)

// Environment holds the settings `serve` reads from the process environment
// (optionally seeded from a .env file).
type Environment struct {
	ServerAddress string
	RedisAddress  string
	RedisUsername string
	RedisPassword string
	UpstreamURL   string
	GinMode       string
}

// LoadEnvironment reads the environment, applying defaults for unset values.
func LoadEnvironment() Environment {
	env := Environment{
		ServerAddress: os.Getenv("SERVER_ADDRESS"),
		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		UpstreamURL:   os.Getenv("UPSTREAM_URL"),
		GinMode:       os.Getenv("GIN_MODE"),
	}
	if env.ServerAddress == "" {
		env.ServerAddress = ":8080"
	}
	if env.GinMode == "" {
		env.GinMode = gin.ReleaseMode
	}
	return env
}
