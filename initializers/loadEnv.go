package initializers

import (
	"log"
	"os"

	"github.com/Kariqs/satshop-api/config"
	"github.com/joho/godotenv"
)

const defaultConfigPath = "configs/config.toml"

var Config *config.Config

// LoadEnv reads .env into the process environment, then loads the
// configuration file named by APP_CONFIG_PATH.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	path := os.Getenv("APP_CONFIG_PATH")
	if path == "" {
		path = defaultConfigPath
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	Config = cfg
}
