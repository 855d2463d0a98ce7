package initializers

import (
	"log"

	"github.com/Kariqs/satshop-api/logger"
)

func InitLogger() {
	lc := Config.Logger
	err := logger.Init(logger.Config{
		Level:      lc.Level,
		Format:     lc.Format,
		Output:     lc.Output,
		FilePath:   lc.FilePath,
		MaxSize:    lc.MaxSize,
		MaxBackups: lc.MaxBackups,
		MaxAge:     lc.MaxAge,
		Compress:   lc.Compress,
		WithCaller: lc.WithCaller,
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
}
