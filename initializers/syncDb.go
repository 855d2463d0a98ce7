package initializers

import (
	"context"

	"github.com/Kariqs/satshop-api/logger"
	"github.com/Kariqs/satshop-api/models"
)

func SyncDatabase() {
	if err := DB.AutoMigrate(models.All()...); err != nil {
		logger.Fatal(context.Background(), "database migration failed", "error", err)
	}
	logger.Info(context.Background(), "database synced successfully")
}
