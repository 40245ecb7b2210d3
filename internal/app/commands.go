package app

import (
	"context"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/jimlawless/whereami"
)

// Migrate применяет миграции или откатывает последнюю при down.
func Migrate(dbCfg *config.PGDBCfg, log logger.Logger, down bool) error {
	db, err := postgres.Connect(dbCfg)
	if err != nil {
		return e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	if down {
		return db.RollbackMigration(log)
	}
	return db.RunMigrations(log)
}

// Presign печатает подписанную ссылку для файла товара без запуска сервера.
func Presign(ctx context.Context, dbCfg *config.PGDBCfg, storageCfg *config.StorageCfg, log logger.Logger, fileID int64) (string, error) {
	db, err := postgres.Connect(dbCfg)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}
	defer db.Close()

	store, err := newObjectStorage(ctx, storageCfg, log)
	if err != nil {
		return "", e.Wrap(whereami.WhereAmI(), err)
	}

	fileRepo := pgdb.NewProductFileRepo(db.Pool, pgdbConv.NewProductFileConverter())
	downloadUC := usecase.NewDownloadUC(nil, fileRepo, nil, nil, nil, store.signer, downloadSettings(storageCfg), log)

	return downloadUC.GenerateDownloadURLByID(ctx, fileID)
}
