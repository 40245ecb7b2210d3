package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/storefront/internal/cfg"
	v1Http "github.com/DRSN-tech/storefront/internal/delivery/v1/http"
	"github.com/DRSN-tech/storefront/internal/infrastructure/kafka"
	"github.com/DRSN-tech/storefront/internal/infrastructure/storage"
	"github.com/DRSN-tech/storefront/internal/repository/local"
	"github.com/DRSN-tech/storefront/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/storefront/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/storefront/internal/repository/redis"
	redisConv "github.com/DRSN-tech/storefront/internal/repository/redis/converter"
	"github.com/DRSN-tech/storefront/internal/usecase"
	"github.com/DRSN-tech/storefront/pkg/closer"
	"github.com/DRSN-tech/storefront/pkg/clients"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/DRSN-tech/storefront/pkg/postgres"
	"github.com/DRSN-tech/storefront/pkg/tr"
	"github.com/go-chi/chi/v5"
	"github.com/jimlawless/whereami"
)

const (
	shutdownTimeout = 15 * time.Second
	cleanupWait     = 5 * time.Second
	kafkaTopicWait  = 10 * time.Second
)

// App связывает зависимости сервиса и управляет его жизненным циклом.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv      *v1Http.Server
	outboxWorker *kafka.OutboxWorker

	// отменяется при остановке, прерывая фоновую очистку объектов
	bgCtx    context.Context
	bgCancel context.CancelFunc
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	a := &App{
		cfg:    cfg,
		logger: log,
		closer: closer.NewCloser(0),
	}
	a.bgCtx, a.bgCancel = context.WithCancel(context.Background())

	if err := a.init(); err != nil {
		a.bgCancel()
		if closeErr := a.closer.Close(context.Background()); closeErr != nil {
			log.Warnf("partial init cleanup: %v", closeErr)
		}
		return nil, err
	}

	return a, nil
}

func (a *App) init() error {
	cfg, log := a.cfg, a.logger

	db, err := initPGDB(log, cfg)
	if err != nil {
		return err
	}
	a.closer.AddSimple("postgres", db.Close)

	redisClient := clients.NewRedisClient(cfg.Redis)
	a.closer.Add("redis", func(context.Context) error { return redisClient.Close() })
	redisCtx, redisCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer redisCancel()
	if err := redisClient.Ping(redisCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	store, err := newObjectStorage(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Errorf(err, "failed to initialize object storage")
		return e.Wrap(whereami.WhereAmI(), err)
	}

	localFiles, err := local.OpenFileRepo(cfg.Storage.ProtectedRoot, log)
	if err != nil {
		log.Errorf(err, "failed to open protected root %s", cfg.Storage.ProtectedRoot)
		return e.Wrap(whereami.WhereAmI(), err)
	}
	a.closer.Add("protected root", func(context.Context) error { return localFiles.Close() })

	producer := kafka.NewProducer(log, cfg.Kafka)
	a.closer.Add("kafka producer", func(context.Context) error { return producer.Close() })
	if err := producer.EnsureTopic(kafkaTopicWait); err != nil {
		// события копятся в outbox до появления брокера
		log.Warnf("kafka topic %s is not ready: %v", cfg.Kafka.Topic, err)
	}

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.NewProductConverter())
	fileRepo := pgdb.NewProductFileRepo(db.Pool, pgdbConv.NewProductFileConverter())
	purchaseRepo := pgdb.NewPurchaseRepo(db.Pool)
	contactRepo := pgdb.NewContactRepo(db.Pool, pgdbConv.NewContactMessageConverter())
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.NewOutboxEventConverter())
	cacheRepo := redis.NewCacheRepo(redisClient, redisConv.NewProductConverter(), cfg.Redis, log)
	txManager := tr.NewManager(db.Pool)

	objects := storage.NewObjectsInfrastructure(store.objects, cfg.Storage.BucketName, cfg.Storage.UploadLimit, log, a.bgCtx)
	a.closer.Add("object cleanup", func(ctx context.Context) error {
		waitCtx, cancel := context.WithTimeout(ctx, cleanupWait)
		defer cancel()
		if err := objects.WaitForCleanup(waitCtx); err != nil {
			log.Warnf("Object cleanup did not finish before shutdown, some orphaned objects may remain: %v", err)
		}
		return nil
	})

	productUC := usecase.NewProductUC(productRepo, cacheRepo, objects, outboxRepo, txManager, log, cfg.Storage.MediaDirName)
	fileUC := usecase.NewProductFileUC(productRepo, fileRepo, objects, localFiles, outboxRepo, txManager, log, cfg.Storage.ProtectedDirName)
	downloadUC := usecase.NewDownloadUC(productRepo, fileRepo, purchaseRepo, localFiles, outboxRepo, store.signer, downloadSettings(cfg.Storage), log)
	contactUC := usecase.NewContactUC(contactRepo, outboxRepo, txManager, log)

	a.outboxWorker = kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Outbox, db.Dsn)

	r := chi.NewRouter()
	v1Http.NewRouter(r, log).Init(v1Http.UseCases{
		Product:     productUC,
		ProductFile: fileUC,
		Download:    downloadUC,
		Contact:     contactUC,
	}, cfg.Http.AllowedOrigins)
	a.httpSrv = v1Http.NewServer(r, cfg.Http)

	return nil
}

// Run запускает HTTP-сервер и outbox-воркер и блокируется до сигнала или фатальной ошибки.
func (a *App) Run() error {
	a.outboxWorker.Start(a.bgCtx)
	a.closer.AddSimple("outbox worker", a.outboxWorker.Stop)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		if err := a.httpSrv.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	a.closer.Add("http server", a.httpSrv.Stop)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	var appErr error
	select {
	case appErr = <-errCh:
		a.logger.Errorf(appErr, "HTTP server fatal error")
	case <-shutdown:
		a.logger.Infof("Received shutdown signal, stopping gracefully...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// HTTP закрывается первым (LIFO), затем воркер, очистка и клиенты
	closeErr := a.closer.Close(ctx)
	a.bgCancel()
	if closeErr != nil {
		a.logger.Warnf("%v", closeErr)
	}

	a.logger.Infof("Application shutdown complete")
	return appErr
}

func downloadSettings(s *config.StorageCfg) usecase.DownloadSettings {
	return usecase.DownloadSettings{
		BucketName:       s.BucketName,
		Region:           s.Region,
		AccessKey:        s.AccessKey,
		SecretKey:        s.SecretKey,
		ProtectedDirName: s.ProtectedDirName,
		Expires:          s.FileExpire,
	}
}

func initPGDB(logger logger.Logger, cfg *config.Config) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(cfg.Db)
	if err != nil {
		logger.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(logger); err != nil {
		db.Close()
		logger.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
