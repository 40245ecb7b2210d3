package cfg

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/DRSN-tech/storefront/pkg/logger"
	"github.com/jimlawless/whereami"
)

const (
	ProviderMinio = "minio"
	ProviderAWS   = "aws"

	// Ограничения S3 на время жизни подписанной ссылки
	minFileExpire = time.Second
	maxFileExpire = 7 * 24 * time.Hour
)

type Config struct {
	App     *AppCfg
	Http    *HTTPConfig
	Db      *PGDBCfg
	Redis   *RedisCfg
	Kafka   *KafkaCfg
	Outbox  *OutboxCfg
	Storage *StorageCfg
}

type AppCfg struct {
	Env      string
	LogLevel string
}

type HTTPConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type PGDBCfg struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisCfg struct {
	Addr        string
	Password    string
	User        string
	DB          int
	MaxRetries  int
	DialTimeout time.Duration
	Timeout     time.Duration
	ProductTTL  time.Duration
}

type KafkaCfg struct {
	Topic             string
	Brokers           []string
	NetworkMode       string
	Partitions        int
	ReplicationFactor int
}

type OutboxCfg struct {
	BatchSize    int
	PollInterval time.Duration
	StaleAfter   time.Duration
}

// StorageCfg описывает объектное хранилище и защищённые файлы товаров.
type StorageCfg struct {
	Provider         string        // minio | aws
	Endpoint         string        // адрес MinIO (для aws игнорируется)
	UseSSL           bool          // https до эндпоинта
	BucketName       string        // AWS_STORAGE_BUCKET_NAME
	Region           string        // S3DIRECT_REGION
	AccessKey        string        // AWS_ACCESS_KEY_ID
	SecretKey        string        // AWS_SECRET_ACCESS_KEY
	ProtectedDirName string        // префикс ключей платных файлов
	MediaDirName     string        // префикс ключей публичных медиа
	ProtectedRoot    string        // корень локального хранилища защищённых файлов
	FileExpire       time.Duration // время жизни подписанной ссылки
	UploadLimit      int           // лимит одновременных загрузок в хранилище
}

// IsConfigured сообщает, заданы ли бакет, регион и ключи доступа.
func (s *StorageCfg) IsConfigured() bool {
	return s.BucketName != "" && s.Region != "" && s.AccessKey != "" && s.SecretKey != ""
}

// Load безопасно загружает конфигурацию и возвращает ошибку в случае неудачи.
func Load(log logger.Logger) (*Config, error) {
	db, err := loadPGDBCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	http, err := loadHTTPConfig(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	redis, err := loadRedisCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	kafka, err := loadKafkaCfg()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	outbox, err := loadOutboxCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	storage, err := loadStorageCfg(log)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return &Config{
		App:     loadAppCfg(),
		Http:    http,
		Db:      db,
		Redis:   redis,
		Kafka:   kafka,
		Outbox:  outbox,
		Storage: storage,
	}, nil
}

func loadAppCfg() *AppCfg {
	return &AppCfg{
		Env:      getEnvOrDefault("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL"),
	}
}

// LoadStorageCfg загружает только настройки хранилища (используется CLI).
func LoadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	return loadStorageCfg(log)
}

func loadStorageCfg(log logger.Logger) (*StorageCfg, error) {
	const (
		defaultProvider      = ProviderMinio
		defaultEndpoint      = "minio:9000"
		defaultUseSSL        = false
		defaultRegion        = "us-east-1"
		defaultProtectedDir  = "protected"
		defaultMediaDir      = "media"
		defaultProtectedRoot = "./protected"
		defaultFileExpire    = 200 * time.Second
		defaultUploadLimit   = 10
	)

	provider := strings.ToLower(getEnvOrDefault("STORAGE_PROVIDER", defaultProvider))
	if provider != ProviderMinio && provider != ProviderAWS {
		err := fmt.Errorf("STORAGE_PROVIDER must be %q or %q, got %q", ProviderMinio, ProviderAWS, provider)
		log.Errorf(err, "invalid STORAGE_PROVIDER")
		return nil, err
	}

	useSSL, err := strconv.ParseBool(getEnvOrDefault("STORAGE_USE_SSL", strconv.FormatBool(defaultUseSSL)))
	if err != nil {
		log.Errorf(err, "invalid STORAGE_USE_SSL")
		return nil, err
	}

	expire, err := parseDurationEnv("STORAGE_FILE_EXPIRE", defaultFileExpire)
	if err != nil {
		log.Errorf(err, "invalid STORAGE_FILE_EXPIRE")
		return nil, err
	}
	if expire < minFileExpire || expire > maxFileExpire {
		err := fmt.Errorf("STORAGE_FILE_EXPIRE must be between %v and %v, got %v", minFileExpire, maxFileExpire, expire)
		log.Errorf(err, "invalid STORAGE_FILE_EXPIRE")
		return nil, err
	}

	uploadLimit, err := parseIntEnv("UPLOAD_LIMIT", defaultUploadLimit)
	if err != nil || uploadLimit <= 0 {
		log.Warnf("invalid UPLOAD_LIMIT, using %d", defaultUploadLimit)
		uploadLimit = defaultUploadLimit
	}

	// Отсутствие ключей не ошибка: скачивание деградирует до заглушки.
	storage := &StorageCfg{
		Provider:         provider,
		Endpoint:         getEnvOrDefault("STORAGE_ENDPOINT", defaultEndpoint),
		UseSSL:           useSSL,
		BucketName:       getEnv("AWS_STORAGE_BUCKET_NAME"),
		Region:           getEnvOrDefault("S3DIRECT_REGION", defaultRegion),
		AccessKey:        getEnv("AWS_ACCESS_KEY_ID"),
		SecretKey:        getEnv("AWS_SECRET_ACCESS_KEY"),
		ProtectedDirName: getEnvOrDefault("PROTECTED_DIR_NAME", defaultProtectedDir),
		MediaDirName:     getEnvOrDefault("MEDIA_DIR_NAME", defaultMediaDir),
		ProtectedRoot:    getEnvOrDefault("PROTECTED_ROOT", defaultProtectedRoot),
		FileExpire:       expire,
		UploadLimit:      uploadLimit,
	}

	if !storage.IsConfigured() {
		log.Warnf("object storage credentials are not fully configured, downloads will fall back")
	}

	return storage, nil
}

func loadKafkaCfg() (*KafkaCfg, error) {
	const (
		defaultPartitions        = 3
		defaultReplicationFactor = 1
		defaultNetworkMode       = "tcp"
	)

	brokerStr := os.Getenv("KAFKA_BROKERS")
	if brokerStr == "" {
		return nil, fmt.Errorf("KAFKA_BROKERS environment variable is required")
	}

	brokers := make([]string, 0)
	for _, b := range strings.Split(brokerStr, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	topic := os.Getenv("KAFKA_TOPIC")
	if topic == "" {
		return nil, fmt.Errorf("KAFKA_TOPIC environment variable is required")
	}

	partitions, err := parseIntEnv("KAFKA_PARTITIONS", defaultPartitions)
	if err != nil {
		return nil, e.Wrap("KAFKA_PARTITIONS", err)
	}

	replicationFactor, err := parseIntEnv("REPLICATION_FACTOR", defaultReplicationFactor)
	if err != nil {
		return nil, e.Wrap("REPLICATION_FACTOR", err)
	}

	return &KafkaCfg{
		Brokers:           brokers,
		Topic:             topic,
		Partitions:        partitions,
		ReplicationFactor: replicationFactor,
		NetworkMode:       getEnvOrDefault("KAFKA_NETWORK_MODE", defaultNetworkMode),
	}, nil
}

func loadOutboxCfg(log logger.Logger) (*OutboxCfg, error) {
	const (
		defaultBatchSize    = 10
		defaultPollInterval = 30 * time.Second
		defaultStaleAfter   = 5 * time.Minute
	)

	batchSize, err := parseIntEnv("OUTBOX_BATCH_SIZE", defaultBatchSize)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_BATCH_SIZE")
		return nil, err
	}

	pollInterval, err := parseDurationEnv("OUTBOX_POLL_INTERVAL", defaultPollInterval)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_POLL_INTERVAL")
		return nil, err
	}

	staleAfter, err := parseDurationEnv("OUTBOX_STALE_AFTER", defaultStaleAfter)
	if err != nil {
		log.Errorf(err, "invalid OUTBOX_STALE_AFTER")
		return nil, err
	}

	return &OutboxCfg{
		BatchSize:    batchSize,
		PollInterval: pollInterval,
		StaleAfter:   staleAfter,
	}, nil
}

func loadHTTPConfig(log logger.Logger) (*HTTPConfig, error) {
	const (
		defaultPort         = "8080"
		defaultReadTimeout  = 5 * time.Second
		defaultWriteTimeout = 10 * time.Second
		defaultIdleTimeout  = 60 * time.Second
		defaultOrigins      = "*"
	)

	readTimeout, err := parseDurationEnv("HTTP_READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("HTTP_WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid HTTP_WRITE_TIMEOUT")
		return nil, err
	}

	idleTimeout, err := parseDurationEnv("KEEP_ALIVE", defaultIdleTimeout)
	if err != nil {
		log.Errorf(err, "invalid KEEP_ALIVE")
		return nil, err
	}

	return &HTTPConfig{
		Port:           getEnvOrDefault("HTTP_PORT", defaultPort),
		ReadTimeout:    readTimeout,
		WriteTimeout:   writeTimeout,
		IdleTimeout:    idleTimeout,
		AllowedOrigins: strings.Split(getEnvOrDefault("CORS_ALLOWED_ORIGINS", defaultOrigins), ","),
	}, nil
}

func loadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	const (
		defaultHost    = "localhost"
		defaultPort    = "5432"
		defaultSSLMode = "disable"
	)

	user := getEnv("POSTGRES_USER")
	if user == "" {
		err := fmt.Errorf("POSTGRES_USER is required")
		log.Errorf(err, "missing POSTGRES_USER")
		return nil, err
	}

	password := getEnv("POSTGRES_PASSWORD")
	if password == "" {
		err := fmt.Errorf("POSTGRES_PASSWORD is required")
		log.Errorf(err, "missing POSTGRES_PASSWORD")
		return nil, err
	}

	dbName := getEnv("POSTGRES_DB")
	if dbName == "" {
		err := fmt.Errorf("POSTGRES_DB is required")
		log.Errorf(err, "missing POSTGRES_DB")
		return nil, err
	}

	return &PGDBCfg{
		Host:     getEnvOrDefault("POSTGRES_HOST", defaultHost),
		Port:     getEnvOrDefault("POSTGRES_PORT", defaultPort),
		User:     user,
		Password: password,
		DBName:   dbName,
		SSLMode:  getEnvOrDefault("SSL_MODE", defaultSSLMode),
	}, nil
}

// LoadPGDBCfg загружает только настройки PostgreSQL (используется CLI).
func LoadPGDBCfg(log logger.Logger) (*PGDBCfg, error) {
	return loadPGDBCfg(log)
}

func loadRedisCfg(log logger.Logger) (*RedisCfg, error) {
	const (
		defaultAddr         = "localhost:6379"
		defaultDB           = 0
		defaultMaxRetries   = 3
		defaultDialTimeout  = 5 * time.Second
		defaultReadTimeout  = 3 * time.Second
		defaultWriteTimeout = 3 * time.Second
		defaultProductTTL   = 3 * time.Minute
	)

	db, err := parseIntEnv("REDIS_DB_ID", defaultDB)
	if err != nil {
		log.Errorf(err, "invalid REDIS_DB_ID")
		return nil, err
	}

	maxRetries, err := parseIntEnv("MAX_RETRIES", defaultMaxRetries)
	if err != nil {
		log.Errorf(err, "invalid MAX_RETRIES")
		return nil, err
	}

	dialTimeout, err := parseDurationEnv("DIAL_TIMEOUT", defaultDialTimeout)
	if err != nil {
		log.Errorf(err, "invalid DIAL_TIMEOUT")
		return nil, err
	}

	readTimeout, err := parseDurationEnv("READ_TIMEOUT", defaultReadTimeout)
	if err != nil {
		log.Errorf(err, "invalid READ_TIMEOUT")
		return nil, err
	}

	writeTimeout, err := parseDurationEnv("WRITE_TIMEOUT", defaultWriteTimeout)
	if err != nil {
		log.Errorf(err, "invalid WRITE_TIMEOUT")
		return nil, err
	}

	productTTL, err := parseDurationEnv("PRODUCT_TTL", defaultProductTTL)
	if err != nil {
		log.Errorf(err, "invalid PRODUCT_TTL")
		return nil, err
	}

	timeout := readTimeout
	if writeTimeout > timeout {
		timeout = writeTimeout
	}

	return &RedisCfg{
		Addr:        getEnvOrDefault("REDIS_ADDR", defaultAddr),
		Password:    getEnv("REDIS_PASSWORD"),
		User:        getEnv("REDIS_USER"),
		DB:          db,
		MaxRetries:  maxRetries,
		DialTimeout: dialTimeout,
		Timeout:     timeout,
		ProductTTL:  productTTL,
	}, nil
}

// getEnv возвращает значение переменной окружения.
// Возвращает пустую строку, если переменная не задана.
func getEnv(key string) string {
	return os.Getenv(key)
}

// getEnvOrDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}

	return defaultValue
}

// parseDurationEnv считывает длительность или возвращает значение по умолчанию.
func parseDurationEnv(key string, defaultValue time.Duration) (time.Duration, error) {
	if v := os.Getenv(key); v != "" {
		return time.ParseDuration(v)
	}

	return defaultValue, nil
}

func parseIntEnv(key string, defaultValue int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultValue, nil
	}

	intValue, err := strconv.Atoi(v)
	if err != nil {
		return defaultValue, e.ErrIncorrectEnvVariable
	}

	return intValue, nil
}
