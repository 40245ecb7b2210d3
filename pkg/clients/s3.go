package clients

import (
	"context"

	"github.com/DRSN-tech/storefront/internal/cfg"
	"github.com/DRSN-tech/storefront/pkg/e"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jimlawless/whereami"
)

// NewS3Client создаёт клиента AWS S3 со статическими ключами из конфигурации.
func NewS3Client(ctx context.Context, cfg *cfg.StorageCfg) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
	)
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return s3.NewFromConfig(awsCfg), nil
}
