package config

import (
	"context"

	"github.com/knadh/koanf/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// NewMinIO connects to the avatar bucket, creating it on first start.
func NewMinIO(config *koanf.Koanf, log *zap.Logger) *minio.Client {
	minioClient, err := minio.New(config.String("MINIO_URL"), &minio.Options{
		Creds:  credentials.NewStaticV4(config.String("MINIO_USER"), config.String("MINIO_PASSWORD"), ""),
		Secure: config.String("MINIO_HTTP") == "https://",
	})
	if err != nil {
		log.Fatal("failed to initialize minio client", zap.Error(err))
	}

	bucketName := config.String("MINIO_BUCKET_NAME")
	ctx := context.Background()

	exists, err := minioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("failed to check minio bucket", zap.Error(err))
	}

	if exists {
		log.Info("minio bucket already exists", zap.String("bucket", bucketName))
		return minioClient
	}

	err = minioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{
		Region: config.String("MINIO_LOCATION"),
	})
	if err != nil {
		log.Fatal("failed to create minio bucket", zap.Error(err))
	}

	log.Info("successfully created minio bucket", zap.String("bucket", bucketName))

	return minioClient
}
