package main

import (
	"io"
	"log"
	"os"

	"github.com/shelterhub/backend/internal/config"
	"github.com/shelterhub/backend/internal/logging"
	"github.com/shelterhub/backend/internal/media"
	miniorepo "github.com/shelterhub/backend/internal/repository/minio"
	"github.com/shelterhub/backend/internal/repository/postgres"
	"github.com/shelterhub/backend/internal/service"
	transport "github.com/shelterhub/backend/internal/transport/http"
	"github.com/shelterhub/backend/internal/util"
)

func main() {
	cfg := config.Load()

	if cfg.LogstashTCPAddr != "" {
		writer, err := logging.NewLogstashWriter(cfg.LogstashTCPAddr)
		if err != nil {
			log.Printf("Warning: logstash disabled: %v", err)
		} else {
			defer writer.Close()
			log.SetOutput(io.MultiWriter(os.Stderr, writer))
		}
	}

	db, err := postgres.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect database: %v", err)
	}
	defer db.Close()

	minioClient, err := miniorepo.NewClient(cfg.MinIOEndpoint, cfg.MinIOAccessKey, cfg.MinIOSecretKey, cfg.MinIOUseSSL)
	if err != nil {
		log.Fatalf("connect minio: %v", err)
	}
	storage := miniorepo.NewStorage(minioClient, cfg.MinIOPublicURL)

	accountRepo := postgres.NewAccountRepo(db)
	shelterRepo := postgres.NewShelterRepo(db)

	tokens := util.NewJWTManager(cfg.JWTSecret, cfg.JWTTTL)
	processor := media.NewImageProcessor(media.DefaultMaxDimension)

	accountService := service.NewAccountService(accountRepo, storage, processor, tokens, service.AccountServiceConfig{
		AvatarBucket:   cfg.MinIOBucket,
		AvatarMaxBytes: cfg.AvatarMaxBytes,
		GoogleAudience: cfg.GoogleAudience,
	})
	shelterService := service.NewShelterService(shelterRepo, accountRepo)

	e := transport.NewRouter(cfg.AllowOrigins, cfg.Debug())
	transport.RegisterAuth(e, accountService)
	transport.RegisterAccounts(e, tokens, accountService)
	transport.RegisterShelters(e, tokens, shelterService)
	transport.RegisterSwagger(e)

	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
