package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"socialflow-backend/internal/delivery/http/utils"
	"socialflow-backend/internal/repo/cockroach"
	"socialflow-backend/internal/repo/kafka"
	"socialflow-backend/internal/usecase/service"
	"socialflow-backend/internal/usecase/service/google"
	"socialflow-backend/internal/usecase/service/linkedin"
	"socialflow-backend/internal/usecase/service/meta"
	"socialflow-backend/pkg/connector"
	"socialflow-backend/pkg/goosehelper"
)

func env(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func init() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	// Выполнить миграции при старте
	dbConnectDSN := env("DB_CONNECT_DSN", "user=root dbname=defaultdb sslmode=disable port=26257")
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	goosehelper.MigrateUp(DBConn.DB, env("MIGRATIONS_DIR", "./migrations"))
	if err := DBConn.Close(); err != nil {
		log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()

	dbConnectDSN := env("DB_CONNECT_DSN", "user=root dbname=defaultdb sslmode=disable port=26257")
	kafkaBrokers := strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ",")
	globalDryRun, _ := strconv.ParseBool(env("AUTOPOST_DRY_RUN", "false"))

	workerID := os.Getenv("PUBLISH_WORKER_ID")
	if workerID == "" {
		hostname, err := os.Hostname()
		if err != nil {
			workerID = fmt.Sprintf("publish-worker-%d", time.Now().Unix())
		} else {
			workerID = fmt.Sprintf("publish-worker-%s-%d", hostname, time.Now().Unix())
		}
	}
	log.Infof("Запуск воркера публикаций с ID: %s", workerID)

	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := DBConn.Close(); err != nil {
			log.Errorf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	minioClient, err := connector.GetMinioConnector(
		env("MINIO_ENDPOINT", "localhost:9000"),
		env("MINIO_ACCESS_KEY", "minioadmin"),
		env("MINIO_SECRET_KEY", "minioadmin"),
		false,
	)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	orgRepo := cockroach.NewOrganization(DBConn)
	contentRepo := cockroach.NewContent(DBConn)
	tokenRepo := cockroach.NewToken(DBConn)
	metricsRepo := cockroach.NewMetrics(DBConn)
	mediaRepo, err := cockroach.NewMedia(DBConn, minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Media: %v", err)
	}
	publishQueue, err := kafka.NewPublishQueueKafkaRepository(kafkaBrokers, "publish-workers")
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}

	oauthManager := utils.NewOAuthManager(utils.OAuthCredentials{
		MetaClientID:         os.Getenv("META_CLIENT_ID"),
		MetaClientSecret:     os.Getenv("META_CLIENT_SECRET"),
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectBaseURL:      env("OAUTH_REDIRECT_BASE_URL", "http://localhost"),
	})

	mediaUseCase := service.NewMediaService(mediaRepo)
	tokenProvider := service.NewTokenService(tokenRepo, oauthManager.Configs())
	metaClient := meta.NewClient("")
	linkedinClient := linkedin.NewClient("")
	dispatcher := service.NewPublishDispatcher(
		service.DispatcherConfig{GlobalDryRun: globalDryRun},
		contentRepo,
		orgRepo,
		metricsRepo,
		tokenProvider,
		meta.NewFacebookPublisher(metaClient, mediaUseCase),
		meta.NewInstagramPublisher(metaClient, mediaUseCase),
		linkedin.NewPublisher(linkedinClient, mediaUseCase),
		google.NewYouTubePublisher(""),
		google.NewBusinessPublisher("", os.Getenv("GBP_LOCATION_NAME")),
	)

	// Start блокируется до закрытия канала заданий (отмена контекста)
	worker := service.NewPublishWorker(publishQueue, contentRepo, dispatcher, workerID)
	if err := worker.Start(ctx); err != nil {
		log.Fatalf("Воркер публикаций завершился с ошибкой: %v", err)
	}
	log.Infof("Воркер публикаций %s остановлен", workerID)
}
