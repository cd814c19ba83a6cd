package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	delivery "socialflow-backend/internal/delivery/http"
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

func main() {
	err := godotenv.Load()
	if err != nil {
		log.Info(".env файл не обнаружен")
	}

	dbConnectDSN := env("DB_CONNECT_DSN", "user=root dbname=defaultdb sslmode=disable port=26257")
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET переменная окружения обязательна")
	}
	kafkaBrokers := strings.Split(env("KAFKA_BROKERS", "localhost:9092"), ",")
	globalDryRun, _ := strconv.ParseBool(env("AUTOPOST_DRY_RUN", "false"))

	// cockroach
	DBConn, err := connector.GetCockroachConnector(dbConnectDSN)
	if err != nil {
		log.Fatalf("Ошибка при подключении к базе данных: %v", err)
	}
	defer func() {
		if err := DBConn.Close(); err != nil {
			log.Fatalf("Ошибка при закрытии соединения с базой данных: %v", err)
		}
	}()

	// миграции при старте
	goosehelper.MigrateUp(DBConn.DB, env("MIGRATIONS_DIR", "./migrations"))

	// minio
	minioClient, err := connector.GetMinioConnector(
		env("MINIO_ENDPOINT", "localhost:9000"),
		env("MINIO_ACCESS_KEY", "minioadmin"),
		env("MINIO_SECRET_KEY", "minioadmin"),
		false,
	)
	if err != nil {
		log.Fatalf("Ошибка при подключении к MinIO: %v", err)
	}

	// репозитории
	userRepo := cockroach.NewUser(DBConn)
	orgRepo := cockroach.NewOrganization(DBConn)
	contentRepo := cockroach.NewContent(DBConn)
	tokenRepo := cockroach.NewToken(DBConn)
	metricsRepo := cockroach.NewMetrics(DBConn)
	mediaRepo, err := cockroach.NewMedia(DBConn, minioClient)
	if err != nil {
		log.Fatalf("Ошибка при создании репозитория Media: %v", err)
	}
	publishQueue, err := kafka.NewPublishQueueKafkaRepository(kafkaBrokers, "gateway")
	if err != nil {
		log.Fatalf("Ошибка при подключении к Kafka: %v", err)
	}

	// OAuth-конфигурация платформ
	oauthManager := utils.NewOAuthManager(utils.OAuthCredentials{
		MetaClientID:         os.Getenv("META_CLIENT_ID"),
		MetaClientSecret:     os.Getenv("META_CLIENT_SECRET"),
		LinkedInClientID:     os.Getenv("LINKEDIN_CLIENT_ID"),
		LinkedInClientSecret: os.Getenv("LINKEDIN_CLIENT_SECRET"),
		GoogleClientID:       os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleClientSecret:   os.Getenv("GOOGLE_CLIENT_SECRET"),
		RedirectBaseURL:      env("OAUTH_REDIRECT_BASE_URL", "http://localhost"),
	})

	// usecase
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
	userUseCase := service.NewUser(userRepo)
	orgUseCase := service.NewOrganization(orgRepo)
	contentUseCase := service.NewContent(contentRepo, orgRepo)
	metricsUseCase := service.NewMetrics(metricsRepo, contentRepo, orgRepo)

	// планировщик автопостинга: просроченные pending-расписания уходят в очередь
	schedulerInterval, err := time.ParseDuration(env("SCHEDULER_INTERVAL", "30s"))
	if err != nil {
		log.Fatalf("Неверный формат SCHEDULER_INTERVAL: %v", err)
	}
	scheduler := service.NewScheduler(contentRepo, publishQueue, schedulerInterval)

	// delivery
	cookieManager := utils.NewCookieManager(false)
	authManager := utils.NewAuthManager([]byte(jwtSecret), userRepo, time.Hour*24*365)
	userDelivery := delivery.NewUser(userUseCase, authManager, cookieManager)
	orgDelivery := delivery.NewOrganization(authManager, orgUseCase)
	contentDelivery := delivery.NewContent(authManager, contentUseCase)
	publishDelivery := delivery.NewPublish(authManager, dispatcher, contentUseCase)
	connectionDelivery := delivery.NewConnection(authManager, oauthManager, tokenRepo, orgRepo)
	mediaDelivery := delivery.NewMedia(authManager, mediaUseCase)
	analyticsDelivery := delivery.NewAnalytics(authManager, metricsUseCase)

	// REST API
	echoServer := echo.New()

	// Не более 10 МБ
	echoServer.Use(middleware.BodyLimit("10M"))
	// gzip на прием
	echoServer.Use(middleware.Decompress())
	// gzip на отдачу
	echoServer.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
	}))
	// request id
	echoServer.Use(middleware.RequestID())

	// CORS
	echoServer.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     strings.Split(env("CORS_ALLOW_ORIGINS", "http://localhost:3000"), ","),
		AllowMethods:     []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Endpoints
	api := echoServer.Group("/api")
	userDelivery.Configure(api.Group("/user"))
	orgDelivery.Configure(api.Group("/organizations"))
	contentDelivery.Configure(api.Group("/content"))
	publishDelivery.Configure(api.Group("/publish"))
	connectionDelivery.Configure(api.Group("/connections"))
	mediaDelivery.Configure(api.Group("/media"))
	analyticsDelivery.Configure(api.Group("/analytics"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer stop()
	go func(server *echo.Echo) {
		if err := server.Start(env("LISTEN_ADDR", "0.0.0.0:80")); err != nil && !errors.Is(err, http.ErrServerClosed) {
			server.Logger.Fatalf("Сервер завершил свою работу по причине: %v\n", err)
		}
	}(echoServer)
	go scheduler.Start(ctx)

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := echoServer.Shutdown(shutdownCtx); err != nil {
		echoServer.Logger.Fatalf("Во время выключения сервера возникла ошибка: %s\n", err)
	}
}
