package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"munaybol/config"
	"munaybol/constants"
	"munaybol/jobs"
	"munaybol/routes"
	"munaybol/services"
	"munaybol/services/chat"
	"munaybol/services/logger"
	"munaybol/services/notification"

	"github.com/urfave/cli/v2"
	"gorm.io/gorm"
)

func main() {
	app := &cli.App{
		Name:  "munaybol",
		Usage: "backend de turismo MunayBol",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "inicia el servidor HTTP",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "migrate", Value: true, Usage: "aplica migraciones al iniciar"},
				},
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "crea o actualiza las tablas",
				Action: migrate,
			},
			{
				Name:  "import-data",
				Usage: "copia hoteles y lugares del dataset al catálogo",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "dataset", Usage: "ruta del JSON (por defecto DATASET_PATH)"},
				},
				Action: importData,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(s config.Settings) logger.Logger {
	level := logger.ParseLevel(s.LogLevel)
	if s.LogDir != "" {
		l, err := logger.NewFileLogger(s.LogDir, level)
		if err == nil {
			return l
		}
		log.Printf("No se pudo abrir LOG_DIR %s: %v", s.LogDir, err)
	}
	return logger.NewDefaultLogger(level)
}

func openDB() (config.Settings, *gorm.DB, error) {
	config.LoadEnv()
	s := config.Load()
	db, err := config.ConnectDB(s)
	return s, db, err
}

func migrate(_ *cli.Context) error {
	_, db, err := openDB()
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	log.Println("Migraciones aplicadas")
	return nil
}

func importData(c *cli.Context) error {
	s, db, err := openDB()
	if err != nil {
		return err
	}
	path := c.String("dataset")
	if path == "" {
		path = s.DatasetPath
	}
	ds, err := chat.LoadDataset(path)
	if err != nil {
		return err
	}
	if err := config.Migrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	res, err := services.ImportDataset(c.Context, db, ds)
	if err != nil {
		return err
	}
	log.Printf("Importados %d hoteles y %d lugares desde %s", res.Hotels, res.Places, path)
	return nil
}

func serve(c *cli.Context) error {
	s, router, m, cr, err := config.InitApp()
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	appLog := newLogger(s)
	db := config.DB

	if c.Bool("migrate") {
		if err := config.Migrate(db); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tokens := services.NewTokenService(s.AccessSecret, s.RefreshSecret)

	hub := notification.NewHub(m, appLog)
	var publisher notification.Publisher = hub
	if s.NotifyRelay && db.Dialector.Name() == "postgres" {
		relay := notification.NewPgRelay(db, config.PostgresDSN(s), hub, appLog)
		publisher = relay
		go func() {
			if err := relay.Listen(ctx); err != nil {
				appLog.Error("Relay de notificaciones detenido: %v", err)
			}
		}()
	}
	var alerter notification.Alerter
	if s.TelegramToken != "" && s.TelegramAdminChatID != 0 {
		tg, err := notification.NewTelegramAlerter(s.TelegramToken, s.TelegramAdminChatID)
		if err != nil {
			appLog.Error("Telegram desactivado: %v", err)
		} else {
			alerter = tg
		}
	}
	notifications := notification.NewService(notification.ServiceOptions{
		DB:        db,
		Logger:    appLog,
		Publisher: publisher,
		Alerter:   alerter,
	})

	var google, github services.IdentityProvider
	var githubOAuth *services.GithubOAuth
	if s.GoogleClientID != "" {
		google = services.NewGoogleVerifier(s.GoogleClientID)
	}
	if s.GithubClientID != "" && s.GithubClientSecret != "" {
		githubOAuth = services.NewGithubOAuth(s.GithubClientID, s.GithubClientSecret, s.GithubRedirectURL)
		github = githubOAuth
	}

	availability := services.NewAvailabilityService(services.AvailabilityServiceOptions{
		DB:     db,
		Redis:  config.RedisClient,
		Logger: appLog,
	})

	var uploader services.ImageUploader
	if config.Cloudinary != nil {
		uploader = services.NewCloudinaryUploader(config.Cloudinary)
	}

	dataset, err := chat.LoadDataset(s.DatasetPath)
	if err != nil {
		appLog.Error("Dataset no disponible, el chat solo usará el modelo: %v", err)
		dataset = chat.NewDataset(chat.RawDataset{})
	} else {
		deps, hotels, places := dataset.Counts()
		appLog.Info("Dataset cargado: %d departamentos, %d hoteles, %d lugares", deps, hotels, places)
	}
	composer := chat.NewComposer(chat.ComposerOptions{
		Dataset: dataset,
		Generator: chat.NewOllamaClient(chat.OllamaConfig{
			BaseURL: s.OllamaBaseURL,
			Model:   s.OllamaModel,
			Timeout: s.OllamaTimeout,
			Options: chat.OllamaOptions{
				Temperature: s.OllamaTemperature,
				NumCtx:      s.OllamaNumCtx,
				NumPredict:  s.OllamaMaxTokens,
			},
		}),
		Store:   chat.NewContextStore(config.RedisClient, constants.ChatContextTTL),
		Logger:  appLog,
		Timeout: s.OllamaTimeout,
	})

	reservations := services.NewReservationService(services.ReservationServiceOptions{
		DB:           db,
		Logger:       appLog,
		Availability: availability,
		Notifier:     notifications,
	})
	chatService := services.NewChatService(db, composer, appLog)

	routes.SetupRoutes(router, routes.Deps{
		Logger: appLog,
		Tokens: tokens,
		Auth: services.NewAuthService(services.AuthServiceOptions{
			DB:     db,
			Tokens: tokens,
			Logger: appLog,
			Google: google,
			Github: github,
		}),
		Github: githubOAuth,
		Users:  services.NewUserService(services.UserServiceOptions{DB: db, Logger: appLog}),
		Catalog: services.NewCatalogService(services.CatalogServiceOptions{
			DB:           db,
			Redis:        config.RedisClient,
			Logger:       appLog,
			Availability: availability,
			Broadcaster:  notifications,
		}),
		Availability:  availability,
		Reservations:  reservations,
		Reviews:       services.NewReviewService(db, appLog),
		Payments:      services.NewPaymentService(db, appLog),
		Uploads:       services.NewUploadService(uploader, appLog),
		Chat:          chatService,
		Notifications: notifications,
		Hub:           hub,
	})

	if err := jobs.InitCronJobs(cr, reservations, chatService, appLog); err != nil {
		return fmt.Errorf("failed to initialize cron jobs: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + s.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		appLog.Info("Servidor escuchando en el puerto %s", s.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Error("Servidor detenido: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLog.Info("Apagando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	<-cr.Stop().Done()
	if err := hub.Close(); err != nil {
		appLog.Error("Cerrando websockets: %v", err)
	}
	return srv.Shutdown(shutdownCtx)
}
