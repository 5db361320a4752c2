package config

import (
	"fmt"
	"log"
	"time"

	"munaybol/validator"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/olahol/melody"
	"github.com/robfig/cron/v3"
)

// NewRouter builds the gin engine with CORS and binding rules
func NewRouter(s Settings) *gin.Engine {
	if s.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())

	configCors := cors.DefaultConfig()
	configCors.AddAllowHeaders("Authorization", "X-Session-ID")
	configCors.AddExposeHeaders("X-Session-ID")
	configCors.AllowCredentials = true
	if len(s.CORSOrigins) > 0 {
		configCors.AllowOrigins = s.CORSOrigins
	} else {
		configCors.AllowOriginFunc = func(origin string) bool {
			return true
		}
	}
	configCors.MaxAge = 12 * time.Hour
	router.Use(cors.New(configCors))

	router.SetTrustedProxies(nil)

	if err := validator.RegisterBindings(); err != nil {
		log.Printf("No se pudieron registrar las reglas de validación: %v", err)
	}
	return router
}

// InitApp loads settings, connects DB, Redis and Cloudinary and returns router, melody and cron
func InitApp() (Settings, *gin.Engine, *melody.Melody, *cron.Cron, error) {
	LoadEnv()
	s := Load()

	if err := initComponents(s); err != nil {
		return s, nil, nil, nil, fmt.Errorf("failed to initialize components: %w", err)
	}

	router := NewRouter(s)

	m := melody.New()
	m.Config.MaxMessageSize = 1024

	c := cron.New()

	return s, router, m, c, nil
}

func initComponents(s Settings) error {
	var err error

	DB, err = ConnectDB(s)
	if err != nil {
		return err
	}

	RedisClient, err = ConnectRedis(s)
	if err != nil {
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	Cloudinary, err = ConnectCloudinary(s)
	if err != nil {
		return fmt.Errorf("failed to init Cloudinary: %w", err)
	}

	log.Println("All components initialized successfully")
	return nil
}
