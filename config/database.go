package config

import (
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"time"

	"munaybol/models"

	mysqldrv "github.com/go-sql-driver/mysql"
	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// PostgresDSN builds a key/value DSN understood by both pgx and lib/pq
func PostgresDSN(s Settings) string {
	if s.DBDSN != "" {
		return s.DBDSN
	}
	port := s.DBPort
	if port == "" {
		port = "5432"
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=America/La_Paz",
		s.DBHost, s.DBUser, s.DBPassword, s.DBName, port, s.DBSSLMode)
}

func mysqlDSN(s Settings) string {
	if s.DBDSN != "" {
		return s.DBDSN
	}
	port := s.DBPort
	if port == "" {
		port = "3306"
	}
	cfg := mysqldrv.NewConfig()
	cfg.User = s.DBUser
	cfg.Passwd = s.DBPassword
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(s.DBHost, port)
	cfg.DBName = s.DBName
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	cfg.Params = map[string]string{"charset": "utf8mb4"}
	return cfg.FormatDSN()
}

// Dialector picks the gorm driver from DB_DRIVER
func Dialector(s Settings) (gorm.Dialector, error) {
	switch s.DBDriver {
	case "postgres", "":
		return postgres.Open(PostgresDSN(s)), nil
	case "mysql":
		return mysql.Open(mysqlDSN(s)), nil
	case "sqlite":
		dsn := s.DBDSN
		if dsn == "" {
			dsn = s.DBName + ".db"
		}
		return sqlite.Open(dsn), nil
	default:
		return nil, fmt.Errorf("DB_DRIVER desconocido: %s", s.DBDriver)
	}
}

// NewGormLogger wires gorm's logger to w
func NewGormLogger(w io.Writer, debug bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	return gormlogger.New(
		log.New(w, "\r\n", log.LstdFlags),
		gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)
}

// ConnectDB opens the database selected by settings
func ConnectDB(s Settings) (*gorm.DB, error) {
	dialector, err := Dialector(s)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(os.Stdout, s.LogLevel == "debug"),
	})
	if err != nil {
		return nil, fmt.Errorf("fail to connect to db: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	log.Printf("Conectado a la base de datos (%s)", db.Dialector.Name())
	return db, nil
}

// Migrate creates or updates every table
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
