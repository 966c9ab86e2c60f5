package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"hotel-booking/models"

	"github.com/rs/zerolog"
	"gorm.io/datatypes"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormWriter forwards gorm's SQL log lines to zerolog.
type gormWriter struct {
	log zerolog.Logger
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func gormLogLevel(raw string) logger.LogLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func mysqlDSNFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	user := u.User.Username()
	pass, _ := u.User.Password()
	host := u.Hostname()
	port := u.Port()
	if port == "" {
		port = "3306"
	}

	dbName := strings.TrimPrefix(u.Path, "/")
	if dbName == "" {
		return "", fmt.Errorf("mysql url missing database name")
	}

	q := u.Query()
	if q.Get("charset") == "" {
		q.Set("charset", "utf8mb4")
	}
	if q.Get("parseTime") == "" {
		q.Set("parseTime", "True")
	}
	if q.Get("loc") == "" {
		q.Set("loc", "UTC")
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", user, pass, host, port, dbName, q.Encode()), nil
}

// ResolveMySQLDSN accepts a mysql:// URL, a raw go-sql-driver DSN, or the discrete host fields.
func ResolveMySQLDSN(cfg DatabaseConfig) (string, error) {
	raw := strings.TrimSpace(cfg.URL)
	if raw != "" {
		if strings.HasPrefix(raw, "mysql://") {
			return mysqlDSNFromURL(raw)
		}
		return raw, nil
	}

	user := orDefault(cfg.User, "root")
	host := orDefault(cfg.Host, "127.0.0.1")
	port := orDefault(cfg.Port, "3306")
	dbName := orDefault(cfg.Name, "hotel_db")

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		user, cfg.Password, host, port, dbName,
	), nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func dialector(cfg DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case "sqlite":
		return sqlite.Open(cfg.SQLitePath), nil
	case "mysql", "":
		dsn, err := ResolveMySQLDSN(cfg)
		if err != nil {
			return nil, err
		}
		return mysql.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// ConnectDatabase opens the configured database and migrates the schema.
func ConnectDatabase(cfg DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	d, err := dialector(cfg)
	if err != nil {
		return nil, err
	}

	gormLogger := logger.New(
		gormWriter{log: log.With().Str("component", "gorm").Logger()},
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  gormLogLevel(cfg.LogLevel),
			IgnoreRecordNotFoundError: true,
		},
	)

	db, err := gorm.Open(d, &gorm.Config{Logger: gormLogger, TranslateError: true})
	if err != nil {
		return nil, err
	}

	if cfg.Driver == "sqlite" {
		// SQLite has no row locks; one connection serializes room transactions.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	if cfg.Seed {
		if err := SeedDatabase(db, log); err != nil {
			log.Warn().Err(err).Msg("demo seed failed")
		}
	}
	return db, nil
}

// Migrate runs AutoMigrate in parent->child order.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Hotel{},
		&models.Room{},
		&models.Booking{},
	)
}

// SeedDatabase inserts one demo hotel with two rooms into an empty database.
func SeedDatabase(db *gorm.DB, log zerolog.Logger) error {
	var count int64
	if err := db.Model(&models.Hotel{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Info().Msg("hotels already seeded")
		return nil
	}

	breakfast := 12.5
	hotel := models.Hotel{
		OwnerID:             "demo-owner",
		Title:               "Lakeside Inn",
		Description:         "A quiet inn on the lake shore with a garden terrace.",
		Image:               "https://images.example.com/lakeside.jpg",
		Country:             "IN",
		State:               "KA",
		City:                "Bengaluru",
		LocationDescription: "Ten minutes from the old town by foot.",
		Amenities:           datatypes.JSON(`["wifi","parking","restaurant"]`),
		Rooms: []models.Room{
			{
				Title:          "Double Room",
				Description:    "Queen bed with a view over the garden.",
				Image:          "https://images.example.com/double.jpg",
				BedCount:       1,
				BathroomCount:  1,
				GuestCount:     2,
				QueenBed:       1,
				RoomPrice:      80,
				BreakfastPrice: &breakfast,
			},
			{
				Title:         "Family Suite",
				Description:   "Two bedrooms and a living area for four guests.",
				Image:         "https://images.example.com/suite.jpg",
				BedCount:      2,
				BathroomCount: 2,
				GuestCount:    4,
				KingBed:       1,
				QueenBed:      1,
				RoomPrice:     150,
			},
		},
	}
	if err := db.Create(&hotel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return fmt.Errorf("seed hotel: %w", err)
	}
	log.Info().Uint("hotel_id", hotel.ID).Msg("demo hotel seeded")
	return nil
}
