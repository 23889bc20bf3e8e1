package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"research-proposal-backend/app/model"
	"research-proposal-backend/config"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Database menampung seluruh koneksi eksternal aplikasi.
// Redis boleh nil (lihat config.Load).
type Database struct {
	Postgres *gorm.DB
	Mongo    *mongo.Database
	Redis    *redis.Client
}

func postgresDSN(cfg config.Config) string {
	if cfg.PostgresDSN != "" {
		return cfg.PostgresDSN
	}
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=Asia/Jakarta",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)
}

func InitDB(cfg config.Config) (*Database, error) {
	// 1. Setup PostgreSQL
	pgDB, err := gorm.Open(postgres.Open(postgresDSN(cfg)), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke postgres: %v", err)
	}

	log.Println("Menjalankan migrasi database PostgreSQL...")
	err = pgDB.AutoMigrate(
		&model.Jurusan{},
		&model.Prodi{},
		&model.User{},
		&model.Skema{},
		&model.Proposal{},
		&model.ProposalMember{},
		&model.Review{},
		&model.Document{},
		&model.Announcement{},
	)
	if err != nil {
		return nil, fmt.Errorf("gagal migrasi database: %v", err)
	}

	// 2. Setup MongoDB (penyimpanan berkas proposal via GridFS)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("gagal koneksi ke mongo: %v", err)
	}
	if err := mongoClient.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("gagal ping mongo: %v", err)
	}
	mongoDatabase := mongoClient.Database(cfg.MongoDBName)

	// 3. Setup Redis (opsional: cache skema aktif + stream notifikasi)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("REDIS_URL tidak valid: %v", err)
		}
		redisClient = redis.NewClient(opt)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("gagal ping redis: %v", err)
		}
	}

	log.Println("Berhasil terhubung ke PostgreSQL dan MongoDB!")

	return &Database{
		Postgres: pgDB,
		Mongo:    mongoDatabase,
		Redis:    redisClient,
	}, nil
}
