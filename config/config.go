package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Config menampung seluruh konfigurasi yang dibaca dari environment.
type Config struct {
	AppPort     string
	PostgresDSN string
	MongoURI    string
	MongoDBName string
	RedisURL    string
}

func getenv(key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v
}

// Load membaca .env (jika ada) lalu membangun Config dari environment.
// RedisURL boleh kosong: aplikasi jatuh ke cache in-memory + notifier log.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env tidak ditemukan, menggunakan environment default")
	}

	return Config{
		AppPort:     getenv("APP_PORT", "8080"),
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		MongoURI:    getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getenv("MONGO_DB_NAME", "simppm"),
		RedisURL:    os.Getenv("REDIS_URL"),
	}
}
