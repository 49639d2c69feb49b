package env

import (
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Env struct {
	AddrClient      string
	Addr            string
	AppEnv          string
	StoreDriver     string
	MongoURI        string
	MongoDB         string
	DBHost          string
	DBPort          string
	DBUser          string
	DBPass          string
	DBName          string
	SSLMode         string
	MigrationPath   string
	SessionSecret   string
	SessionLifetime time.Duration
	UploadDir       string
	RootUsername    string
	RootPassword    string
}

var (
	cfg  *Env
	once sync.Once
)

// Start reads .env (if any) and the process environment exactly once.
func Start() *Env {
	once.Do(func() {
		_ = godotenv.Load()
		cfg = &Env{
			AddrClient:      getEnv("ADDR_CLIENT", "http://localhost:5173"),
			Addr:            getEnv("ADDR", ":8060"),
			AppEnv:          getEnv("APP_ENV", "dev"),
			StoreDriver:     getEnv("STORE_DRIVER", "mongo"),
			MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
			MongoDB:         getEnv("MONGO_DB", "backoffice"),
			DBHost:          getEnv("DB_HOST", "localhost"),
			DBPort:          getEnv("DB_PORT", "5432"),
			DBUser:          getEnv("DB_USER", "postgres"),
			DBPass:          getEnv("DB_PASS", "postgres"),
			DBName:          getEnv("DB_NAME", "backoffice"),
			SSLMode:         getEnv("SSL_MODE", "disable"),
			MigrationPath:   getEnv("MIGRATION_PATH", "cmd/internal/db/migration.sql"),
			SessionSecret:   getEnv("SESSION_SECRET", "mysecretkey"),
			SessionLifetime: getDuration("SESSION_LIFETIME", 24*time.Hour),
			UploadDir:       getEnv("UPLOAD_DIR", "public/upload"),
			RootUsername:    getEnv("ROOT_USERNAME", "root"),
			RootPassword:    getEnv("ROOT_PASSWORD", "root"),
		}
	})
	return cfg
}

func getEnv(name string, fallback string) string {
	if env, ok := os.LookupEnv(name); ok {
		return env
	}
	return fallback
}

func getDuration(name string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(getEnv(name, ""))
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
