package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppPort         string
	DBDSN           string
	JWTSecret       string
	AccessTokenMin  int
	RefreshTokenDay int
	GoogleClientID  string
	GoogleSecret    string
	GoogleRedirect  string
	FrontendBaseURL string
	CORSOrigins     string

	// blob storage: "local" or "s3"
	StorageBackend string
	UploadDir      string
	PublicBaseURL  string
	S3Bucket       string
	S3Region       string
	S3Endpoint     string
	S3AccessKey    string
	S3SecretKey    string

	RedisAddr     string
	RedisPassword string
}

func Load() Config {
	accessMin, _ := strconv.Atoi(get("ACCESS_TOKEN_MIN", "60"))
	refreshDay, _ := strconv.Atoi(get("REFRESH_TOKEN_DAYS", "30"))
	return Config{
		AppPort:         get("APP_PORT", "8080"),
		DBDSN:           must("DB_DSN"),
		JWTSecret:       must("JWT_SECRET"),
		AccessTokenMin:  accessMin,
		RefreshTokenDay: refreshDay,
		GoogleClientID:  get("GOOGLE_CLIENT_ID", ""),
		GoogleSecret:    get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirect:  get("GOOGLE_REDIRECT_URL", ""),
		FrontendBaseURL: get("FRONTEND_BASE_URL", "http://localhost:3000"),
		CORSOrigins:     get("CORS_ORIGINS", "http://127.0.0.1:3000, http://localhost:3000"),
		StorageBackend:  get("STORAGE_BACKEND", "local"),
		UploadDir:       get("UPLOAD_DIR", "./uploads"),
		PublicBaseURL:   get("APP_BASE_URL", ""),
		S3Bucket:        get("S3_BUCKET", ""),
		S3Region:        get("S3_REGION", "us-east-1"),
		S3Endpoint:      get("S3_ENDPOINT", ""),
		S3AccessKey:     get("S3_ACCESS_KEY_ID", ""),
		S3SecretKey:     get("S3_SECRET_ACCESS_KEY", ""),
		RedisAddr:       get("REDIS_ADDR", ""),
		RedisPassword:   get("REDIS_PASSWORD", ""),
	}
}

func get(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func must(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
