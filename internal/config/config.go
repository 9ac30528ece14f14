package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	App        AppConfig
	Store      StoreConfig
	Drive      DriveConfig
	S3         S3Config
	Classifier ClassifierConfig
	Events     EventsConfig
}

type AppConfig struct {
	Port                string
	BodyLimitMB         int
	Environment         string
	LogFilePath         string
	CorsAllowedOrigins  string
	DebugRoutesEnabled  bool
	JwtSecret           string
	DownloadDir         string
	SampleSensorPath    string
	DefaultServerNumber string
	DefaultClientNumber string
}

type StoreConfig struct {
	Provider string // "gdrive", "s3" or "memory"
}

type DriveConfig struct {
	ClientSecretsJSON string // raw JSON, takes precedence over the file
	ClientSecretsFile string
	TokenFile         string
	RedirectURL       string
}

type S3Config struct {
	Endpoint  string
	Region    string
	Bucket    string
	AccessKey string
	SecretKey string
	PathStyle bool
}

type ClassifierConfig struct {
	Backend             string // "onnx" or "remote"
	ModelPath           string
	LabelsPath          string
	OnnxRuntimeLib      string
	InputName           string
	OutputName          string
	InferenceURL        string
	InferenceModel      string
	ConfidenceThreshold float64
	WarmUp              bool
}

type EventsConfig struct {
	NatsURL string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:                getEnv("PORT", "5000"),
			BodyLimitMB:         getEnvAsInt("BODY_LIMIT_MB", 10),
			Environment:         getEnv("GO_ENV", "development"),
			LogFilePath:         getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins:  getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),
			DebugRoutesEnabled:  getEnvAsBool("DEBUG_ROUTES_ENABLED", false),
			JwtSecret:           getEnv("JWT_SECRET", ""),
			DownloadDir:         getEnv("DOWNLOAD_DIR", "downloads"),
			SampleSensorPath:    getEnv("SAMPLE_SENSOR_PATH", "sample_sensor.txt"),
			DefaultServerNumber: getEnv("DEFAULT_SERVER_NUMBER", "1"),
			DefaultClientNumber: getEnv("DEFAULT_CLIENT_NUMBER", "1"),
		},
		Store: StoreConfig{
			Provider: getEnv("STORE_PROVIDER", "gdrive"),
		},
		Drive: DriveConfig{
			ClientSecretsJSON: getEnv("CLIENT_SECRETS_JSON", ""),
			ClientSecretsFile: getEnv("CLIENT_SECRETS_FILE", "client_secrets.json"),
			TokenFile:         getEnv("DRIVE_TOKEN_FILE", "credentials.json"),
			RedirectURL:       getEnv("DRIVE_REDIRECT_URL", "http://localhost:5000/api/auth/drive/callback"),
		},
		S3: S3Config{
			Endpoint:  getEnv("S3_ENDPOINT", ""),
			Region:    getEnv("S3_REGION", "us-east-1"),
			Bucket:    getEnv("S3_BUCKET", ""),
			AccessKey: getEnv("S3_ACCESS_KEY", ""),
			SecretKey: getEnv("S3_SECRET_KEY", ""),
			PathStyle: getEnvAsBool("S3_PATH_STYLE", true),
		},
		Classifier: ClassifierConfig{
			Backend:             getEnv("MODEL_BACKEND", "onnx"),
			ModelPath:           getEnv("MODEL_PATH", "models/efficientnet_b0_bat.onnx"),
			LabelsPath:          getEnv("LABELS_PATH", "models/classes.json"),
			OnnxRuntimeLib:      getEnv("ONNXRUNTIME_LIB", ""),
			InputName:           getEnv("MODEL_INPUT_NAME", "input"),
			OutputName:          getEnv("MODEL_OUTPUT_NAME", "output"),
			InferenceURL:        getEnv("INFERENCE_URL", "http://localhost:8080"),
			InferenceModel:      getEnv("INFERENCE_MODEL", "efficientnet_b0_bat"),
			ConfidenceThreshold: getEnvAsFloat("CONFIDENCE_THRESHOLD", 75.0),
			WarmUp:              getEnvAsBool("MODEL_WARMUP", true),
		},
		Events: EventsConfig{
			NatsURL: getEnv("NATS_URL", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseFloat(strValue, 64); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}
