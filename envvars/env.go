package envvars

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	GCPProjectID   = "GCP_PROJECT_ID"
	StorageBucket  = "STORAGE_BUCKET"
	IdentityAPIKey = "IDENTITY_API_KEY"
	AlgoliaAppID   = "ALGOLIA_APP_ID"
	AlgoliaAPIKey  = "ALGOLIA_API_KEY"
	Environment    = "ENVIRONMENT"
	Port           = "PORT"
)

const (
	ProductionEnv = "production"
	DevEnv        = "dev"

	defaultProjectID = "padec-connect"
	defaultBucket    = "padec-connect-media"
	defaultPort      = "8080"
)

type Env struct {
	ProjectID      string
	Bucket         string
	IdentityAPIKey string
	AlgoliaAppID   string
	AlgoliaAPIKey  string
	Environment    string
	Port           string
}

// GetEvn loads the process environment into an Env. A .env file is read
// first when present so local runs don't need exported variables.
// IDENTITY_API_KEY is the only hard requirement.
func GetEvn() Env {
	_ = godotenv.Load()

	apiKey, ok := os.LookupEnv(IdentityAPIKey)
	if !ok {
		log.Fatalf("%s required", IdentityAPIKey)
	}
	environment, ok := os.LookupEnv(Environment)
	if !ok {
		environment = DevEnv
	}
	return Env{
		ProjectID:      getDefault(GCPProjectID, defaultProjectID),
		Bucket:         getDefault(StorageBucket, defaultBucket),
		IdentityAPIKey: apiKey,
		AlgoliaAppID:   os.Getenv(AlgoliaAppID),
		AlgoliaAPIKey:  os.Getenv(AlgoliaAPIKey),
		Environment:    environment,
		Port:           getDefault(Port, defaultPort),
	}
}

func IsProd(e Env) bool {
	return e.Environment == ProductionEnv
}

func IsDev(e Env) bool {
	return e.Environment == DevEnv
}

func getDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
