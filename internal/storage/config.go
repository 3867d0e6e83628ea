package storage

// MinIOConfig selects the bucket sign videos are uploaded to. An empty
// Endpoint means no object store is configured.
type MinIOConfig struct {
	Endpoint  string `env:"MINIO_ENDPOINT"`
	AccessKey string `env:"MINIO_ACCESS_KEY"`
	SecretKey string `env:"MINIO_SECRET_KEY"`
	UseSSL    bool   `env:"MINIO_USE_SSL"`
	Bucket    string `env:"MINIO_BUCKET" validate:"required_with=Endpoint"`
	// PublicBaseURL, when set, replaces "<scheme>://<endpoint>/<bucket>" as the
	// prefix of public media URLs (CDN or reverse proxy in front of the bucket).
	PublicBaseURL string `env:"MEDIA_PUBLIC_BASE_URL" validate:"omitempty,url"`
}
