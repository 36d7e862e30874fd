// Package s3 provides an S3/MinIO-compatible backend over object
// storage, where directories are virtual: a directory exists exactly
// while some object lives beneath its key prefix.
package s3

import (
	"fmt"

	"github.com/minio/minio-go/v7"
)

// Config holds the backend's connection settings.
type Config struct {
	// Endpoint is the server URL (e.g. "localhost:9000").
	Endpoint string

	// Bucket is the bucket name. Required.
	Bucket string

	// AccessKey is the access key ID for authentication.
	AccessKey string

	// SecretKey is the secret access key for authentication.
	SecretKey string

	// UseSSL enables HTTPS connections.
	UseSSL bool

	// Prefix is an optional key prefix all virtual paths resolve
	// beneath, for namespacing several backends in one bucket.
	Prefix string

	// Client is an optional pre-configured client. If provided,
	// Endpoint/AccessKey/SecretKey are ignored.
	Client *minio.Client
}

// validate checks the configuration. Either Client or the full
// Endpoint/AccessKey/SecretKey triple must be provided, plus Bucket.
func (c *Config) validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if c.Client != nil {
		return nil
	}
	if c.Endpoint == "" {
		return fmt.Errorf("endpoint is required when client is not provided")
	}
	if c.AccessKey == "" {
		return fmt.Errorf("access key is required when client is not provided")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("secret key is required when client is not provided")
	}
	return nil
}
