package config

import (
	"fmt"
	"os"
)

// Config carries all startup parameters. Everything the services need is
// passed in explicitly at construction; nothing reads the environment after
// Load returns.
type Config struct {
	Port               string
	AWSRegion          string
	SwapsTable         string
	SwapsIndex         string
	AttachmentsBucket  string
	JwksURL            string
	AllowAnonymousFeed bool
}

func Load() (*Config, error) {
	table := os.Getenv("SWAPS_TABLE")
	if table == "" {
		return nil, fmt.Errorf("SWAPS_TABLE environment variable is required")
	}

	index := os.Getenv("SWAPS_INDEX")
	if index == "" {
		return nil, fmt.Errorf("SWAPS_INDEX environment variable is required")
	}

	bucket := os.Getenv("ATTACHMENTS_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("ATTACHMENTS_BUCKET environment variable is required")
	}

	jwksURL := os.Getenv("JWKS_URL")
	if jwksURL == "" {
		return nil, fmt.Errorf("JWKS_URL environment variable is required")
	}

	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "us-east-1"
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:               port,
		AWSRegion:          region,
		SwapsTable:         table,
		SwapsIndex:         index,
		AttachmentsBucket:  bucket,
		JwksURL:            jwksURL,
		AllowAnonymousFeed: os.Getenv("ALLOW_ANONYMOUS_FEED") == "true",
	}, nil
}
