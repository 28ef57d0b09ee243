package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/storage"
)

// CreateStorage builds a Cloud Storage client using Application Default
// Credentials.
func CreateStorage(ctx context.Context) (*storage.Client, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return client, nil
}
