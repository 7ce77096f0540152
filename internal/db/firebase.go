package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"github.com/shinyyama/cafe-menu/internal/config"
	"google.golang.org/api/option"
)

// Firebase owns the SDK clients built from one service account. It is
// created once in main and closed on shutdown.
type Firebase struct {
	app       *firebase.App
	firestore *firestore.Client
	bucket    *gcs.BucketHandle
	bucketNm  string
	auth      *auth.Client
}

func NewFirebase(ctx context.Context, cfg *config.Config) (*Firebase, error) {
	creds, err := cfg.ServiceAccountJSON()
	if err != nil {
		return nil, err
	}
	var opts []option.ClientOption
	if creds != nil {
		opts = append(opts, option.WithCredentialsJSON(creds))
	}
	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.ProjectID,
		StorageBucket: cfg.StorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}
	return &Firebase{app: app, bucketNm: cfg.StorageBucket}, nil
}

// Firestore returns the Firestore client, creating it on first use.
func (f *Firebase) Firestore(ctx context.Context) (*firestore.Client, error) {
	if f.firestore != nil {
		return f.firestore, nil
	}
	client, err := f.app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firestore: %w", err)
	}
	f.firestore = client
	return client, nil
}

// Bucket returns the default storage bucket configured on the app.
func (f *Firebase) Bucket(ctx context.Context) (*gcs.BucketHandle, string, error) {
	if f.bucket != nil {
		return f.bucket, f.bucketNm, nil
	}
	client, err := f.app.Storage(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("init storage: %w", err)
	}
	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, "", fmt.Errorf("default bucket: %w", err)
	}
	f.bucket = bucket
	return bucket, f.bucketNm, nil
}

func (f *Firebase) Auth(ctx context.Context) (*auth.Client, error) {
	if f.auth != nil {
		return f.auth, nil
	}
	client, err := f.app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("init firebase auth: %w", err)
	}
	f.auth = client
	return client, nil
}

func (f *Firebase) Close() error {
	if f.firestore != nil {
		return f.firestore.Close()
	}
	return nil
}
