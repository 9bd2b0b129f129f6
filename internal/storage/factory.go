package storage

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	cldstore "quotereel/internal/adapters/storage/cloudinary"
	"quotereel/internal/adapters/storage/gdrive"
	"quotereel/internal/adapters/storage/localfs"
)

// NewProvider builds the storage provider selected by STORAGE_PROVIDER.
// "none" returns nil: the pipeline then serves outputs from local disk only.
func NewProvider(provider string) (Provider, error) {
	switch provider {
	case "", "none":
		return nil, nil

	case "localfs":
		root := mustEnv("STORAGE_LOCAL_ROOT")
		return localfs.New(root, os.Getenv("STORAGE_LOCAL_BASE_URL")), nil

	case "gdrive":
		return newGDriveProvider()

	case "cloudinary":
		c, err := cldstore.NewClient(
			mustEnv("CLOUDINARY_CLOUD_NAME"),
			mustEnv("CLOUDINARY_API_KEY"),
			mustEnv("CLOUDINARY_API_SECRET"),
			getEnv("CLOUDINARY_FOLDER", "quotereel"),
		)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unknown storage provider: %s", provider)
	}
}

func newGDriveProvider() (Provider, error) {
	ctx := context.Background()

	conf := &oauth2.Config{
		ClientID:     mustEnv("GDRIVE_CLIENT_ID"),
		ClientSecret: mustEnv("GDRIVE_CLIENT_SECRET"),
		Endpoint:     google.Endpoint,
		Scopes:       []string{drive.DriveFileScope},
	}

	tok := &oauth2.Token{RefreshToken: mustEnv("GDRIVE_REFRESH_TOKEN")}
	httpClient := conf.Client(ctx, tok)

	srv, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, err
	}

	return gdrive.NewClient(srv, os.Getenv("GDRIVE_FOLDER_ID")), nil
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustEnv(k string) string {
	v := os.Getenv(k)
	if v == "" {
		panic("missing env: " + k)
	}
	return v
}
