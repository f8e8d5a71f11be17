package main

import (
	"context"
	"fmt"
	"net/http"

	"soundshelf/internal/app/catalog"
	"soundshelf/internal/app/likes"
	"soundshelf/internal/app/playlists"
	"soundshelf/internal/app/users"
	"soundshelf/internal/auth"
	"soundshelf/internal/blob"
	"soundshelf/internal/http/middleware"
	"soundshelf/internal/httpapi"
	"soundshelf/internal/search"
	"soundshelf/internal/store"
	"soundshelf/shared/go/config"
	"soundshelf/shared/go/logging"
	sharedmw "soundshelf/shared/go/middleware"
)

// newResolvers returns the image and media link resolvers. Images use public
// URLs; media uses presigned URLs when a bucket is configured.
func newResolvers(ctx context.Context, cfg config.BlobConfig) (images, media blob.Resolver, err error) {
	if cfg.PublicBaseURL != "" {
		images = blob.NewPublicURL(cfg.PublicBaseURL)
		media = images
	}

	if cfg.Enabled() {
		s3Resolver, err := blob.NewS3Resolver(ctx, blob.S3Config{
			Endpoint:        cfg.Endpoint,
			Region:          cfg.Region,
			Bucket:          cfg.Bucket,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			Expiration:      cfg.URLExpiration,
			RateLimit:       cfg.RateLimit,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("configure object storage: %w", err)
		}
		media = s3Resolver
	}

	return images, media, nil
}

func newHTTPHandler(cfg *config.Config, dataStore *store.Store, images, media blob.Resolver, logger *logging.Logger) (http.Handler, error) {
	authenticator, err := auth.New(dataStore, cfg.Security.JWTSecret, auth.WithTTL(cfg.Security.TokenTTL))
	if err != nil {
		return nil, fmt.Errorf("configure authenticator: %w", err)
	}

	// Base services
	userSvc := users.New(authenticator)
	catalogSvc := catalog.New(dataStore, images, media, logger)
	playlistSvc := playlists.New(dataStore)
	likeSvc := likes.New(dataStore)
	searchSvc := search.NewEngine(dataStore)

	routes := httpapi.New(userSvc, authenticator, catalogSvc, playlistSvc, likeSvc, searchSvc).Routes()

	var handler http.Handler = routes
	handler = middleware.CORS(cfg.CORS.AllowedOrigins)(handler)
	handler = sharedmw.Recovery()(handler)
	handler = sharedmw.RequestLogging()(handler)
	return handler, nil
}
