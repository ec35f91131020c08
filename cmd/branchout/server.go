package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"branchout/internal/app/admin"
	"branchout/internal/app/content"
	"branchout/internal/app/users"
	"branchout/internal/auth"
	"branchout/internal/geocode"
	"branchout/internal/httpapi"
	"branchout/internal/images"
	"branchout/internal/logging"
	"branchout/internal/store"
)

func newHTTPHandler(cfg Config, dataStore *store.Store, logger zerolog.Logger) http.Handler {
	tokens := auth.NewTokens([]byte(cfg.JWTSecret), cfg.SessionTTL)
	geocoder := geocode.NewClient(cfg.GeocodeBaseURL)

	userSvc := users.New(dataStore, tokens)
	contentSvc := content.New(dataStore, geocoder, logger)
	adminSvc := admin.New(dataStore, logger)

	uploader := newUploader(cfg, logger)

	server := httpapi.New(userSvc, contentSvc, adminSvc, geocoder, uploader)

	handler := server.Routes()
	handler = logging.Recovery(logger)(handler)
	handler = logging.RequestLogging(logger)(handler)
	return withCORS(cfg.AllowedOrigins, handler)
}

// newUploader initializes object storage when credentials are provided.
// Without them image uploads are disabled and the API reports 503 on upload.
func newUploader(cfg Config, logger zerolog.Logger) images.Uploader {
	if cfg.MinioEndpoint == "" || cfg.MinioAccessKey == "" || cfg.MinioSecretKey == "" {
		logger.Info().Msg("object storage not configured, image uploads disabled")
		return nil
	}

	uploader, err := images.NewMinioUploader(context.Background(), images.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		logger.Error().Err(err).Msg("object storage unavailable, image uploads disabled")
		return nil
	}

	logger.Info().Str("endpoint", cfg.MinioEndpoint).Str("bucket", cfg.MinioBucket).Msg("object storage initialized")
	return uploader
}

func withCORS(allowedOrigins []string, next http.Handler) http.Handler {
	originAllowed := func(origin string) bool {
		if len(allowedOrigins) == 0 || origin == "" {
			return false
		}
		for _, o := range allowedOrigins {
			if strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if originAllowed(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
			w.Header().Set("Access-Control-Max-Age", "3600")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
