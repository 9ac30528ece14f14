package bootstrap

import (
	"context"
	"fmt"

	"bat-monitor-be/internal/config"
	"bat-monitor-be/internal/pkg/logger"
	"bat-monitor-be/pkg/remotestore"
	"bat-monitor-be/pkg/remotestore/gdrive"
	"bat-monitor-be/pkg/remotestore/memstore"
	"bat-monitor-be/pkg/remotestore/s3store"
)

// Drive authorization modes reported by the auth status endpoint.
const (
	ModeOAuth          = "oauth"
	ModeServiceAccount = "service_account"
	ModeNone           = "none"
)

// StoreBundle is the selected remote store plus what the Drive OAuth flow
// needs. Authorizer is nil unless the store runs on a user OAuth token.
type StoreBundle struct {
	Store      remotestore.Store
	Provider   string
	Authorizer *gdrive.Authorizer
	AuthMode   string
}

func NewStore(ctx context.Context, cfg *config.Config, log logger.ILogger) (*StoreBundle, error) {
	switch cfg.Store.Provider {
	case "memory":
		log.Warn("BOOTSTRAP", "Using in-memory store, nothing is persisted", nil)
		return &StoreBundle{Store: memstore.New(), Provider: "memory", AuthMode: ModeNone}, nil

	case "s3":
		store, err := s3store.New(ctx, s3store.Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			Bucket:    cfg.S3.Bucket,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PathStyle: cfg.S3.PathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 store: %w", err)
		}
		log.Info("BOOTSTRAP", "Using S3 store", map[string]interface{}{
			"bucket":   cfg.S3.Bucket,
			"endpoint": cfg.S3.Endpoint,
		})
		return &StoreBundle{Store: store, Provider: "s3", AuthMode: ModeNone}, nil

	case "gdrive", "":
		return newDriveStore(ctx, cfg, log)

	default:
		return nil, fmt.Errorf("unknown STORE_PROVIDER %q", cfg.Store.Provider)
	}
}

func newDriveStore(ctx context.Context, cfg *config.Config, log logger.ILogger) (*StoreBundle, error) {
	secrets, err := gdrive.ReadClientSecrets(cfg.Drive.ClientSecretsJSON, cfg.Drive.ClientSecretsFile)
	if err != nil {
		return nil, err
	}

	if gdrive.IsServiceAccount(secrets) {
		store, err := gdrive.NewWithServiceAccount(ctx, secrets)
		if err != nil {
			return nil, err
		}
		log.Info("BOOTSTRAP", "Google Drive initialized with service account", nil)
		return &StoreBundle{Store: store, Provider: "gdrive", AuthMode: ModeServiceAccount}, nil
	}

	auth, err := NewDriveAuthorizer(cfg)
	if err != nil {
		return nil, err
	}
	store, err := gdrive.New(ctx, auth)
	if err != nil {
		return nil, err
	}

	if auth.Authorized() {
		log.Info("BOOTSTRAP", "Google Drive initialized successfully", map[string]interface{}{
			"token_file": cfg.Drive.TokenFile,
		})
	} else {
		// Requests fail with a logged store error until a token is saved.
		log.Warn("BOOTSTRAP", "Google Drive not authorized yet", map[string]interface{}{
			"token_file": cfg.Drive.TokenFile,
			"hint":       "open /api/auth/drive/login or run `batctl drive-auth`",
		})
	}
	return &StoreBundle{Store: store, Provider: "gdrive", Authorizer: auth, AuthMode: ModeOAuth}, nil
}

// NewDriveAuthorizer builds the OAuth authorizer from the configured client
// secrets and token file. Shared with batctl drive-auth.
func NewDriveAuthorizer(cfg *config.Config) (*gdrive.Authorizer, error) {
	secrets, err := gdrive.ReadClientSecrets(cfg.Drive.ClientSecretsJSON, cfg.Drive.ClientSecretsFile)
	if err != nil {
		return nil, err
	}
	if gdrive.IsServiceAccount(secrets) {
		return nil, fmt.Errorf("client secrets are a service account key, no authorization needed")
	}
	return gdrive.NewAuthorizer(secrets, cfg.Drive.RedirectURL, gdrive.NewTokenStore(cfg.Drive.TokenFile))
}
