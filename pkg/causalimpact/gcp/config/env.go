// Package config provides an environment config helper
package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config allows setting up the Causal Impact deployment via environment variables
type Config struct {
	GCPProject        string `envconfig:"GCP_PROJECT" required:"true"`
	GCPRegion         string `envconfig:"GCP_REGION" default:"europe-west1"`
	AppEngineLocation string `envconfig:"APPENGINE_LOCATION" default:"europe-west"`
	FirestoreLocation string `envconfig:"FIRESTORE_LOCATION" default:"eur3"`

	// Invoking identity. When empty it is resolved from the active credentials.
	GCPAccount           string   `envconfig:"GCP_ACCOUNT" default:""`
	AppTitle             string   `envconfig:"APP_TITLE" default:"Causal Impact"`
	AppBundlePath        string   `envconfig:"APP_BUNDLE_PATH" default:"."`
	AppDescriptorPath    string   `envconfig:"APP_DESCRIPTOR_PATH" default:""`
	AppVersion           string   `envconfig:"APP_VERSION" default:"v1"`
	DatastoreAdminMember string   `envconfig:"DATASTORE_ADMIN_MEMBER" default:""`
	ClientIPAllowlist    []string `envconfig:"CLIENT_IP_ALLOWLIST" default:""`
	ImageRetentionDays   int      `envconfig:"IMAGE_RETENTION_DAYS" default:"30"`

	// Optional secret values. Left empty, the operator adds the versions later.
	OAuthClientConfig string `envconfig:"OAUTH_CLIENT_CONFIG" default:""`
	SessionSigningKey string `envconfig:"SESSION_SIGNING_KEY" default:""`
	AdsDeveloperToken string `envconfig:"GOOGLE_ADS_DEVELOPER_TOKEN" default:""`

	SkipBillingCheck bool `envconfig:"SKIP_BILLING_CHECK" default:"false"`
	DeleteOnDestroy  bool `envconfig:"DELETE_ON_DESTROY" default:"false"`
	Debug            bool `envconfig:"DEBUG" default:"false"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	var config Config

	err := envconfig.Process("", &config)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from environment variables: %w", err)
	}

	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if config.Debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().
		Str("project", config.GCPProject).
		Str("region", config.GCPRegion).
		Str("appEngineLocation", config.AppEngineLocation).
		Str("firestoreLocation", config.FirestoreLocation).
		Str("account", config.GCPAccount).
		Str("bundlePath", config.AppBundlePath).
		Str("descriptorPath", config.AppDescriptorPath).
		Strs("clientIPAllowlist", config.ClientIPAllowlist).
		Bool("skipBillingCheck", config.SkipBillingCheck).
		Msg("Configuration loaded successfully")

	return &config, nil
}
