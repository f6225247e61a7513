// Package gcp provides Google Cloud Platform infrastructure components for the Causal Impact web application.
package gcp

import (
	"context"

	"github.com/davidmontoyago/pulumi-gcp-causal-impact/pkg/causalimpact/gcp/descriptor"
)

// BillingChecker reports whether a project has billing enabled.
type BillingChecker interface {
	BillingEnabled(ctx context.Context, projectID string) (bool, error)
}

// CausalImpactArgs contains configuration arguments for creating a CausalImpact instance.
type CausalImpactArgs struct {
	Project string
	// Region for regional resources such as buckets. Defaults to "europe-west1".
	Region string
	// App Engine location. Defaults to "europe-west".
	AppEngineLocation string
	// Firestore location. Defaults to "eur3".
	FirestoreLocation string
	// Email of the identity running the deployment. It becomes the IAP support email
	// and gets access to the app. Resolved from the provider credentials when empty.
	Account string
	// Title of the OAuth consent screen. Defaults to "Causal Impact".
	AppTitle string
	// Pre-flight billing check. Required unless SkipBillingCheck=true.
	Billing          BillingChecker
	SkipBillingCheck bool
	// Member granted roles/datastore.owner on the project, e.g.:
	// "serviceAccount:reporting@other-project.iam.gserviceaccount.com".
	// Defaults to the App Engine default service account.
	DatastoreAdminMember string
	// Whether to restrict access to the given list of client IPs with App Engine firewall rules.
	ClientIPAllowlist []string
	// Optional additional config
	App     *AppArgs
	Images  *BucketInstanceArgs
	Secrets *SecretsArgs
	// Whether destroying the stack deletes resources that are retained by default
	// (Firestore database, app version). Defaults to false.
	DeleteOnDestroy bool
	Labels          map[string]string
}

// AppArgs contains configuration for the App Engine application bundle.
type AppArgs struct {
	// Directory with the application source. Required.
	BundlePath string
	// Deployment descriptor of the bundle. Defaults to descriptor.Default().
	Descriptor *descriptor.Descriptor
	// Version ID to deploy. Defaults to "v1".
	Version string
	// App Engine service. Defaults to "default".
	Service string
}

// BucketInstanceArgs contains configuration for the image bucket.
type BucketInstanceArgs struct {
	// Bucket location. Defaults to "EU".
	Location string
	// Defaults to "STANDARD".
	StorageClass string
	// Days after which chart images are deleted. Defaults to 30.
	RetentionDays int
	ForceDestroy  bool
}

// SecretsArgs contains optional values for the secrets read by the application.
// Empty values leave the secret without versions for the operator to add.
type SecretsArgs struct {
	// OAuth client configuration JSON used by the app to call Ads and Analytics.
	OAuthClientConfig string
	// Key used to sign session cookies.
	SessionSigningKey string
	// Google Ads API developer token.
	AdsDeveloperToken string
}
