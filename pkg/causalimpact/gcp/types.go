package gcp

import (
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/appengine"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/firestore"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/iap"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/projects"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/secretmanager"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// CausalImpact represents the Google Cloud infrastructure of the Causal Impact web application,
// served by App Engine behind Identity Aware Proxy.
type CausalImpact struct {
	pulumi.ResourceState

	Project           string
	Region            string
	AppEngineLocation string
	FirestoreLocation string
	AppTitle          string
	Labels            map[string]string

	// URL of the deployed application
	URL pulumi.StringOutput

	name            string
	account         string
	projectNumber   string
	deleteOnDestroy bool

	services map[string]*projects.Service

	application    *appengine.Application
	appVersion     *appengine.StandardAppVersion
	firewallRules  []*appengine.FirewallRule
	stagingBucket  *storage.Bucket
	bundleObject   *storage.BucketObject
	imageBucket    *storage.Bucket
	tokenCreator   *projects.IAMMember
	vertexAIUser   *projects.IAMMember
	brand          *iap.Brand
	oauthClient    *iap.Client
	oauthClientID  pulumi.StringOutput
	accessMembers  []*iap.WebTypeAppEngingIamMember
	database       *firestore.Database
	datastoreAdmin *projects.IAMMember

	secrets         map[string]*secretmanager.Secret
	secretVersions  map[string]*secretmanager.SecretVersion
	secretAccessors []*secretmanager.SecretIamMember
}

// GetAccount returns the email of the identity the deployment ran as.
func (c *CausalImpact) GetAccount() string {
	return c.account
}

// GetProjectNumber returns the numeric project identifier.
func (c *CausalImpact) GetProjectNumber() string {
	return c.projectNumber
}

// GetService returns the project service enabled for the given API, e.g.: "iap.googleapis.com".
func (c *CausalImpact) GetService(api string) *projects.Service {
	return c.services[api]
}

// GetApplication returns the App Engine application.
func (c *CausalImpact) GetApplication() *appengine.Application {
	return c.application
}

// GetAppVersion returns the deployed App Engine version.
func (c *CausalImpact) GetAppVersion() *appengine.StandardAppVersion {
	return c.appVersion
}

// GetFirewallRules returns the App Engine firewall rules. Empty when no IP allowlist is set.
func (c *CausalImpact) GetFirewallRules() []*appengine.FirewallRule {
	return c.firewallRules
}

// GetStagingBucket returns the bucket holding the application bundle.
func (c *CausalImpact) GetStagingBucket() *storage.Bucket {
	return c.stagingBucket
}

// GetImageBucket returns the bucket where the application writes chart images.
func (c *CausalImpact) GetImageBucket() *storage.Bucket {
	return c.imageBucket
}

// GetTokenCreatorMember returns the token creator binding of the App Engine service account.
func (c *CausalImpact) GetTokenCreatorMember() *projects.IAMMember {
	return c.tokenCreator
}

// GetVertexAIUserMember returns the Vertex AI user binding of the App Engine service account.
func (c *CausalImpact) GetVertexAIUserMember() *projects.IAMMember {
	return c.vertexAIUser
}

// GetURL returns the https URL of the deployed application.
func (c *CausalImpact) GetURL() pulumi.StringOutput {
	return c.URL
}

// GetBrand returns the OAuth consent brand used by IAP.
func (c *CausalImpact) GetBrand() *iap.Brand {
	return c.brand
}

// GetOAuthClient returns the IAP OAuth client.
func (c *CausalImpact) GetOAuthClient() *iap.Client {
	return c.oauthClient
}

// GetOAuthClientID returns the validated IAP OAuth client ID set on the application.
func (c *CausalImpact) GetOAuthClientID() pulumi.StringOutput {
	return c.oauthClientID
}

// GetAccessMembers returns the IAP access grants.
func (c *CausalImpact) GetAccessMembers() []*iap.WebTypeAppEngingIamMember {
	return c.accessMembers
}

// GetDatabase returns the Firestore database.
func (c *CausalImpact) GetDatabase() *firestore.Database {
	return c.database
}

// GetDatastoreAdminMember returns the datastore owner binding.
func (c *CausalImpact) GetDatastoreAdminMember() *projects.IAMMember {
	return c.datastoreAdmin
}

// GetSecret returns the Secret Manager secret with the given ID, e.g.: "image_bucket".
func (c *CausalImpact) GetSecret(secretID string) *secretmanager.Secret {
	return c.secrets[secretID]
}

// GetSecretVersion returns the version created for a secret, or nil when the operator supplies it.
func (c *CausalImpact) GetSecretVersion(secretID string) *secretmanager.SecretVersion {
	return c.secretVersions[secretID]
}
