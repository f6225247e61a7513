package gcp

import (
	"fmt"
	"log"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/secretmanager"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// IDs of the secrets the app reads at runtime
const (
	OAuthClientConfigSecret = "client_secret"
	SessionSigningKeySecret = "flask_secret_key"
	AdsDeveloperTokenSecret = "gads_developer_token"
	ImageBucketSecret       = "image_bucket"
)

var appSecrets = []string{
	OAuthClientConfigSecret,
	SessionSigningKeySecret,
	AdsDeveloperTokenSecret,
	ImageBucketSecret,
}

// deploySecrets creates the secrets read by the app and lets the app identity access them.
// The image bucket secret gets the provisioned bucket name. The rest only get a version
// when a value is given; otherwise the operator adds it.
func (c *CausalImpact) deploySecrets(ctx *pulumi.Context, args *SecretsArgs) error {
	if args == nil {
		args = &SecretsArgs{}
	}

	values := map[string]pulumi.StringInput{
		ImageBucketSecret: c.imageBucket.Name,
	}
	for secretID, value := range map[string]string{
		OAuthClientConfigSecret: args.OAuthClientConfig,
		SessionSigningKeySecret: args.SessionSigningKey,
		AdsDeveloperTokenSecret: args.AdsDeveloperToken,
	} {
		if value != "" {
			values[secretID] = pulumi.String(value)
		}
	}

	c.secrets = make(map[string]*secretmanager.Secret, len(appSecrets))
	c.secretVersions = make(map[string]*secretmanager.SecretVersion, len(values))

	for _, secretID := range appSecrets {
		secret, err := c.newAppSecret(ctx, secretID)
		if err != nil {
			return err
		}
		c.secrets[secretID] = secret

		value, ok := values[secretID]
		if !ok {
			if err := ctx.Log.Warn(fmt.Sprintf("no value for secret %s: add a version before using the app", secretID), &pulumi.LogArgs{
				Resource: c,
			}); err != nil {
				log.Printf("no value for secret %s: add a version before using the app", secretID)
			}
			continue
		}

		version, err := secretmanager.NewSecretVersion(ctx, c.NewResourceName(secretID, "version", 63), &secretmanager.SecretVersionArgs{
			Secret: secret.ID(),
			SecretData: pulumi.ToSecret(value.ToStringOutput()).(pulumi.StringOutput).ApplyT(func(s string) *string {
				return &s
			}).(pulumi.StringPtrOutput),
		}, pulumi.Parent(c), pulumi.DependsOn([]pulumi.Resource{secret}))
		if err != nil {
			return fmt.Errorf("failed to create version of secret %s: %w", secretID, err)
		}
		c.secretVersions[secretID] = version
	}

	return nil
}

func (c *CausalImpact) newAppSecret(ctx *pulumi.Context, secretID string) (*secretmanager.Secret, error) {
	secret, err := secretmanager.NewSecret(ctx, c.NewResourceName(secretID, "secret", 63), &secretmanager.SecretArgs{
		Project: pulumi.String(c.Project),
		Replication: &secretmanager.SecretReplicationArgs{
			// With google-managed default encryption
			Auto: &secretmanager.SecretReplicationAutoArgs{},
		},
		SecretId:           pulumi.String(secretID),
		DeletionProtection: pulumi.Bool(!c.deleteOnDestroy),
		Labels:             c.newLabels(nil),
	}, pulumi.Parent(c), c.dependsOnAPIs(SecretManagerAPI))
	if err != nil {
		return nil, fmt.Errorf("failed to create secret %s: %w", secretID, err)
	}

	// allow the app identity to read the secret
	accessor, err := secretmanager.NewSecretIamMember(ctx, c.NewResourceName(secretID, "accessor", 63), &secretmanager.SecretIamMemberArgs{
		Project:  pulumi.String(c.Project),
		SecretId: secret.SecretId,
		Role:     pulumi.String("roles/secretmanager.secretAccessor"),
		Member:   pulumi.Sprintf("serviceAccount:%s", c.appEngineServiceAccount()),
	}, pulumi.Parent(c), pulumi.DependsOn([]pulumi.Resource{c.application}))
	if err != nil {
		return nil, fmt.Errorf("failed to grant access to secret %s: %w", secretID, err)
	}
	c.secretAccessors = append(c.secretAccessors, accessor)

	return secret, nil
}
