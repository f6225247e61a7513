package gcp

import (
	"errors"
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/iap"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// ErrInvalidOAuthClient is returned when the IAP OAuth client lacks its ID or secret.
var ErrInvalidOAuthClient = errors.New("invalid IAP OAuth client")

// iapAccessorRole lets a member through Identity Aware Proxy
const iapAccessorRole = "roles/iap.httpsResourceAccessor"

// OAuthCredentials holds the client ID and secret IAP authenticates users with.
type OAuthCredentials struct {
	ClientID string
	Secret   string
}

// newOAuthCredentials validates the pair returned for an IAP client.
func newOAuthCredentials(clientID, secret string) (OAuthCredentials, error) {
	if clientID == "" {
		return OAuthCredentials{}, fmt.Errorf("%w: missing client ID", ErrInvalidOAuthClient)
	}
	if secret == "" {
		return OAuthCredentials{}, fmt.Errorf("%w: missing client secret for %s", ErrInvalidOAuthClient, clientID)
	}

	return OAuthCredentials{ClientID: clientID, Secret: secret}, nil
}

// oauthClientOutputs are the validated credentials of the IAP client, resolved at apply time.
type oauthClientOutputs struct {
	ClientID pulumi.StringOutput
	Secret   pulumi.StringOutput
}

// setupOAuthClient creates the OAuth consent brand and the OAuth client used by IAP.
//
// See:
// https://cloud.google.com/iap/docs/programmatic-oauth-clients
func (c *CausalImpact) setupOAuthClient(ctx *pulumi.Context) (*oauthClientOutputs, error) {
	// A project only ever has one brand and it cannot be deleted
	brand, err := iap.NewBrand(ctx, c.NewResourceName("iap", "brand", 63), &iap.BrandArgs{
		Project:          pulumi.String(c.projectNumber),
		SupportEmail:     pulumi.String(c.account),
		ApplicationTitle: pulumi.String(c.AppTitle),
	},
		pulumi.Parent(c),
		pulumi.RetainOnDelete(true),
		c.dependsOnAPIs(IAPAPI),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create IAP brand: %w", err)
	}

	client, err := iap.NewClient(ctx, c.NewResourceName("iap", "client", 63), &iap.ClientArgs{
		DisplayName: pulumi.Sprintf("%s IAP client", c.AppTitle),
		Brand:       brand.Name,
	}, pulumi.Parent(c))
	if err != nil {
		return nil, fmt.Errorf("failed to create IAP OAuth client: %w", err)
	}

	credentials := pulumi.All(client.ClientId, client.Secret).ApplyT(func(args []interface{}) (OAuthCredentials, error) {
		return newOAuthCredentials(args[0].(string), args[1].(string))
	})

	outputs := &oauthClientOutputs{
		ClientID: credentials.ApplyT(func(v interface{}) string {
			return v.(OAuthCredentials).ClientID
		}).(pulumi.StringOutput),
		Secret: pulumi.ToSecret(credentials.ApplyT(func(v interface{}) string {
			return v.(OAuthCredentials).Secret
		})).(pulumi.StringOutput),
	}

	c.brand = brand
	c.oauthClient = client
	c.oauthClientID = outputs.ClientID

	return outputs, nil
}

// grantAppAccess lets the deployer through IAP, along with their whole
// organization unless they use a consumer account.
func (c *CausalImpact) grantAppAccess(ctx *pulumi.Context) error {
	members, err := accessMembers(c.account)
	if err != nil {
		return fmt.Errorf("failed to grant app access to %s: %w", c.account, err)
	}

	for i, member := range members {
		accessMember, err := iap.NewWebTypeAppEngingIamMember(ctx, c.NewResourceName("iap", fmt.Sprintf("accessor-%d", i), 63), &iap.WebTypeAppEngingIamMemberArgs{
			Project: pulumi.String(c.Project),
			AppId:   c.application.AppId,
			Role:    pulumi.String(iapAccessorRole),
			Member:  pulumi.String(member),
		}, pulumi.Parent(c), pulumi.DependsOn([]pulumi.Resource{c.appVersion}))
		if err != nil {
			return fmt.Errorf("failed to grant IAP access to %s: %w", member, err)
		}

		c.accessMembers = append(c.accessMembers, accessMember)
	}

	return nil
}
