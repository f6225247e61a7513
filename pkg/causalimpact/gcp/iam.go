package gcp

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	tokenCreatorRole   = "roles/iam.serviceAccountTokenCreator"
	datastoreOwnerRole = "roles/datastore.owner"
	vertexAIUserRole   = "roles/aiplatform.user"
)

// grantTokenCreator lets the app identity sign tokens, which the app needs to
// call Google APIs on behalf of its own service account.
func (c *CausalImpact) grantTokenCreator(ctx *pulumi.Context) error {
	member, err := projects.NewIAMMember(ctx, c.NewResourceName("app", "token-creator", 63), &projects.IAMMemberArgs{
		Project: pulumi.String(c.Project),
		Role:    pulumi.String(tokenCreatorRole),
		Member:  pulumi.Sprintf("serviceAccount:%s", c.appEngineServiceAccount()),
	},
		pulumi.Parent(c),
		pulumi.DependsOn([]pulumi.Resource{c.appVersion}),
		c.dependsOnAPIs(IAMCredentialsAPI),
	)
	if err != nil {
		return fmt.Errorf("failed to grant %s to the App Engine service account: %w", tokenCreatorRole, err)
	}

	c.tokenCreator = member

	return nil
}

// grantVertexAIUser lets the app identity call Gemini models for the analysis conclusions.
func (c *CausalImpact) grantVertexAIUser(ctx *pulumi.Context) error {
	member, err := projects.NewIAMMember(ctx, c.NewResourceName("app", "vertex-ai-user", 63), &projects.IAMMemberArgs{
		Project: pulumi.String(c.Project),
		Role:    pulumi.String(vertexAIUserRole),
		Member:  pulumi.Sprintf("serviceAccount:%s", c.appEngineServiceAccount()),
	},
		pulumi.Parent(c),
		pulumi.DependsOn([]pulumi.Resource{c.appVersion}),
		c.dependsOnAPIs(VertexAIAPI),
	)
	if err != nil {
		return fmt.Errorf("failed to grant %s to the App Engine service account: %w", vertexAIUserRole, err)
	}

	c.vertexAIUser = member

	return nil
}

// grantDatastoreAdmin grants the datastore owner role to the given member,
// defaulting to the App Engine service account.
func (c *CausalImpact) grantDatastoreAdmin(ctx *pulumi.Context, member string) error {
	if member == "" {
		member = fmt.Sprintf("serviceAccount:%s", c.appEngineServiceAccount())
	}

	datastoreAdmin, err := projects.NewIAMMember(ctx, c.NewResourceName("sessions", "datastore-owner", 63), &projects.IAMMemberArgs{
		Project: pulumi.String(c.Project),
		Role:    pulumi.String(datastoreOwnerRole),
		Member:  pulumi.String(member),
	}, pulumi.Parent(c), pulumi.DependsOn([]pulumi.Resource{c.database}))
	if err != nil {
		return fmt.Errorf("failed to grant %s to %s: %w", datastoreOwnerRole, member, err)
	}

	c.datastoreAdmin = datastoreAdmin

	return nil
}
