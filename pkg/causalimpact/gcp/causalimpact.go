package gcp

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const componentType = "pulumi-causal-impact:gcp:CausalImpact"

// ErrBillingDisabled is returned before provisioning when the project has no active billing.
var ErrBillingDisabled = errors.New("billing is not enabled")

// NewCausalImpact provisions the Causal Impact web application:
//
// - Enables the APIs used by the app and by the deployment
// - Creates the App Engine application and deploys the app bundle
// - Protects the app with Identity Aware Proxy and grants access to the deployer
// - Creates the Firestore database holding user sessions
// - Creates the Secret Manager secrets read by the app and the chart images bucket
//
// Nothing is registered when billing is disabled for the project.
func NewCausalImpact(ctx *pulumi.Context, name string, args *CausalImpactArgs, opts ...pulumi.ResourceOption) (*CausalImpact, error) {
	if args == nil {
		return nil, errors.New("CausalImpactArgs is required")
	}
	if args.Project == "" {
		return nil, errors.New("project is required")
	}

	if err := checkBilling(ctx.Context(), args); err != nil {
		return nil, err
	}

	causalImpact := &CausalImpact{
		Project:           args.Project,
		Region:            args.Region,
		AppEngineLocation: args.AppEngineLocation,
		FirestoreLocation: args.FirestoreLocation,
		AppTitle:          args.AppTitle,
		Labels:            args.Labels,
		name:              name,
		account:           args.Account,
		deleteOnDestroy:   args.DeleteOnDestroy,
	}
	applyDefaults(causalImpact)

	err := ctx.RegisterComponentResource(componentType, name, causalImpact, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to register component resource: %w", err)
	}

	err = causalImpact.deploy(ctx, args)
	if err != nil {
		return nil, err
	}

	err = ctx.RegisterResourceOutputs(causalImpact, pulumi.Map{
		"url":           causalImpact.URL,
		"projectNumber": pulumi.String(causalImpact.projectNumber),
		"account":       pulumi.String(causalImpact.account),
		"oauthClientId": causalImpact.oauthClientID,
		"imageBucket":   causalImpact.imageBucket.Name,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to register resource outputs: %w", err)
	}

	return causalImpact, nil
}

func checkBilling(ctx context.Context, args *CausalImpactArgs) error {
	if args.SkipBillingCheck {
		return nil
	}
	if args.Billing == nil {
		return errors.New("a billing checker is required unless the billing check is skipped")
	}

	enabled, err := args.Billing.BillingEnabled(ctx, args.Project)
	if err != nil {
		return fmt.Errorf("failed to check billing for project %s: %w", args.Project, err)
	}
	if !enabled {
		return fmt.Errorf("%w for project %s: enable billing and re-run", ErrBillingDisabled, args.Project)
	}

	return nil
}

func applyDefaults(c *CausalImpact) {
	if c.Region == "" {
		c.Region = "europe-west1"
	}
	if c.AppEngineLocation == "" {
		c.AppEngineLocation = "europe-west"
	}
	if c.FirestoreLocation == "" {
		c.FirestoreLocation = "eur3"
	}
	if c.AppTitle == "" {
		c.AppTitle = "Causal Impact"
	}
	if c.Labels == nil {
		c.Labels = map[string]string{}
	}
}

func (c *CausalImpact) deploy(ctx *pulumi.Context, args *CausalImpactArgs) error {
	if err := c.discoverEnvironment(ctx); err != nil {
		return err
	}

	if err := c.enableAPIs(ctx); err != nil {
		return err
	}

	credentials, err := c.setupOAuthClient(ctx)
	if err != nil {
		return err
	}

	if err := c.createApplication(ctx, credentials); err != nil {
		return err
	}

	if len(args.ClientIPAllowlist) > 0 {
		if err := c.createFirewallRules(ctx, args.ClientIPAllowlist); err != nil {
			return err
		}
	}

	if err := c.deployImageBucket(ctx, args.Images); err != nil {
		return err
	}

	if err := c.deploySecrets(ctx, args.Secrets); err != nil {
		return err
	}

	if err := c.deployAppVersion(ctx, args.App, args.Secrets); err != nil {
		return err
	}

	if err := c.grantTokenCreator(ctx); err != nil {
		return err
	}

	if err := c.grantVertexAIUser(ctx); err != nil {
		return err
	}

	if err := c.grantAppAccess(ctx); err != nil {
		return err
	}

	if err := c.createDatabase(ctx); err != nil {
		return err
	}

	if err := c.grantDatastoreAdmin(ctx, args.DatastoreAdminMember); err != nil {
		return err
	}

	c.URL = pulumi.Sprintf("https://%s", c.application.DefaultHostname)

	c.URL.ApplyT(func(url string) string {
		if err := ctx.Log.Info(fmt.Sprintf("Causal Impact deployed at %s", url), &pulumi.LogArgs{
			Resource: c,
		}); err != nil {
			log.Printf("Causal Impact deployed at %s", url)
		}
		return url
	})

	return nil
}

// appEngineServiceAccount is the default identity of App Engine standard apps.
func (c *CausalImpact) appEngineServiceAccount() string {
	return fmt.Sprintf("%s@appspot.gserviceaccount.com", c.Project)
}
