// Package main provides the entry point for the Causal Impact deployment on Google Cloud.
package main

import (
	"github.com/davidmontoyago/pulumi-gcp-causal-impact/pkg/causalimpact/gcp"
	"github.com/davidmontoyago/pulumi-gcp-causal-impact/pkg/causalimpact/gcp/billing"
	"github.com/davidmontoyago/pulumi-gcp-causal-impact/pkg/causalimpact/gcp/config"
	"github.com/davidmontoyago/pulumi-gcp-causal-impact/pkg/causalimpact/gcp/descriptor"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
	"github.com/rs/zerolog/log"
)

func main() {
	pulumi.Run(func(ctx *pulumi.Context) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}

		appDescriptor := descriptor.Default()
		if cfg.AppDescriptorPath != "" {
			appDescriptor, err = descriptor.Load(cfg.AppDescriptorPath)
			if err != nil {
				return err
			}
		}

		var billingChecker gcp.BillingChecker
		if !cfg.SkipBillingCheck {
			billingChecker, err = billing.NewChecker(ctx.Context())
			if err != nil {
				return err
			}
		}

		causalImpact, err := gcp.NewCausalImpact(ctx, "causal-impact", &gcp.CausalImpactArgs{
			Project:              cfg.GCPProject,
			Region:               cfg.GCPRegion,
			AppEngineLocation:    cfg.AppEngineLocation,
			FirestoreLocation:    cfg.FirestoreLocation,
			Account:              cfg.GCPAccount,
			AppTitle:             cfg.AppTitle,
			Billing:              billingChecker,
			SkipBillingCheck:     cfg.SkipBillingCheck,
			DatastoreAdminMember: cfg.DatastoreAdminMember,
			ClientIPAllowlist:    cfg.ClientIPAllowlist,
			DeleteOnDestroy:      cfg.DeleteOnDestroy,
			App: &gcp.AppArgs{
				BundlePath: cfg.AppBundlePath,
				Descriptor: appDescriptor,
				Version:    cfg.AppVersion,
			},
			Images: &gcp.BucketInstanceArgs{
				RetentionDays: cfg.ImageRetentionDays,
			},
			Secrets: &gcp.SecretsArgs{
				OAuthClientConfig: cfg.OAuthClientConfig,
				SessionSigningKey: cfg.SessionSigningKey,
				AdsDeveloperToken: cfg.AdsDeveloperToken,
			},
			Labels: map[string]string{
				"managed-by": "pulumi",
			},
		})
		if err != nil {
			log.Error().Err(err).Str("project", cfg.GCPProject).Msg("Causal Impact deployment failed")
			return err
		}

		ctx.Export("url", causalImpact.GetURL())
		ctx.Export("projectNumber", pulumi.String(causalImpact.GetProjectNumber()))
		ctx.Export("imageBucket", causalImpact.GetImageBucket().Name)
		ctx.Export("oauthClientId", causalImpact.GetOAuthClientID())

		log.Info().Msg("Causal Impact deployment loaded and ready!")

		return nil
	})
}
