package gcp

import (
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/davidmontoyago/pulumi-gcp-causal-impact/pkg/causalimpact/gcp/descriptor"
	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/appengine"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// Env vars set on the app version
//
//nolint:revive // Environment variable names should match their actual env var names
const (
	IMAGE_BUCKET               = "IMAGE_BUCKET"
	GOOGLE_CLOUD_PROJECT       = "GOOGLE_CLOUD_PROJECT"
	FLASK_SECRET_KEY           = "FLASK_SECRET_KEY"
	GOOGLE_ADS_DEVELOPER_TOKEN = "GOOGLE_ADS_DEVELOPER_TOKEN"
)

// createApplication creates the App Engine application with IAP enabled through the given OAuth client.
// An application cannot be deleted once created, so it is retained on destroy.
func (c *CausalImpact) createApplication(ctx *pulumi.Context, credentials *oauthClientOutputs) error {
	application, err := appengine.NewApplication(ctx, c.NewResourceName("app", "", 63), &appengine.ApplicationArgs{
		Project:    pulumi.String(c.Project),
		LocationId: pulumi.String(c.AppEngineLocation),
		Iap: &appengine.ApplicationIapArgs{
			Enabled:            pulumi.Bool(true),
			Oauth2ClientId:     credentials.ClientID,
			Oauth2ClientSecret: credentials.Secret,
		},
	},
		pulumi.Parent(c),
		pulumi.RetainOnDelete(true),
		c.dependsOnAPIs(AppEngineAPI, IAPAPI),
	)
	if err != nil {
		return fmt.Errorf("failed to create App Engine application: %w", err)
	}

	c.application = application

	return nil
}

// deployAppVersion uploads the app bundle and deploys it as a standard environment version
// configured from the bundle's deployment descriptor.
// The app reads its session key and Ads developer token from the environment, not
// from Secret Manager, so given values are also set on the version as secrets.
func (c *CausalImpact) deployAppVersion(ctx *pulumi.Context, args *AppArgs, secrets *SecretsArgs) error {
	if args == nil || args.BundlePath == "" {
		return errors.New("an app bundle path is required")
	}
	applyAppDefaults(args)

	if err := ctx.Log.Debug(fmt.Sprintf("Deploying app bundle %s as version %s", args.BundlePath, args.Version), &pulumi.LogArgs{
		Resource: c,
	}); err != nil {
		log.Printf("failed to log app deployment with pulumi context: %v", err)
	}

	sourceURL, err := c.uploadBundle(ctx, args.BundlePath, args.Version)
	if err != nil {
		return err
	}

	d := args.Descriptor
	envVars := pulumi.StringMap{}
	for name, value := range d.EnvVariables {
		envVars[name] = pulumi.String(value)
	}
	envVars[IMAGE_BUCKET] = c.imageBucket.Name
	envVars[GOOGLE_CLOUD_PROJECT] = pulumi.String(c.Project)
	if secrets != nil {
		for name, value := range map[string]string{
			FLASK_SECRET_KEY:           secrets.SessionSigningKey,
			GOOGLE_ADS_DEVELOPER_TOKEN: secrets.AdsDeveloperToken,
		} {
			if value != "" {
				envVars[name] = pulumi.ToSecret(pulumi.String(value)).(pulumi.StringOutput)
			}
		}
	}

	versionArgs := &appengine.StandardAppVersionArgs{
		Project:         pulumi.String(c.Project),
		Service:         pulumi.String(args.Service),
		VersionId:       pulumi.String(args.Version),
		Runtime:         pulumi.String(d.Runtime),
		InstanceClass:   pulumi.String(d.InstanceClass),
		InboundServices: toStringArray(d.InboundServices),
		EnvVariables:    envVars,
		Handlers:        newHandlers(d.Handlers),
		Deployment: &appengine.StandardAppVersionDeploymentArgs{
			Zip: &appengine.StandardAppVersionDeploymentZipArgs{
				SourceUrl: sourceURL,
			},
		},
		ServiceAccount:         pulumi.String(c.appEngineServiceAccount()),
		DeleteServiceOnDestroy: pulumi.Bool(false),
		NoopOnDestroy:          pulumi.Bool(!c.deleteOnDestroy),
	}
	if d.Entrypoint != "" {
		versionArgs.Entrypoint = &appengine.StandardAppVersionEntrypointArgs{
			Shell: pulumi.String(d.Entrypoint),
		}
	}
	if d.AutomaticScaling != nil {
		versionArgs.AutomaticScaling = newAutomaticScaling(d.AutomaticScaling)
	}

	dependencies := []pulumi.Resource{c.application, c.bundleObject}
	for _, secretID := range sortedKeys(c.secrets) {
		dependencies = append(dependencies, c.secrets[secretID])
	}

	version, err := appengine.NewStandardAppVersion(ctx, c.NewResourceName("app", args.Version, 63), versionArgs,
		pulumi.Parent(c),
		pulumi.DependsOn(dependencies),
		c.dependsOnAPIs(CloudBuildAPI),
	)
	if err != nil {
		return fmt.Errorf("failed to deploy app version %s: %w", args.Version, err)
	}

	c.appVersion = version

	return nil
}

func applyAppDefaults(args *AppArgs) {
	if args.Descriptor == nil {
		args.Descriptor = descriptor.Default()
	}
	if args.Version == "" {
		args.Version = "v1"
	}
	if args.Service == "" {
		args.Service = "default"
	}
}

// newHandlers maps app.yaml handlers to version handlers the way gcloud does
func newHandlers(handlers []descriptor.Handler) appengine.StandardAppVersionHandlerArray {
	result := make(appengine.StandardAppVersionHandlerArray, 0, len(handlers))

	for _, h := range handlers {
		handler := &appengine.StandardAppVersionHandlerArgs{
			SecurityLevel: pulumi.String(securityLevel(h.Secure)),
		}

		switch {
		case h.StaticDir != "":
			// static_dir serves every file under the dir at the URL prefix
			prefix := strings.TrimSuffix(h.URL, "/")
			dir := strings.TrimSuffix(h.StaticDir, "/")
			handler.UrlRegex = pulumi.String(prefix + "/(.*)")
			handler.StaticFiles = &appengine.StandardAppVersionHandlerStaticFilesArgs{
				Path:            pulumi.String(dir + `/\1`),
				UploadPathRegex: pulumi.String(dir + "/.*"),
			}
		case h.StaticFiles != "":
			handler.UrlRegex = pulumi.String(h.URL)
			handler.StaticFiles = &appengine.StandardAppVersionHandlerStaticFilesArgs{
				Path:            pulumi.String(h.StaticFiles),
				UploadPathRegex: pulumi.String(h.Upload),
			}
		default:
			handler.UrlRegex = pulumi.String(h.URL)
			handler.Script = &appengine.StandardAppVersionHandlerScriptArgs{
				ScriptPath: pulumi.String(h.Script),
			}
		}

		result = append(result, handler)
	}

	return result
}

func securityLevel(secure string) string {
	switch secure {
	case "always":
		return "SECURE_ALWAYS"
	case "optional":
		return "SECURE_OPTIONAL"
	case "never":
		return "SECURE_NEVER"
	default:
		return "SECURE_DEFAULT"
	}
}

func newAutomaticScaling(scaling *descriptor.AutomaticScaling) *appengine.StandardAppVersionAutomaticScalingArgs {
	settings := &appengine.StandardAppVersionAutomaticScalingStandardSchedulerSettingsArgs{}
	if scaling.MinInstances > 0 {
		settings.MinInstances = pulumi.Int(scaling.MinInstances)
	}
	if scaling.MaxInstances > 0 {
		settings.MaxInstances = pulumi.Int(scaling.MaxInstances)
	}
	if scaling.TargetCPUUtilization > 0 {
		settings.TargetCpuUtilization = pulumi.Float64(scaling.TargetCPUUtilization)
	}
	if scaling.TargetThroughputUtilization > 0 {
		settings.TargetThroughputUtilization = pulumi.Float64(scaling.TargetThroughputUtilization)
	}

	args := &appengine.StandardAppVersionAutomaticScalingArgs{
		StandardSchedulerSettings: settings,
	}
	if scaling.MaxConcurrentRequests > 0 {
		args.MaxConcurrentRequests = pulumi.Int(scaling.MaxConcurrentRequests)
	}

	return args
}

// sortedKeys is used to register resources in a stable order
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return keys
}
