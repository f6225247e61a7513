package gcp

import (
	"fmt"
	"strings"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/projects"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// API services enabled for the deployment and for the data pulls of the app
const (
	AppEngineAPI      = "appengine.googleapis.com"
	IAPAPI            = "iap.googleapis.com"
	FirestoreAPI      = "firestore.googleapis.com"
	SecretManagerAPI  = "secretmanager.googleapis.com"
	CloudBuildAPI     = "cloudbuild.googleapis.com"
	StorageAPI        = "storage.googleapis.com"
	IAMCredentialsAPI = "iamcredentials.googleapis.com"
	CloudBillingAPI   = "cloudbilling.googleapis.com"
	VertexAIAPI       = "aiplatform.googleapis.com"
	BigQueryAPI       = "bigquery.googleapis.com"
)

var requiredAPIs = []string{
	AppEngineAPI,
	IAPAPI,
	FirestoreAPI,
	SecretManagerAPI,
	CloudBuildAPI,
	StorageAPI,
	IAMCredentialsAPI,
	CloudBillingAPI,
	VertexAIAPI,
	BigQueryAPI,
	"analyticsdata.googleapis.com",
	"analyticsadmin.googleapis.com",
	"googleads.googleapis.com",
	"sheets.googleapis.com",
	"slides.googleapis.com",
	"drive.googleapis.com",
}

// enableAPIs enables every API service in requiredAPIs
func (c *CausalImpact) enableAPIs(ctx *pulumi.Context) error {
	c.services = make(map[string]*projects.Service, len(requiredAPIs))

	for _, api := range requiredAPIs {
		serviceName := strings.TrimSuffix(api, ".googleapis.com")

		service, err := projects.NewService(ctx, c.NewResourceName(serviceName, "api", 63), &projects.ServiceArgs{
			Project:                  pulumi.String(c.Project),
			Service:                  pulumi.String(api),
			DisableOnDestroy:         pulumi.Bool(false),
			DisableDependentServices: pulumi.Bool(false),
		},
			pulumi.Parent(c),
			pulumi.RetainOnDelete(true),
		)
		if err != nil {
			return fmt.Errorf("failed to enable %s: %w", api, err)
		}

		c.services[api] = service
	}

	return nil
}

// dependsOnAPIs returns an option that waits for the given API services to be enabled
func (c *CausalImpact) dependsOnAPIs(apis ...string) pulumi.ResourceOption {
	resources := make([]pulumi.Resource, 0, len(apis))
	for _, api := range apis {
		if service, ok := c.services[api]; ok {
			resources = append(resources, service)
		}
	}

	return pulumi.DependsOn(resources)
}
