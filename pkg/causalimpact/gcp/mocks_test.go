package gcp

import (
	"context"
	"sync"
	"testing"

	"github.com/pulumi/pulumi/sdk/v3/go/common/resource"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

const (
	testProject       = "causal-impact-test"
	testProjectNumber = "123456789012"
	testClientID      = "123456789012-abcdef.apps.googleusercontent.com"
	testClientSecret  = "GOCSPX-test-secret"
	testAccount       = "analyst@example.com"
)

// Resource type tokens asserted in tests
const (
	serviceType           = "gcp:projects/service:Service"
	projectIAMMemberType  = "gcp:projects/iAMMember:IAMMember"
	applicationType       = "gcp:appengine/application:Application"
	appVersionType        = "gcp:appengine/standardAppVersion:StandardAppVersion"
	firewallRuleType      = "gcp:appengine/firewallRule:FirewallRule"
	brandType             = "gcp:iap/brand:Brand"
	clientType            = "gcp:iap/client:Client"
	iapIAMMemberType      = "gcp:iap/webTypeAppEngingIamMember:WebTypeAppEngingIamMember"
	databaseType          = "gcp:firestore/database:Database"
	secretType            = "gcp:secretmanager/secret:Secret"
	secretVersionType     = "gcp:secretmanager/secretVersion:SecretVersion"
	secretAccessorType    = "gcp:secretmanager/secretIamMember:SecretIamMember"
	bucketType            = "gcp:storage/bucket:Bucket"
	bucketObjectType      = "gcp:storage/bucketObject:BucketObject"
	getProjectToken       = "gcp:organizations/getProject:getProject"
	getOpenIDUserInfoType = "gcp:organizations/getClientOpenIdUserInfo:getClientOpenIdUserInfo"
)

type registeredResource struct {
	TypeToken string
	Name      string
	Inputs    resource.PropertyMap
}

// causalImpactMocks records every registered resource and fakes the outputs computed by GCP
type causalImpactMocks struct {
	mu        sync.Mutex
	resources []registeredResource

	activeAccount string
	clientSecret  string
}

func newCausalImpactMocks() *causalImpactMocks {
	return &causalImpactMocks{
		activeAccount: "deployer@example.org",
		clientSecret:  testClientSecret,
	}
}

func (m *causalImpactMocks) NewResource(args pulumi.MockResourceArgs) (string, resource.PropertyMap, error) {
	outputs := args.Inputs.Copy()

	switch args.TypeToken {
	case brandType:
		outputs["name"] = resource.NewStringProperty("projects/" + testProjectNumber + "/brands/" + testProjectNumber)
	case clientType:
		outputs["clientId"] = resource.NewStringProperty(testClientID)
		outputs["secret"] = resource.NewStringProperty(m.clientSecret)
	case applicationType:
		outputs["appId"] = resource.NewStringProperty(testProject)
		outputs["defaultHostname"] = resource.NewStringProperty(testProject + ".ew.r.appspot.com")
	}

	m.mu.Lock()
	m.resources = append(m.resources, registeredResource{
		TypeToken: args.TypeToken,
		Name:      args.Name,
		Inputs:    args.Inputs,
	})
	m.mu.Unlock()

	return args.Name + "_id", outputs, nil
}

func (m *causalImpactMocks) Call(args pulumi.MockCallArgs) (resource.PropertyMap, error) {
	switch args.Token {
	case getProjectToken:
		return resource.PropertyMap{
			"projectId": resource.NewStringProperty(testProject),
			"number":    resource.NewStringProperty(testProjectNumber),
		}, nil
	case getOpenIDUserInfoType:
		return resource.PropertyMap{
			"email": resource.NewStringProperty(m.activeAccount),
		}, nil
	}

	return args.Args, nil
}

func (m *causalImpactMocks) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.resources)
}

func (m *causalImpactMocks) byType(typeToken string) []registeredResource {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matches []registeredResource
	for _, r := range m.resources {
		if r.TypeToken == typeToken {
			matches = append(matches, r)
		}
	}

	return matches
}

// stringValue unwraps secret and output property values down to their string
func stringValue(v resource.PropertyValue) string {
	if v.IsSecret() {
		v = v.SecretValue().Element
	}
	if v.IsOutput() {
		v = v.OutputValue().Element
	}
	if v.IsString() {
		return v.StringValue()
	}

	return ""
}

func objectValue(v resource.PropertyValue) resource.PropertyMap {
	if v.IsSecret() {
		v = v.SecretValue().Element
	}
	if v.IsOutput() {
		v = v.OutputValue().Element
	}
	if v.IsObject() {
		return v.ObjectValue()
	}

	return resource.PropertyMap{}
}

func arrayValue(v resource.PropertyValue) []resource.PropertyValue {
	if v.IsSecret() {
		v = v.SecretValue().Element
	}
	if v.IsOutput() {
		v = v.OutputValue().Element
	}
	if v.IsArray() {
		return v.ArrayValue()
	}

	return nil
}

type fakeBillingChecker struct {
	enabled bool
	err     error
	calls   []string
}

func (f *fakeBillingChecker) BillingEnabled(_ context.Context, projectID string) (bool, error) {
	f.calls = append(f.calls, projectID)

	return f.enabled, f.err
}

func newTestArgs(t *testing.T) *CausalImpactArgs {
	t.Helper()

	return &CausalImpactArgs{
		Project: testProject,
		Account: testAccount,
		Billing: &fakeBillingChecker{enabled: true},
		App: &AppArgs{
			BundlePath: t.TempDir(),
		},
	}
}

func runCausalImpact(mocks *causalImpactMocks, args *CausalImpactArgs) (*CausalImpact, error) {
	var causalImpact *CausalImpact
	err := pulumi.RunErr(func(ctx *pulumi.Context) error {
		var err error
		causalImpact, err = NewCausalImpact(ctx, "causal-impact", args)

		return err
	}, pulumi.WithMocks("project", "stack", mocks))

	return causalImpact, err
}
