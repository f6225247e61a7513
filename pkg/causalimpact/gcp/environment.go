package gcp

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/organizations"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// consumerDomain is the public email domain whose users never get domain-wide access.
const consumerDomain = "gmail.com"

// discoverEnvironment resolves the numeric project ID and, when not configured,
// the email of the identity running the deployment.
func (c *CausalImpact) discoverEnvironment(ctx *pulumi.Context) error {
	project, err := organizations.LookupProject(ctx, &organizations.LookupProjectArgs{
		ProjectId: pulumi.StringRef(c.Project),
	})
	if err != nil {
		return fmt.Errorf("failed to look up project %s: %w", c.Project, err)
	}
	if project.Number == "" {
		return fmt.Errorf("project %s has no project number", c.Project)
	}
	c.projectNumber = project.Number

	if c.account == "" {
		userInfo, err := organizations.GetClientOpenIdUserInfo(ctx)
		if err != nil {
			return fmt.Errorf("failed to resolve the active account: %w", err)
		}
		c.account = userInfo.Email
	}
	if !strings.Contains(c.account, "@") {
		return fmt.Errorf("invalid account %q: an email is required", c.account)
	}

	if err := ctx.Log.Debug(fmt.Sprintf("Provisioning project %s (%s) as %s", c.Project, c.projectNumber, c.account), &pulumi.LogArgs{
		Resource: c,
	}); err != nil {
		log.Printf("failed to log environment with pulumi context: %v", err)
	}

	return nil
}

// accessMembers returns the IAM members allowed through IAP for the given account.
// Organizational accounts also grant access to their whole domain.
func accessMembers(account string) ([]string, error) {
	at := strings.LastIndex(account, "@")
	if at <= 0 || at == len(account)-1 {
		return nil, errors.New("account must be an email address")
	}

	members := []string{fmt.Sprintf("user:%s", account)}

	domain := account[at+1:]
	if domain != consumerDomain {
		members = append(members, fmt.Sprintf("domain:%s", domain))
	}

	return members, nil
}
