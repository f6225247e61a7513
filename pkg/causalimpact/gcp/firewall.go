package gcp

import (
	"fmt"
	"strings"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/appengine"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// App Engine keeps its own default rule at the lowest priority (2147483647),
// so the fallback deny goes right above it.
const fallbackDenyPriority = 2147483646

// createFirewallRules restricts access to the app to the given client IPs, on top of IAP.
//
// See:
// https://cloud.google.com/appengine/docs/standard/creating-firewalls
func (c *CausalImpact) createFirewallRules(ctx *pulumi.Context, clientIPAllowlist []string) error {
	for _, rule := range newFirewallRules(c.Project, clientIPAllowlist) {
		ruleName := c.NewResourceName("firewall", fmt.Sprintf("rule-%d", rule.priority), 63)
		firewallRule, err := appengine.NewFirewallRule(ctx, ruleName, &appengine.FirewallRuleArgs{
			Project:     pulumi.String(c.Project),
			Action:      pulumi.String(rule.action),
			SourceRange: pulumi.String(rule.sourceRange),
			Priority:    pulumi.Int(rule.priority),
			Description: pulumi.String(rule.description),
		}, pulumi.Parent(c), pulumi.DependsOn([]pulumi.Resource{c.application}))
		if err != nil {
			return fmt.Errorf("failed to create firewall rule for %s: %w", rule.sourceRange, err)
		}

		c.firewallRules = append(c.firewallRules, firewallRule)
	}

	return nil
}

type firewallRule struct {
	action      string
	sourceRange string
	priority    int
	description string
}

// newFirewallRules returns one allow rule per IP range followed by a deny-all rule.
// Ranges are trimmed and blank entries skipped.
func newFirewallRules(project string, clientIPAllowlist []string) []firewallRule {
	rules := make([]firewallRule, 0, len(clientIPAllowlist)+1)
	for _, ipRange := range clientIPAllowlist {
		ipRange = strings.TrimSpace(ipRange)
		if ipRange == "" {
			continue
		}

		rules = append(rules, firewallRule{
			action:      "ALLOW",
			sourceRange: ipRange,
			priority:    len(rules) + 1,
			description: fmt.Sprintf("IPs allowlist rule for %s", project),
		})
	}

	rules = append(rules, firewallRule{
		action:      "DENY",
		sourceRange: "*",
		priority:    fallbackDenyPriority,
		description: "Default IP fallback deny rule",
	})

	return rules
}
