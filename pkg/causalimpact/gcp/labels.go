package gcp

import "github.com/pulumi/pulumi/sdk/v3/go/pulumi"

const appLabel = "causal-impact"

// newLabels returns the component labels plus the given resource labels,
// which win on conflicting keys.
func (c *CausalImpact) newLabels(resourceLabels map[string]string) pulumi.StringMap {
	labels := pulumi.StringMap{
		"app": pulumi.String(appLabel),
	}

	for k, v := range c.Labels {
		labels[k] = pulumi.String(v)
	}
	for k, v := range resourceLabels {
		labels[k] = pulumi.String(v)
	}

	return labels
}
