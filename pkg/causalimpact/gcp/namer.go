package gcp

import (
	"fmt"
	"math"
	"strings"
)

// NewResourceName returns "<component name>-<service name>-<resource type>" truncated to maxLength.
// Each part is shortened proportionally and keeps at least one character.
func (c *CausalImpact) NewResourceName(serviceName, resourceType string, maxLength int) string {
	var resourceName string
	if resourceType == "" {
		resourceName = fmt.Sprintf("%s-%s", c.name, serviceName)
	} else {
		resourceName = fmt.Sprintf("%s-%s-%s", c.name, serviceName, resourceType)
	}

	if len(resourceName) <= maxLength {
		return resourceName
	}

	surplus := len(resourceName) - maxLength

	var prefixSurplus, serviceSurplus, typeSurplus int
	if resourceType == "" {
		prefixSurplus = int(math.Ceil(float64(surplus) / 2))
		serviceSurplus = surplus - prefixSurplus
	} else {
		prefixSurplus = int(math.Ceil(float64(surplus) / 3))
		serviceSurplus = int(math.Ceil(float64(surplus-prefixSurplus) / 2))
		typeSurplus = surplus - prefixSurplus - serviceSurplus
	}

	parts := []string{
		truncate(c.name, prefixSurplus),
		truncate(serviceName, serviceSurplus),
	}
	if resourceType != "" {
		parts = append(parts, truncate(resourceType, typeSurplus))
	}

	return strings.Join(parts, "-")
}

func truncate(part string, surplus int) string {
	if part == "" {
		return part
	}

	short := part[:1]
	if surplus < len(part) {
		short = part[:len(part)-surplus]
	}

	return strings.TrimSuffix(short, "-")
}
