package gcp

import "github.com/pulumi/pulumi/sdk/v3/go/pulumi"

func toStringArray(values []string) pulumi.StringArray {
	result := make(pulumi.StringArray, 0, len(values))
	for _, v := range values {
		result = append(result, pulumi.String(v))
	}

	return result
}
