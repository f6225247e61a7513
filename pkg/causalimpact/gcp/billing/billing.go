// Package billing checks whether a project can be provisioned before any resource is created.
package billing

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/cloudbilling/v1"
	"google.golang.org/api/option"
)

// Checker reports a project's billing status against the Cloud Billing API.
type Checker struct {
	service *cloudbilling.APIService
}

// NewChecker creates a Checker using Application Default Credentials unless opts say otherwise.
func NewChecker(ctx context.Context, opts ...option.ClientOption) (*Checker, error) {
	service, err := cloudbilling.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create cloud billing client: %w", err)
	}

	return &Checker{service: service}, nil
}

// BillingEnabled returns true when the project has an active billing account.
func (c *Checker) BillingEnabled(ctx context.Context, projectID string) (bool, error) {
	info, err := c.service.Projects.GetBillingInfo(fmt.Sprintf("projects/%s", projectID)).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("failed to get billing info for project %s: %w", projectID, err)
	}

	log.Debug().
		Str("project", projectID).
		Str("billingAccount", info.BillingAccountName).
		Bool("billingEnabled", info.BillingEnabled).
		Msg("billing info")

	return info.BillingEnabled, nil
}
