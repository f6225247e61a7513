package gcp

import (
	"fmt"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/firestore"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// createDatabase creates the Firestore database where the app keeps user sessions
func (c *CausalImpact) createDatabase(ctx *pulumi.Context) error {
	deletionPolicy := "ABANDON"
	deleteProtection := "DELETE_PROTECTION_ENABLED"
	if c.deleteOnDestroy {
		deletionPolicy = "DELETE"
		deleteProtection = "DELETE_PROTECTION_DISABLED"
	}

	database, err := firestore.NewDatabase(ctx, c.NewResourceName("sessions", "database", 63), &firestore.DatabaseArgs{
		Project:               pulumi.String(c.Project),
		Name:                  pulumi.String("(default)"),
		LocationId:            pulumi.String(c.FirestoreLocation),
		Type:                  pulumi.String("FIRESTORE_NATIVE"),
		ConcurrencyMode:       pulumi.String("OPTIMISTIC"),
		DeletionPolicy:        pulumi.String(deletionPolicy),
		DeleteProtectionState: pulumi.String(deleteProtection),
	},
		pulumi.Parent(c),
		pulumi.DependsOn([]pulumi.Resource{c.application}),
		c.dependsOnAPIs(FirestoreAPI),
	)
	if err != nil {
		return fmt.Errorf("failed to create Firestore database: %w", err)
	}

	c.database = database

	return nil
}
