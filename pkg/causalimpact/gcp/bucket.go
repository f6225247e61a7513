package gcp

import (
	"fmt"
	"log"

	"github.com/pulumi/pulumi-gcp/sdk/v8/go/gcp/storage"
	"github.com/pulumi/pulumi/sdk/v3/go/pulumi"
)

// deployImageBucket creates the bucket where the app stores the charts it renders into Slides
func (c *CausalImpact) deployImageBucket(ctx *pulumi.Context, args *BucketInstanceArgs) error {
	if args == nil {
		args = &BucketInstanceArgs{}
	}
	applyBucketConfigDefaults(args)

	if err := ctx.Log.Debug(fmt.Sprintf("Deploying image bucket with config: %+v", *args), &pulumi.LogArgs{
		Resource: c,
	}); err != nil {
		log.Printf("failed to log bucket deployment with pulumi context: %v", err)
	}

	bucketName := c.NewResourceName("images", "bucket", 63)
	bucket, err := storage.NewBucket(ctx, bucketName, &storage.BucketArgs{
		Name:         pulumi.String(bucketName),
		Project:      pulumi.String(c.Project),
		Location:     pulumi.String(args.Location),
		StorageClass: pulumi.String(args.StorageClass),
		Labels:       c.newLabels(map[string]string{"images": "true"}),
		ForceDestroy: pulumi.Bool(args.ForceDestroy),

		UniformBucketLevelAccess: pulumi.Bool(true),
		PublicAccessPrevention:   pulumi.String("enforced"),

		// Charts are only needed until the report is exported
		LifecycleRules: storage.BucketLifecycleRuleArray{
			&storage.BucketLifecycleRuleArgs{
				Action: &storage.BucketLifecycleRuleActionArgs{
					Type: pulumi.String("Delete"),
				},
				Condition: &storage.BucketLifecycleRuleConditionArgs{
					Age: pulumi.Int(args.RetentionDays),
				},
			},
		},
	}, pulumi.Parent(c), c.dependsOnAPIs(StorageAPI))
	if err != nil {
		return fmt.Errorf("failed to create image bucket: %w", err)
	}

	// the app writes chart images to the bucket with its default identity
	_, err = storage.NewBucketIAMMember(ctx, c.NewResourceName("images", "object-admin", 63), &storage.BucketIAMMemberArgs{
		Bucket: bucket.Name,
		Role:   pulumi.String("roles/storage.objectAdmin"),
		Member: pulumi.Sprintf("serviceAccount:%s", c.appEngineServiceAccount()),
	}, pulumi.Parent(c), pulumi.DependsOn([]pulumi.Resource{c.application}))
	if err != nil {
		return fmt.Errorf("failed to grant image bucket access: %w", err)
	}

	c.imageBucket = bucket

	return nil
}

// uploadBundle zips the application source into a dedicated staging bucket
func (c *CausalImpact) uploadBundle(ctx *pulumi.Context, bundlePath, version string) (pulumi.StringOutput, error) {
	bucketName := c.NewResourceName("staging", "bucket", 63)
	bucket, err := storage.NewBucket(ctx, bucketName, &storage.BucketArgs{
		Name:                     pulumi.String(bucketName),
		Project:                  pulumi.String(c.Project),
		Location:                 pulumi.String(c.Region),
		Labels:                   c.newLabels(map[string]string{"staging": "true"}),
		ForceDestroy:             pulumi.Bool(true),
		UniformBucketLevelAccess: pulumi.Bool(true),
		PublicAccessPrevention:   pulumi.String("enforced"),
	}, pulumi.Parent(c), c.dependsOnAPIs(StorageAPI))
	if err != nil {
		return pulumi.StringOutput{}, fmt.Errorf("failed to create staging bucket: %w", err)
	}

	objectName := fmt.Sprintf("bundles/%s.zip", version)
	object, err := storage.NewBucketObject(ctx, c.NewResourceName("bundle", version, 63), &storage.BucketObjectArgs{
		Bucket: bucket.Name,
		Name:   pulumi.String(objectName),
		Source: pulumi.NewFileArchive(bundlePath),
	}, pulumi.Parent(c))
	if err != nil {
		return pulumi.StringOutput{}, fmt.Errorf("failed to upload app bundle %s: %w", bundlePath, err)
	}

	c.stagingBucket = bucket
	c.bundleObject = object

	return pulumi.Sprintf("https://storage.googleapis.com/%s/%s", bucket.Name, object.Name), nil
}

func applyBucketConfigDefaults(config *BucketInstanceArgs) {
	if config.StorageClass == "" {
		config.StorageClass = "STANDARD"
	}

	if config.Location == "" {
		config.Location = "EU"
	}

	if config.RetentionDays == 0 {
		config.RetentionDays = 30
	}
}
