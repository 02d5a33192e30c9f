// Where: internal/publish/aws_clients.go
// What: AWS SDK adapters for S3 and DynamoDB.
// Why: Map publication types to SDK types.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/mlstack/internal/synth"
)

type awsS3Client struct {
	client *s3.Client
}

func (c awsS3Client) PutObject(ctx context.Context, object Object) error {
	if c.client == nil {
		return fmt.Errorf("s3 client is nil")
	}
	_, err := c.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(object.Bucket),
		Key:         aws.String(object.Key),
		Body:        bytes.NewReader(object.Body),
		ContentType: aws.String(object.ContentType),
		Metadata: map[string]string{
			"sha256": object.SHA256,
		},
	})
	return err
}

type awsDynamoClient struct {
	client *dynamodb.Client
}

func (c awsDynamoClient) PutRecord(ctx context.Context, table string, record Record) error {
	if c.client == nil {
		return fmt.Errorf("dynamodb client is nil")
	}
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName: aws.String(table),
		Item:      recordItem(record),
	})
	return err
}

// recordItem renders a ledger record. The table is keyed by stack (HASH) and
// published_at (RANGE).
func recordItem(record Record) map[string]types.AttributeValue {
	templates := make([]types.AttributeValue, 0, len(record.Templates))
	for _, tmpl := range record.Templates {
		templates = append(templates, &types.AttributeValueMemberM{Value: map[string]types.AttributeValue{
			"file":   &types.AttributeValueMemberS{Value: tmpl.File},
			"key":    &types.AttributeValueMemberS{Value: tmpl.Key},
			"sha256": &types.AttributeValueMemberS{Value: tmpl.SHA256},
		}})
	}
	item := map[string]types.AttributeValue{
		"stack":            &types.AttributeValueMemberS{Value: record.Stack},
		"published_at":     &types.AttributeValueMemberS{Value: record.PublishedAt.UTC().Format(timeLayout)},
		"bucket":           &types.AttributeValueMemberS{Value: record.Bucket},
		"manifest_version": &types.AttributeValueMemberN{Value: strconv.Itoa(synth.ManifestVersion)},
		"templates":        &types.AttributeValueMemberL{Value: templates},
	}
	if len(record.Images) > 0 {
		item["images"] = &types.AttributeValueMemberSS{Value: append([]string{}, record.Images...)}
	}
	return item
}
