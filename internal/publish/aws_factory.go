// Where: internal/publish/aws_factory.go
// What: AWS client factory for S3 template uploads and the DynamoDB ledger.
// Why: Encapsulate SDK configuration, including S3-compatible local endpoints.
package publish

import (
	"context"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/poruru/mlstack/internal/constants"
)

const defaultAWSRegion = "us-east-1"

// ClientFactory builds the AWS clients used by Publisher. An empty endpoint
// selects the regional AWS endpoint.
type ClientFactory interface {
	S3(ctx context.Context, region, endpoint string) (S3API, error)
	DynamoDB(ctx context.Context, region, endpoint string) (DynamoDBAPI, error)
}

// NewClientFactory returns the SDK-backed factory.
func NewClientFactory() ClientFactory {
	return awsClientFactory{}
}

type awsClientFactory struct{}

func (awsClientFactory) S3(ctx context.Context, region, endpoint string) (S3API, error) {
	cfg, err := loadAWSConfig(ctx, region, endpoint)
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(cfg, func(options *s3.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
			options.UsePathStyle = true
		}
	})
	return awsS3Client{client: client}, nil
}

func (awsClientFactory) DynamoDB(ctx context.Context, region, endpoint string) (DynamoDBAPI, error) {
	cfg, err := loadAWSConfig(ctx, region, endpoint)
	if err != nil {
		return nil, err
	}
	client := dynamodb.NewFromConfig(cfg, func(options *dynamodb.Options) {
		if endpoint != "" {
			options.BaseEndpoint = aws.String(endpoint)
		}
	})
	return awsDynamoClient{client: client}, nil
}

// loadAWSConfig resolves region and credentials. Local endpoints without
// explicit credentials get static placeholders so emulators accept the request.
func loadAWSConfig(ctx context.Context, region, endpoint string) (aws.Config, error) {
	options := []func(*config.LoadOptions) error{
		config.WithRegion(resolveRegion(region)),
	}
	if endpoint != "" && strings.TrimSpace(os.Getenv("AWS_ACCESS_KEY_ID")) == "" {
		options = append(options, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider("dummy", "dummy", ""),
		))
	}
	return config.LoadDefaultConfig(ctx, options...)
}

func resolveRegion(region string) string {
	if value := strings.TrimSpace(region); value != "" {
		return value
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvAWSRegion)); value != "" {
		return value
	}
	if value := strings.TrimSpace(os.Getenv(constants.EnvAWSDefaultRegion)); value != "" {
		return value
	}
	return defaultAWSRegion
}
