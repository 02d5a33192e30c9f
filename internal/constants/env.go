// Where: internal/constants/env.go
// What: Environment variable naming constants.
// Why: Centralize environment variable names to avoid typos and inconsistencies.
package constants

// Host-level suffixes, combined with the env prefix by envutil.HostEnvKey.
const (
	HostSuffixConfigPath = "CONFIG_PATH"
	HostSuffixConfigHome = "CONFIG_HOME"
	HostSuffixImageTag   = "IMAGE_TAG"
	HostSuffixRegistry   = "REGISTRY"
	HostSuffixAssets     = "ASSETS_BUCKET"
	HostSuffixS3Endpoint = "S3_ENDPOINT"
	HostSuffixDBEndpoint = "DYNAMODB_ENDPOINT"
)

const (
	// Registry credentials used for image pushes.
	EnvRegistryUsername = "REGISTRY_USERNAME"
	EnvRegistryPassword = "REGISTRY_PASSWORD"

	// Standard AWS variables.
	EnvAWSRegion        = "AWS_REGION"
	EnvAWSDefaultRegion = "AWS_DEFAULT_REGION"
)

// Function environment keys read by the packaged model workloads.
const (
	FunctionEnvBucket = "BUCKET"
	FunctionEnvKey    = "KEY"
)
