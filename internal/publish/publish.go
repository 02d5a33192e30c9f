// Where: internal/publish/publish.go
// What: Upload a synthesized assembly to the asset bucket and record it in the ledger.
// Why: Nested stacks resolve their TemplateURL from the bucket, so templates must land there first.
package publish

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/poruru/mlstack/internal/config"
	"github.com/poruru/mlstack/internal/constants"
	"github.com/poruru/mlstack/internal/descriptor"
	"github.com/poruru/mlstack/internal/envutil"
	"github.com/poruru/mlstack/internal/meta"
	"github.com/poruru/mlstack/internal/synth"
)

const timeLayout = time.RFC3339

// S3API is the object store subset used for uploads.
type S3API interface {
	PutObject(ctx context.Context, object Object) error
}

// DynamoDBAPI is the ledger subset used to record publications.
type DynamoDBAPI interface {
	PutRecord(ctx context.Context, table string, record Record) error
}

// Object is one upload.
type Object struct {
	Bucket      string
	Key         string
	Body        []byte
	ContentType string
	SHA256      string
}

// Record is one ledger entry.
type Record struct {
	Stack       string
	Bucket      string
	PublishedAt time.Time
	Templates   []RecordTemplate
	Images      []string
}

type RecordTemplate struct {
	File   string
	Key    string
	SHA256 string
}

// Options selects the publication target.
type Options struct {
	Bucket     string
	Prefix     string
	Region     string
	Table      string
	S3Endpoint string
	DBEndpoint string
}

// OptionsFromConfig maps stack.yml settings and MLSTACK_* endpoints onto Options.
func OptionsFromConfig(cfg config.Stack) Options {
	opts := Options{
		Bucket: cfg.Assets.Bucket,
		Prefix: cfg.Assets.Prefix,
		Region: cfg.Region,
		Table:  cfg.Ledger.Table,
	}
	if value, ok := envutil.LookupHostEnv(constants.HostSuffixS3Endpoint); ok {
		opts.S3Endpoint = value
	}
	if value, ok := envutil.LookupHostEnv(constants.HostSuffixDBEndpoint); ok {
		opts.DBEndpoint = value
	}
	return opts
}

// Result lists what was published.
type Result struct {
	Objects  []string
	RootURL  string
	Recorded bool
}

// Publisher uploads assemblies.
type Publisher struct {
	Factory ClientFactory
	Out     io.Writer
	Now     func() time.Time
}

// NewPublisher returns a Publisher backed by factory.
func NewPublisher(factory ClientFactory, out io.Writer) *Publisher {
	return &Publisher{Factory: factory, Out: out, Now: time.Now}
}

// Publish uploads every template and the manifest, then writes a ledger record
// when a table is configured. Upload failures stop before the ledger write.
func (p *Publisher) Publish(ctx context.Context, assembly synth.Assembly, opts Options) (Result, error) {
	if p == nil || p.Factory == nil {
		return Result{}, fmt.Errorf("publisher is not configured")
	}
	bucket := strings.TrimSpace(opts.Bucket)
	if bucket == "" {
		return Result{}, descriptor.NewConfigError(descriptor.ErrMissingInput, "publish", "assets.bucket is required")
	}
	if len(assembly.Templates) == 0 {
		return Result{}, descriptor.NewConfigError(descriptor.ErrMissingInput, "publish", "assembly is empty")
	}
	out := p.Out
	if out == nil {
		out = io.Discard
	}

	objects, err := assemblyObjects(assembly, bucket, opts.Prefix)
	if err != nil {
		return Result{}, err
	}
	store, err := p.Factory.S3(ctx, opts.Region, opts.S3Endpoint)
	if err != nil {
		return Result{}, fmt.Errorf("create s3 client: %w", err)
	}

	result := Result{}
	for _, object := range objects {
		if err := store.PutObject(ctx, object); err != nil {
			return result, fmt.Errorf("upload s3://%s/%s: %w", object.Bucket, object.Key, err)
		}
		uri := fmt.Sprintf("s3://%s/%s", object.Bucket, object.Key)
		fmt.Fprintf(out, "Uploaded %s\n", uri)
		result.Objects = append(result.Objects, uri)
	}
	if root, ok := assembly.Root(); ok {
		result.RootURL = synth.ObjectURL(bucket, opts.Region, synth.ObjectKey(opts.Prefix, root.FileName))
	}

	table := strings.TrimSpace(opts.Table)
	if table == "" {
		return result, nil
	}
	ledger, err := p.Factory.DynamoDB(ctx, opts.Region, opts.DBEndpoint)
	if err != nil {
		return result, fmt.Errorf("create dynamodb client: %w", err)
	}
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	record := buildRecord(assembly, bucket, opts.Prefix, now())
	if err := ledger.PutRecord(ctx, table, record); err != nil {
		return result, fmt.Errorf("record publication in %s: %w", table, err)
	}
	fmt.Fprintf(out, "Recorded %s in %s\n", assembly.StackName, table)
	result.Recorded = true
	return result, nil
}

func assemblyObjects(assembly synth.Assembly, bucket, prefix string) ([]Object, error) {
	objects := make([]Object, 0, len(assembly.Templates)+1)
	for _, tf := range assembly.Templates {
		objects = append(objects, Object{
			Bucket:      bucket,
			Key:         synth.ObjectKey(prefix, tf.FileName),
			Body:        tf.Body,
			ContentType: contentType(tf.FileName),
			SHA256:      tf.Digest(),
		})
	}
	manifest, err := assembly.Manifest.JSON()
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	objects = append(objects, Object{
		Bucket:      bucket,
		Key:         synth.ObjectKey(prefix, meta.ManifestFile),
		Body:        manifest,
		ContentType: "application/json",
	})
	return objects, nil
}

func buildRecord(assembly synth.Assembly, bucket, prefix string, now time.Time) Record {
	record := Record{
		Stack:       assembly.StackName,
		Bucket:      bucket,
		PublishedAt: now,
	}
	for _, tf := range assembly.Templates {
		record.Templates = append(record.Templates, RecordTemplate{
			File:   tf.FileName,
			Key:    synth.ObjectKey(prefix, tf.FileName),
			SHA256: tf.Digest(),
		})
	}
	for _, img := range assembly.Manifest.Images {
		record.Images = append(record.Images, img.Image)
	}
	return record
}

func contentType(fileName string) string {
	switch path.Ext(fileName) {
	case ".yaml", ".yml":
		return "application/x-yaml"
	default:
		return "application/json"
	}
}
