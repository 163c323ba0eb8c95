package datapipeline

import (
	"time"

	"pipestat/pkg/util/config"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

const (
	// SphereAttempt is the sphere of the task attempt objects
	SphereAttempt = "ATTEMPT"

	// MaxDescribeIDs is the maximum number of identifiers accepted by a describe call
	MaxDescribeIDs = 25

	configKey = "datapipeline"
)

// Client is the subset of the Data Pipeline API used to aggregate pipeline statuses.
type Client interface {
	// ListPipelines returns a page of pipeline identifiers.
	// An empty marker asks for the first page. Marker of the returned page is nil on the last page.
	ListPipelines(ctx context.Context, marker string) (PipelinePage, error)

	// DescribePipelines returns the metadata of at most MaxDescribeIDs pipelines.
	DescribePipelines(ctx context.Context, pipelineIDs []string) ([]PipelineDescription, error)

	// QueryObjects returns the identifiers of the pipeline objects of the given sphere.
	QueryObjects(ctx context.Context, pipelineID, sphere string) ([]string, error)

	// DescribeObjects returns the given objects of a pipeline with their fields.
	DescribeObjects(ctx context.Context, pipelineID string, objectIDs []string) ([]PipelineObject, error)
}

// PipelinePage is a page of pipeline identifiers
type PipelinePage struct {
	IDs    []string
	Marker *string
}

// Field is a key/value pair of pipeline or object metadata.
// StringValue is nil for fields holding a reference or no value.
type Field struct {
	Key         string
	StringValue *string
}

// PipelineDescription is the metadata of a pipeline
type PipelineDescription struct {
	PipelineID string
	Name       string
	Fields     []Field
}

// PipelineObject is an object of a pipeline, such as a task attempt
type PipelineObject struct {
	ID     string
	Name   string
	Fields []Field
}

// FieldMap returns the fields holding a string value as a map
func FieldMap(fields []Field) map[string]string {
	m := make(map[string]string, len(fields))
	for _, f := range fields {
		if f.StringValue != nil {
			m[f.Key] = *f.StringValue
		}
	}
	return m
}

// Config is the configuration of the Data Pipeline access and of the aggregation runs
type Config struct {
	Region   string `json:"region" env:"DATAPIPELINE_REGION"`
	Endpoint string `json:"endpoint" env:"DATAPIPELINE_ENDPOINT"`
	// Concurrency is the maximum number of pipelines whose tasks are fetched at the same time
	Concurrency int `json:"concurrency" env:"DATAPIPELINE_CONCURRENCY"`
	// Timeout bounds a whole aggregation run, no timeout if zero
	Timeout time.Duration `json:"timeout" env:"DATAPIPELINE_TIMEOUT"`
	// PartialResults keeps what was fetched when listing or describing fails midway
	PartialResults bool `json:"partial_results" env:"DATAPIPELINE_PARTIAL_RESULTS"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() Config {
	return Config{
		Concurrency: 4,
		Timeout:     5 * time.Minute,
	}
}

// ConfigFromEnv returns the configuration read from the config file and/or env variables
func ConfigFromEnv() (Config, error) {
	c := DefaultConfig()
	if err := config.Unmarshal(configKey, &c); err != nil {
		return Config{}, errors.Wrap(err, "cannot unmarshal datapipeline config")
	}
	if c.Concurrency < 1 {
		c.Concurrency = 1
	}
	return c, nil
}
