package datapipeline

import (
	gocontext "context"

	"pipestat/pkg/util/context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/datapipeline"
	"github.com/aws/aws-sdk-go-v2/service/datapipeline/types"
	"github.com/pkg/errors"
)

// API is the subset of the AWS Data Pipeline SDK client used by the AWS Client implementation
type API interface {
	ListPipelines(ctx gocontext.Context, in *datapipeline.ListPipelinesInput, optFns ...func(*datapipeline.Options)) (*datapipeline.ListPipelinesOutput, error)
	DescribePipelines(ctx gocontext.Context, in *datapipeline.DescribePipelinesInput, optFns ...func(*datapipeline.Options)) (*datapipeline.DescribePipelinesOutput, error)
	QueryObjects(ctx gocontext.Context, in *datapipeline.QueryObjectsInput, optFns ...func(*datapipeline.Options)) (*datapipeline.QueryObjectsOutput, error)
	DescribeObjects(ctx gocontext.Context, in *datapipeline.DescribeObjectsInput, optFns ...func(*datapipeline.Options)) (*datapipeline.DescribeObjectsOutput, error)
}

// NewAWSClient returns a Client backed by the AWS Data Pipeline service.
// Credentials are resolved by the default AWS credential chain.
func NewAWSClient(ctx context.Context, conf Config) (Client, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if conf.Region != "" {
		opts = append(opts, awsconfig.WithRegion(conf.Region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "cannot load aws configuration")
	}
	api := datapipeline.NewFromConfig(cfg, func(o *datapipeline.Options) {
		if conf.Endpoint != "" {
			o.BaseEndpoint = aws.String(conf.Endpoint)
		}
	})
	return NewClient(api), nil
}

// NewClient returns a Client using the given SDK client
func NewClient(api API) Client {
	return awsClient{api: api}
}

type awsClient struct {
	api API
}

func (c awsClient) ListPipelines(ctx context.Context, marker string) (PipelinePage, error) {
	in := &datapipeline.ListPipelinesInput{}
	if marker != "" {
		in.Marker = aws.String(marker)
	}
	out, err := c.api.ListPipelines(ctx, in)
	if err != nil {
		return PipelinePage{}, errors.Wrap(err, "cannot list pipelines")
	}

	page := PipelinePage{}
	for _, p := range out.PipelineIdList {
		if p.Id != nil {
			page.IDs = append(page.IDs, *p.Id)
		}
	}
	if out.HasMoreResults && aws.ToString(out.Marker) != "" {
		page.Marker = out.Marker
	}
	return page, nil
}

func (c awsClient) DescribePipelines(ctx context.Context, pipelineIDs []string) ([]PipelineDescription, error) {
	if len(pipelineIDs) > MaxDescribeIDs {
		return nil, errors.Errorf("cannot describe %d pipelines at once, maximum is %d", len(pipelineIDs), MaxDescribeIDs)
	}
	out, err := c.api.DescribePipelines(ctx, &datapipeline.DescribePipelinesInput{
		PipelineIds: pipelineIDs,
	})
	if err != nil {
		return nil, errors.Wrap(err, "cannot describe pipelines")
	}

	res := make([]PipelineDescription, len(out.PipelineDescriptionList))
	for i, d := range out.PipelineDescriptionList {
		res[i] = PipelineDescription{
			PipelineID: aws.ToString(d.PipelineId),
			Name:       aws.ToString(d.Name),
			Fields:     fields(d.Fields),
		}
	}
	return res, nil
}

func (c awsClient) QueryObjects(ctx context.Context, pipelineID, sphere string) ([]string, error) {
	var ids []string
	var marker *string
	for {
		out, err := c.api.QueryObjects(ctx, &datapipeline.QueryObjectsInput{
			PipelineId: aws.String(pipelineID),
			Sphere:     aws.String(sphere),
			Marker:     marker,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "cannot query objects of pipeline %s", pipelineID)
		}
		ids = append(ids, out.Ids...)
		if !out.HasMoreResults || aws.ToString(out.Marker) == "" {
			return ids, nil
		}
		marker = out.Marker
	}
}

func (c awsClient) DescribeObjects(ctx context.Context, pipelineID string, objectIDs []string) ([]PipelineObject, error) {
	var res []PipelineObject
	var marker *string
	for {
		out, err := c.api.DescribeObjects(ctx, &datapipeline.DescribeObjectsInput{
			PipelineId: aws.String(pipelineID),
			ObjectIds:  objectIDs,
			Marker:     marker,
		})
		if err != nil {
			return nil, errors.Wrapf(err, "cannot describe objects of pipeline %s", pipelineID)
		}
		for _, o := range out.PipelineObjects {
			res = append(res, PipelineObject{
				ID:     aws.ToString(o.Id),
				Name:   aws.ToString(o.Name),
				Fields: fields(o.Fields),
			})
		}
		if !out.HasMoreResults || aws.ToString(out.Marker) == "" {
			return res, nil
		}
		marker = out.Marker
	}
}

func fields(in []types.Field) []Field {
	res := make([]Field, len(in))
	for i, f := range in {
		res[i] = Field{
			Key:         aws.ToString(f.Key),
			StringValue: f.StringValue,
		}
	}
	return res
}
