package objects

import (
	gocontext "context"
	"net/http"

	"pipestat/pkg/api"
	"pipestat/pkg/util/config"
	"pipestat/pkg/util/context"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
)

// LastModifiedLayout is the layout of ObjectInfo.LastModified, always UTC
const LastModifiedLayout = "2006-01-02T15:04:05.000Z"

// Config is the configuration of the object store access
type Config struct {
	Endpoint string `json:"endpoint" env:"OBJECTS_ENDPOINT"`
	Region   string `json:"region" env:"OBJECTS_REGION"`
	Secure   bool   `json:"secure" env:"OBJECTS_SECURE"`
}

// DefaultConfig returns the configuration used to reach AWS S3
func DefaultConfig() Config {
	return Config{
		Endpoint: "s3.amazonaws.com",
		Secure:   true,
	}
}

// ConfigFromEnv returns the objects section of the config, env variables taking precedence
func ConfigFromEnv() (Config, error) {
	conf := DefaultConfig()
	if err := config.Unmarshal("objects", &conf); err != nil {
		return conf, errors.Wrap(err, "cannot read objects config")
	}
	return conf, nil
}

// ObjectStore is the subset of the minio client used to list objects
type ObjectStore interface {
	ListObjects(ctx gocontext.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
}

// Lister lists the objects stored under a location
type Lister struct {
	store ObjectStore
}

// NewLister returns a Lister over the given store
func NewLister(store ObjectStore) *Lister {
	return &Lister{store: store}
}

// NewMinioLister returns a Lister backed by a minio client.
// Credentials are taken from the AWS env variables, the AWS credentials file or the instance role, in that order.
func NewMinioLister(conf Config) (*Lister, error) {
	creds := credentials.NewChainCredentials([]credentials.Provider{
		&credentials.EnvAWS{},
		&credentials.FileAWSCredentials{},
		&credentials.IAM{Client: &http.Client{Transport: http.DefaultTransport}},
	})
	cli, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  creds,
		Secure: conf.Secure,
		Region: conf.Region,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot create object store client for %s", conf.Endpoint)
	}
	return NewLister(cli), nil
}

// List returns every object whose key starts with prefix, in the order the store returns them.
// Any failure aborts the listing.
func (l *Lister) List(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error) {
	c, cancel := context.WithCancel(ctx)
	defer cancel()

	res := []api.ObjectInfo{}
	for o := range l.store.ListObjects(c, bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if o.Err != nil {
			return nil, errors.Wrapf(o.Err, "cannot list objects of s3://%s/%s", bucket, prefix)
		}
		res = append(res, api.ObjectInfo{
			LastModified: o.LastModified.UTC().Format(LastModifiedLayout),
			Size:         o.Size,
			Key:          o.Key,
		})
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(err, "listing interrupted")
	}
	ctx.Logger().Debugf("%d objects listed under s3://%s/%s", len(res), bucket, prefix)
	return res, nil
}

// ListLocation parses the given location and lists the objects under it
func (l *Lister) ListLocation(ctx context.Context, path string) ([]api.ObjectInfo, error) {
	loc, err := ParseLocation(path)
	if err != nil {
		return nil, err
	}
	return l.List(ctx, loc.Bucket, loc.Key)
}
