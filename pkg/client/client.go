package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/util/config"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/pkg/errors"
)

const (
	// PipelineIDParam is the param definition for PipelineID
	PipelineIDParam = "pipelineID"

	// NameParam is the query param holding the names of a filter, repeated once per name
	NameParam = "name"

	// OperationParam is the query param holding the operation of a filter
	OperationParam = "op"

	// PathParam is the query param holding an object location
	PathParam = "path"
)

// Client is the API client that performs all operations to a pipestat server
type Client interface {
	// Status returns the records of the latest snapshot passing the filter.
	Status(ctx context.Context, filter api.Filter) ([]api.PipelineRecord, error)

	// Pipeline returns the record of a pipeline in the latest snapshot.
	Pipeline(ctx context.Context, pipelineID string) (api.PipelineRecord, error)

	// Snapshot returns the latest snapshot, failures included.
	Snapshot(ctx context.Context) (api.Snapshot, error)

	// Objects lists the objects under the given location, such as s3://bucket/prefix.
	Objects(ctx context.Context, path string) ([]api.ObjectInfo, error)
}

// Config is the configuration of a client
type Config struct {
	URI          string        `json:"uri" env:"PIPESTAT_URI"`
	RetryMax     int           `json:"retry_max" env:"PIPESTAT_CLIENT_RETRY_MAX"`
	RetryWaitMin time.Duration `json:"retry_wait_min"`
	RetryWaitMax time.Duration `json:"retry_wait_max"`
	Timeout      time.Duration `json:"timeout"`
}

// DefaultConfig returns the default client configuration, the server uri is left empty
func DefaultConfig() Config {
	return Config{
		RetryMax:     4,
		RetryWaitMin: time.Second,
		RetryWaitMax: 30 * time.Second,
		Timeout:      time.Minute,
	}
}

// ConfigFromEnv returns the client section of the config, env variables taking precedence
func ConfigFromEnv() (Config, error) {
	conf := DefaultConfig()
	if err := config.Unmarshal("client", &conf); err != nil {
		return conf, errors.Wrap(err, "cannot read client config")
	}
	return conf, nil
}

// NewClient creates a pipestat client with the default configuration
func NewClient(uri string) (Client, error) {
	conf := DefaultConfig()
	conf.URI = uri
	return NewClientWithConfig(conf)
}

// NewClientWithConfig creates a pipestat client
func NewClientWithConfig(conf Config) (Client, error) {
	if conf.URI == "" {
		return nil, errors.New("pipestat server uri is not set")
	}
	httpcli := retryablehttp.NewClient()
	httpcli.Logger = nil
	httpcli.RetryMax = conf.RetryMax
	if conf.RetryWaitMin > 0 {
		httpcli.RetryWaitMin = conf.RetryWaitMin
	}
	if conf.RetryWaitMax > 0 {
		httpcli.RetryWaitMax = conf.RetryWaitMax
	}
	if conf.Timeout > 0 {
		httpcli.HTTPClient.Timeout = conf.Timeout
	}
	// Last response is returned as is once retries are exhausted, so that its error body can be read
	httpcli.ErrorHandler = retryablehttp.PassthroughErrorHandler
	u := strings.TrimRight(conf.URI, "/")
	return client{
		httpcli: httpcli,
		uri:     u,
	}, nil
}

type client struct {
	httpcli *retryablehttp.Client
	uri     string
}

// get performs a GET request on the given url and decodes the JSON response into res.
// what names the requested resource in ErrNotFound.
func (cli client) get(ctx context.Context, url, what string, res interface{}) error {
	req, err := retryablehttp.NewRequest(http.MethodGet, url, nil)
	if err != nil {
		return errors.Wrap(err, "cannot create request")
	}
	req.Header.Set("accept", "application/json")
	resp, err := cli.httpcli.Do(req.WithContext(ctx))
	if err != nil {
		return errors.Wrap(err, "cannot do request")
	}
	defer resp.Body.Close()
	dec := json.NewDecoder(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound{what}
	case resp.StatusCode == http.StatusBadRequest:
		var httpErr HTTPError
		if err := dec.Decode(&httpErr); err != nil {
			//Cannot decode error
			return ErrBadRequest{errors.New("bad request")}
		}
		return ErrBadRequest{httpErr}
	case resp.StatusCode >= 300:
		var httpErr HTTPError
		if err := dec.Decode(&httpErr); err != nil {
			return errors.Errorf("unexpected response status %d", resp.StatusCode)
		}
		return errors.Wrapf(httpErr, "unexpected response status %d", resp.StatusCode)
	}

	if err := dec.Decode(res); err != nil {
		return errors.Wrap(err, "cannot decode response")
	}
	return nil
}

func (cli client) path(format string, args ...interface{}) string {
	return cli.uri + fmt.Sprintf(format, args...)
}
