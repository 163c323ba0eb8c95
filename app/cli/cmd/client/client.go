package client

import "pipestat/pkg/client"

// New returns a new pipestat client for the server at the given uri, other settings are read from the config
func New(uri string) (client.Client, error) {
	conf, err := client.ConfigFromEnv()
	if err != nil {
		return nil, err
	}
	if uri != "" {
		conf.URI = uri
	}
	return client.NewClientWithConfig(conf)
}
