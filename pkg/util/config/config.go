package config

import (
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

const (
	// EnvConfigFile is the env variable used when no config file was set explicitly
	EnvConfigFile = "PIPESTAT_CONFIG"
)

var (
	config     = make(map[string]interface{})
	configFile string
)

// SetConfigFile sets the config file path to be read
func SetConfigFile(path string) {
	configFile = path
}

// Reset drops any config previously read
func Reset() {
	config = make(map[string]interface{})
	configFile = ""
}

// ReadInConfig reads the config file previously set, or the one from env PIPESTAT_CONFIG.
// If no config file was set, does nothing
func ReadInConfig() error {
	path := configFile
	if path == "" {
		path = os.Getenv(EnvConfigFile)
	}
	if path == "" {
		return nil
	}

	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "cannot open file %s", path)
	}
	defer f.Close()

	return ReadConfig(f)
}

// ReadConfig read config from the given reader
func ReadConfig(in io.Reader) error {
	if err := json.NewDecoder(in).Decode(&config); err != nil {
		return errors.Wrap(err, "cannot decode config")
	}
	return nil
}

// Get returns the value for the given dotted key
func Get(key string) interface{} {
	var obj interface{} = config
	var val interface{} = nil

	parts := strings.Split(key, ".")
	for _, p := range parts {
		if v, ok := obj.(map[string]interface{}); ok {
			obj = v[p]
			val = obj
		} else {
			return nil
		}
	}
	return val
}

// Unmarshal parses the config data for the given key and stores the result in the value pointed to by v.
// Struct fields are matched with their json tag, durations can be given as strings (eg. "30s").
// Env variables declared with env tags override values from the config data.
func Unmarshal(key string, v interface{}) error {
	in := Get(key)
	if in != nil {
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
			WeaklyTypedInput: true,
			TagName:          "json",
			Result:           v,
		})
		if err != nil {
			return errors.Wrapf(err, "cannot create decoder for key %s", key)
		}
		if err := dec.Decode(in); err != nil {
			return errors.Wrapf(err, "cannot decode config for key %s", key)
		}
	}
	if err := env.Parse(v); err != nil {
		return errors.Wrap(err, "cannot parse env")
	}
	return nil
}
