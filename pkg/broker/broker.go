package broker

import (
	"os"
	"strings"
	"sync"

	"pipestat/pkg/events"
	"pipestat/pkg/util/config"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
)

const (
	envBrokerType     = "BROKER_TYPE"
	envBrokerExchange = "BROKER_EXCHANGE"
)

var (
	factories = make(map[Type]func(context.Context, interface{}) (Broker, error))
	configs   = make(map[Type]func() interface{})
	mutex     = &sync.Mutex{}
)

func register(t Type, f func(context.Context, interface{}) (Broker, error), c func() interface{}) {
	mutex.Lock()
	defer mutex.Unlock()
	factories[t] = f
	configs[t] = c
}

// Type is a string designing the implementation of Broker interface
type Type string

// HandleFunc is the function called when an event is received from a queue.
type HandleFunc func(ctx context.Context, evt events.Event) error

// Broker publishes aggregation events to an exchange and consumes them from queues bound to it.
type Broker interface {
	// DeclareExchange declares the topic exchange events are published to.
	DeclareExchange(ctx context.Context, name string) error

	// Publish publishes the given event to the exchange with the given routing key.
	Publish(ctx context.Context, evt events.Event, exchange, routingKey string) error

	// Receive consumes events from the given queue.
	// f is called for each event received.
	// this is a blocking function, it returns when ctx is done or the delivery channel is closed.
	Receive(ctx context.Context, f HandleFunc, qname string) error

	// CreateQueue creates a new queue bound to the exchange with the given routing key pattern.
	// An empty name creates an exclusive queue with a generated name, which is returned.
	CreateQueue(ctx context.Context, name, exchange, bindingKey string) (string, error)

	// DeleteQueue deletes the queue designated by the given name.
	DeleteQueue(ctx context.Context, name string) error

	// Close closes all connections.
	Close() error
}

// NewFromConfig returns a new instance of Broker based on configuration from config file and/or env variables
func NewFromConfig(ctx context.Context, configKey string) (Broker, error) {
	configTypeKey := configKey + ".type"
	// Get broker type
	var t string
	if typ := config.Get(configTypeKey); typ != nil {
		asString, isString := typ.(string)
		if !isString {
			return nil, errors.Errorf("config entry with key %s is not a string", configTypeKey)
		}
		t = asString
	} else {
		t = os.Getenv(envBrokerType)
	}
	if t == "" {
		return nil, errors.Errorf("broker type could not be found neither in config with key %s nor env %s", configTypeKey, envBrokerType)
	}

	typ := Type(strings.ToLower(t))
	mutex.Lock()
	newConf, ok := configs[typ]
	mutex.Unlock()
	if !ok {
		return nil, errors.Errorf("unknown broker type %s", typ)
	}
	v := newConf()
	if err := config.Unmarshal(configKey, v); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal broker config")
	}

	return New(ctx, typ, v)
}

// Configured returns true if a broker type is set, either in config with the given key or in env
func Configured(configKey string) bool {
	return config.Get(configKey+".type") != nil || os.Getenv(envBrokerType) != ""
}

// ExchangeFromConfig returns the exchange events are published to,
// read from config with key configKey.exchange then from env, DefaultExchange if none is set
func ExchangeFromConfig(configKey string) string {
	if ex, ok := config.Get(configKey + ".exchange").(string); ok && ex != "" {
		return ex
	}
	if ex := os.Getenv(envBrokerExchange); ex != "" {
		return ex
	}
	return DefaultExchange
}

// New returns a new instance of Broker based on given configuration struct
func New(ctx context.Context, t Type, c interface{}) (Broker, error) {
	mutex.Lock()
	f, ok := factories[t]
	mutex.Unlock()
	if !ok {
		return nil, errors.Errorf("unknown broker type %s", t)
	}

	return f(ctx, c)
}
