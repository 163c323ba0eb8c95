package broker

import (
	"encoding/json"
	"fmt"
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/events"
	"pipestat/pkg/util/context"

	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

const (
	// RabbitMQType Broker type RabbitMQ
	RabbitMQType Type = "rabbitmq"
)

func init() {
	f := func(ctx context.Context, c interface{}) (Broker, error) {
		asRabbitMQConf, isRabbitMQConf := c.(*RabbitMQConfig)
		if !isRabbitMQConf {
			return nil, errors.Errorf("given configuration struct is not type %T", &RabbitMQConfig{})
		}
		return NewRabbitMQBroker(ctx, *asRabbitMQConf)
	}
	register(RabbitMQType, f, func() interface{} { return &RabbitMQConfig{} })
}

type rabbitmq struct {
	conn   *amqp.Connection
	ch     *amqp.Channel
	config RabbitMQConfig
}

// RabbitMQConfig is configuration for rabbitmq broker implementation
type RabbitMQConfig struct {
	User     string `json:"user" env:"BROKER_RABBITMQ_USER"`
	Password string `json:"password" env:"BROKER_RABBITMQ_PASSWORD"`
	URI      string `json:"uri" env:"BROKER_RABBITMQ_URI"`
}

// URL returns the amqp url, with the password masked if mask is true
func (c RabbitMQConfig) URL(mask bool) string {
	password := c.Password
	if mask && password != "" {
		password = "***"
	}
	return fmt.Sprintf("amqp://%s:%s@%s", c.User, password, c.URI)
}

//NewRabbitMQBroker returns a Broker implementation based on RabbitMQ.
func NewRabbitMQBroker(ctx context.Context, conf RabbitMQConfig) (Broker, error) {
	ctx.Logger().Infof("connecting to rabbitmq with url '%s'", conf.URL(true))
	conn, err := amqp.Dial(conf.URL(false))
	if err != nil {
		return nil, errors.Wrapf(err, "cannot connect to rabbitmq with url '%s'", conf.URL(true))
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "cannot open channel to rabbitmq")
	}
	err = ch.Qos(1, 0, false)
	if err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "cannot set rabbitmq Qos controls")
	}
	return &rabbitmq{
		conn:   conn,
		ch:     ch,
		config: conf,
	}, nil
}

func (q *rabbitmq) DeclareExchange(ctx context.Context, name string) error {
	ctx.Logger().Tracef("declaring exchange %s", name)
	err := q.ch.ExchangeDeclare(
		name,    // name
		"topic", // kind
		true,    // durable
		false,   // auto-deleted
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return errors.Wrapf(err, "cannot declare exchange %s", name)
	}
	return nil
}

func (q *rabbitmq) Publish(ctx context.Context, evt events.Event, exchange, routingKey string) error {
	ctx.Logger().Tracef("publishing event %s to exchange %s", evt, exchange)
	//Headers
	headers := amqp.Table{
		api.HeaderRunID:         evt.RunID,
		api.HeaderPipelineID:    evt.PipelineID,
		api.HeaderCorrelationID: evt.CorrelationID,
		api.HeaderType:          string(evt.Type),
	}

	// Marshal body
	data := evt.Data
	if data == nil {
		data = struct{}{}
	}
	body, err := json.Marshal(data)
	if err != nil {
		return errors.Wrapf(err, "cannot marshal event %s", evt)
	}

	err = q.ch.Publish(
		exchange,   // exchange
		routingKey, // routing key
		false,      // mandatory
		false,      // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
			Headers:     headers,
			Timestamp:   evt.Time,
		})
	if err != nil {
		return errors.Wrapf(err, "cannot publish event %s to exchange %s", evt, exchange)
	}
	return nil
}

func (q *rabbitmq) Receive(ctx context.Context, f HandleFunc, qname string) error {
	ctx.Logger().Infof("receiving events from queue %s", qname)
	msgs, err := q.ch.Consume(
		qname,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return errors.Wrapf(err, "cannot register consumer to queue %s", qname)
	}

	for {
		var d amqp.Delivery
		var ok bool
		select {
		case <-ctx.Done():
			return nil
		case d, ok = <-msgs:
		}
		if !ok {
			return errors.New("delivery channel closed")
		}

		evt, err := toEvent(d)
		if err != nil {
			ctx.Logger().Warnf("%s, dropping event", err)
			reject(ctx, evt, &d)
			continue
		}

		ectx := context.WithRunID(context.Background(), evt.RunID)
		ectx = context.WithPipelineID(ectx, evt.PipelineID)
		ectx = context.WithCorrelationID(ectx, evt.CorrelationID)

		if err := f(ectx, evt); err != nil {
			ectx.Logger().Errorf("cannot handle event %s, %s", evt, err)
			nack(ectx, evt, &d)
			continue
		}
		ack(ectx, evt, &d)
	}
}

// toEvent builds an event from the given delivery, the data is kept as raw json
func toEvent(d amqp.Delivery) (events.Event, error) {
	evt := events.Event{
		Type:          events.EventType(header(d, api.HeaderType)),
		RunID:         header(d, api.HeaderRunID),
		PipelineID:    header(d, api.HeaderPipelineID),
		CorrelationID: header(d, api.HeaderCorrelationID),
		Time:          d.Timestamp,
	}
	if evt.Time.IsZero() {
		evt.Time = time.Now()
	}
	if d.ContentType != "application/json" {
		return evt, errors.Errorf("received event %s with unsupported content-type %s", evt, d.ContentType)
	}
	if !json.Valid(d.Body) {
		return evt, errors.Errorf("cannot unmarshal received event %s", evt)
	}
	evt.Data = json.RawMessage(d.Body)
	return evt, nil
}

func header(d amqp.Delivery, key string) string {
	s, _ := d.Headers[key].(string)
	return s
}

// ack acknowledge the event and log error if the acknowledgment returns an error.
func ack(ctx context.Context, evt events.Event, d *amqp.Delivery) {
	if err := d.Ack(false); err != nil {
		ctx.Logger().Errorf("cannot ack event %s, %s", evt, err)
	}
}

// nack negatively acknowledge the event, requeueing it, and log error if the acknowledgment returns an error.
func nack(ctx context.Context, evt events.Event, d *amqp.Delivery) {
	if err := d.Nack(false, true); err != nil {
		ctx.Logger().Errorf("cannot nack event %s, %s", evt, err)
	}
}

// reject negatively acknowledge the event without requeueing it and log error if the acknowledgment returns an error.
func reject(ctx context.Context, evt events.Event, d *amqp.Delivery) {
	if err := d.Reject(false); err != nil {
		ctx.Logger().Errorf("cannot reject event %s, %s", evt, err)
	}
}

func (q *rabbitmq) CreateQueue(ctx context.Context, name, exchange, bindingKey string) (string, error) {
	ctx.Logger().Tracef("creating queue '%s' bound to exchange %s with key %s", name, exchange, bindingKey)
	durable, exclusive := true, false
	if name == "" {
		durable, exclusive = false, true
	}
	queue, err := q.ch.QueueDeclare(
		name,      // name
		durable,   // durable
		exclusive, // delete when unused
		exclusive, // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return "", errors.Wrapf(err, "cannot declare queue '%s'", name)
	}

	err = q.ch.QueueBind(
		queue.Name, // queue name
		bindingKey, // routing key
		exchange,   // exchange
		false,
		nil,
	)
	if err != nil {
		return "", errors.Wrapf(err, "cannot bind queue %s to exchange %s with key %s", queue.Name, exchange, bindingKey)
	}
	return queue.Name, nil
}

func (q *rabbitmq) DeleteQueue(ctx context.Context, name string) error {
	ctx.Logger().Tracef("deleting queue %s", name)
	if _, err := q.ch.QueueDelete(
		name, //queue name
		false,
		false,
		false,
	); err != nil {
		return errors.Wrapf(err, "cannot delete queue %s", name)
	}
	return nil
}

func (q *rabbitmq) Close() error {
	if err := q.ch.Close(); err != nil {
		return err
	}
	if err := q.conn.Close(); err != nil {
		return err
	}
	return nil
}
