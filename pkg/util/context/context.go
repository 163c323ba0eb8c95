package context

import (
	gocontext "context"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	logger = newLogger()
)

func newLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.InfoLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
		FieldMap: logrus.FieldMap{
			logrus.FieldKeyMsg: "message",
		},
	})
	return l
}

// SetLogLevel sets the level of the logger returned by every Context
func SetLogLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return errors.Wrapf(err, "invalid log level %s", level)
	}
	logger.SetLevel(lvl)
	return nil
}

// SetLogOutput sets the output of the logger returned by every Context
func SetLogOutput(w io.Writer) {
	logger.SetOutput(w)
}

// BaseLogger returns the logger shared by every Context
func BaseLogger() *logrus.Logger {
	return logger
}

// Context extends the regular golang context.Context interface with access to a logger
// carrying the identifiers of the current run.
type Context interface {
	gocontext.Context
	Logger() *logrus.Entry
	RunID() string
	PipelineID() string
	CorrelationID() string
}

// Background returns a non-nil, empty Context.
func Background() Context {
	return ctx{
		Context: gocontext.Background(),
	}
}

// FromContext returns a new context from the given go context.
func FromContext(c gocontext.Context) Context {
	if asCtx, isCtx := c.(Context); isCtx {
		return asCtx
	}
	return ctx{
		Context: c,
	}
}

// WithRunID returns a copy of the context with a runID.
func WithRunID(c Context, runID string) Context {
	return ctx{
		c,
		runID,
		c.PipelineID(),
		c.CorrelationID(),
	}
}

// WithPipelineID returns a copy of the context with a pipelineID.
func WithPipelineID(c Context, pipelineID string) Context {
	return ctx{
		c,
		c.RunID(),
		pipelineID,
		c.CorrelationID(),
	}
}

// WithCorrelationID returns a copy of the context with a correlationID.
func WithCorrelationID(c Context, correlationID string) Context {
	return ctx{
		c,
		c.RunID(),
		c.PipelineID(),
		correlationID,
	}
}

// WithCancel returns a cancelable copy of the context, identifiers are kept.
func WithCancel(c Context) (Context, gocontext.CancelFunc) {
	gc, cancel := gocontext.WithCancel(c)
	return ctx{gc, c.RunID(), c.PipelineID(), c.CorrelationID()}, cancel
}

// WithTimeout returns a copy of the context cancelled after d, identifiers are kept.
// A zero or negative d returns a cancelable context without deadline.
func WithTimeout(c Context, d time.Duration) (Context, gocontext.CancelFunc) {
	if d <= 0 {
		return WithCancel(c)
	}
	gc, cancel := gocontext.WithTimeout(c, d)
	return ctx{gc, c.RunID(), c.PipelineID(), c.CorrelationID()}, cancel
}

type ctx struct {
	gocontext.Context
	runID         string
	pipelineID    string
	correlationID string
}

func (c ctx) Logger() *logrus.Entry {
	e := logrus.NewEntry(logger)
	if c.runID != "" {
		e = e.WithField("run_id", c.runID)
	}
	if c.pipelineID != "" {
		e = e.WithField("pipeline_id", c.pipelineID)
	}
	if c.correlationID != "" {
		e = e.WithField("correlation_id", c.correlationID)
	}
	return e
}

func (c ctx) RunID() string {
	return c.runID
}

func (c ctx) PipelineID() string {
	return c.pipelineID
}

func (c ctx) CorrelationID() string {
	return c.correlationID
}
