package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/broker"
	"pipestat/pkg/client"
	"pipestat/pkg/objects"
	"pipestat/pkg/status"
	"pipestat/pkg/store"
	"pipestat/pkg/util/config"
	"pipestat/pkg/util/context"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/neko-neko/echo-logrus/v2/log"
	"github.com/pkg/errors"
)

const (
	configKeyServer = "server"
	configKeyBroker = "broker"
	configKeyLog    = "log"
)

// serverConfig is the server section of the config
type serverConfig struct {
	Port string `json:"port" env:"SERVER_PORT"`
	// Refresh is the period between two aggregation runs
	Refresh time.Duration `json:"refresh" env:"SERVER_REFRESH"`
	// Filter applies to every aggregation run
	Filter api.Filter `json:"filter"`
}

type logConfig struct {
	Level string `json:"level" env:"LOG_LEVEL"`
}

func main() {
	// Create context, echo object and set logger
	e := echo.New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	l := log.MyLogger{Logger: ctx.Logger().Logger}
	e.Logger = &l

	if err := config.ReadInConfig(); err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to read config"))
		os.Exit(1)
	}
	lconf := logConfig{Level: "info"}
	if err := config.Unmarshal(configKeyLog, &lconf); err != nil {
		e.Logger.Fatal(err)
	}
	if err := context.SetLogLevel(lconf.Level); err != nil {
		e.Logger.Fatal(err)
	}
	sconf := serverConfig{Port: "8080", Refresh: time.Minute}
	if err := config.Unmarshal(configKeyServer, &sconf); err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to read server config"))
	}

	st, err := store.NewInMemoryStore()
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate store"))
		os.Exit(1)
	}

	agg, err := status.NewFromConfig(ctx)
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate aggregator"))
	}

	oconf, err := objects.ConfigFromEnv()
	if err != nil {
		e.Logger.Fatal(err)
	}
	lister, err := objects.NewMinioLister(oconf)
	if err != nil {
		e.Logger.Fatal(errors.Wrap(err, "failed to instantiate object lister"))
	}

	r := refresher{
		agg:      agg,
		store:    st,
		filter:   sconf.Filter,
		interval: sconf.Refresh,
	}
	if broker.Configured(configKeyBroker) {
		b, err := broker.NewFromConfig(ctx, configKeyBroker)
		if err != nil {
			e.Logger.Fatal(errors.Wrap(err, "failed to instantiate broker"))
		}
		defer b.Close()
		r.broker = b
		r.exchange = broker.ExchangeFromConfig(configKeyBroker)
		if err := b.DeclareExchange(ctx, r.exchange); err != nil {
			e.Logger.Fatal(err)
		}
	}
	go r.run(ctx)

	//Setup routes
	h := handlers{
		store:  st,
		lister: lister,
	}
	routes(e, h)

	e.HideBanner = true
	e.HidePort = true

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
		<-sig
		cancel()
		sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer scancel()
		if err := e.Shutdown(sctx); err != nil {
			e.Logger.Error(err)
		}
	}()

	e.Logger.Infof("http server started on 127.0.0.1:%s", sconf.Port)
	if err := e.Start(fmt.Sprintf(":%s", sconf.Port)); err != nil && err != http.ErrServerClosed {
		e.Logger.Fatal(err)
	}
}

// routes registers the endpoints served by the handlers
func routes(e *echo.Echo, h handlers) {
	e.Use(middleware.Recover())
	e.Use(correlationID)
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "pipestat")
	})
	e.Add(client.StatusMethod, client.StatusPath, h.Status)
	e.Add(client.PipelineMethod, client.PipelinePath, h.Pipeline)
	e.Add(client.SnapshotMethod, client.SnapshotPath, h.Snapshot)
	e.Add(client.ObjectsMethod, client.ObjectsPath, h.Objects)
}

// objectLister lists objects stored under a prefix
type objectLister interface {
	List(ctx context.Context, bucket, prefix string) ([]api.ObjectInfo, error)
}

type handlers struct {
	store  store.ReadOnlyStore
	lister objectLister
}
