package main

import (
	"time"

	"pipestat/pkg/api"
	"pipestat/pkg/util/context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// correlationID attaches a correlation id to each request context, taken from the request header or generated.
// Requests are logged with it once served.
func correlationID(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		id := c.Request().Header.Get(api.HeaderCorrelationID)
		if id == "" {
			id = uuid.New().String()
		}
		ctx := context.WithCorrelationID(context.FromContext(c.Request().Context()), id)
		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set(api.HeaderCorrelationID, id)

		start := time.Now()
		err := next(c)
		if err != nil {
			c.Error(err)
		}
		ctx.Logger().Debugf("%s %s %d in %s", c.Request().Method, c.Request().URL.Path, c.Response().Status, time.Since(start))
		return nil
	}
}
