package main

import (
	"net/http"

	"pipestat/pkg/client"
	"pipestat/pkg/store"
	"pipestat/pkg/util/context"

	"github.com/labstack/echo/v4"
)

func (h handlers) Pipeline(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	pid := c.Param(client.PipelineIDParam)
	r, err := h.store.PipelineRecord(ctx, pid)
	if err != nil {
		if store.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, r)
}
