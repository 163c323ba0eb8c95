package main

import (
	"net/http"

	"pipestat/pkg/store"
	"pipestat/pkg/util/context"

	"github.com/labstack/echo/v4"
)

func (h handlers) Snapshot(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())
	snap, err := h.store.Snapshot(ctx)
	if err != nil {
		if store.IsNotFound(err) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, snap)
}
