package main

import (
	"net/http"

	"pipestat/pkg/client"
	"pipestat/pkg/objects"
	"pipestat/pkg/util/context"

	"github.com/labstack/echo/v4"
)

func (h handlers) Objects(c echo.Context) error {
	ctx := context.FromContext(c.Request().Context())

	loc, err := objects.ParseLocation(c.QueryParam(client.PathParam))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.lister.List(ctx, loc.Bucket, loc.Key)
	if err != nil {
		ctx.Logger().Warn(err)
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, res)
}
