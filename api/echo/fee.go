package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/fee"
)

type feeApi struct {
	svc      *fee.Service
	validate *validator.Validate
}

func registerFeeAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := feeApi{
		svc:      deps.FeeSvc,
		validate: deps.Validate,
	}

	fg := g.Group("/fees", jwt)
	fg.PUT("", api.set, writeMiddleware())
	fg.GET("", api.query)
	fg.GET("/summary", api.summary)
	fg.POST("/:id/pay", api.markPaid, writeMiddleware())
	fg.DELETE("/:id", api.destroy, writeMiddleware())
}

// set creates or replaces the (student, month) fee row.
func (api *feeApi) set(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	var data fee.SetFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetFee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.Set(ctx.Request().Context(), scope, data)
	if err != nil {
		return errors.Wrap(err, "setting fee")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) query(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	filter := new(fee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []fee.Record{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	records, err := api.svc.Query(ctx.Request().Context(), scope, *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying fee records")
	}
	if records == nil {
		records = []fee.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *feeApi) summary(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	filter := new(fee.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, fee.Totals{})
	}

	totals, err := api.svc.Summary(ctx.Request().Context(), scope, *filter)
	if err != nil {
		return errors.Wrap(err, "computing fee summary")
	}
	return ctx.JSON(http.StatusOK, totals)
}

func (api *feeApi) markPaid(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	var data fee.MarkPaid
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkPaid")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	rec, err := api.svc.MarkPaid(ctx.Request().Context(), scope, ctx.Param("id"), data)
	if err != nil {
		if errors.Cause(err) == fee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "marking fee paid")
	}
	return ctx.JSON(http.StatusOK, rec)
}

func (api *feeApi) destroy(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), scope, ctx.Param("id")); err != nil {
		if errors.Cause(err) == fee.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting fee record")
	}
	return ctx.NoContent(http.StatusNoContent)
}
