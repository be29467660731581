package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/exam"
)

type examApi struct {
	svc      *exam.Service
	validate *validator.Validate
}

func registerExamAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := examApi{
		svc:      deps.ExamSvc,
		validate: deps.Validate,
	}

	tg := g.Group("/tests", jwt)
	tg.POST("", api.create, writeMiddleware())
	tg.GET("", api.query)
	tg.GET("/:id", api.retrieve)
	tg.PUT("/:id", api.update, writeMiddleware())
	tg.DELETE("/:id", api.destroy, writeMiddleware())

	tg.POST("/:id/results", api.recordResult, writeMiddleware())
	tg.GET("/:id/results", api.queryResults)
	tg.GET("/:id/stats", api.stats)
}

func (api *examApi) create(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	var data exam.NewTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewTest")
	}
	if err := data.Validate(scope, api.validate); err != nil {
		return err
	}

	t, err := api.svc.CreateTest(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating test")
	}
	return ctx.JSON(http.StatusCreated, t)
}

func (api *examApi) query(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	filter := new(exam.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []exam.Test{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	tests, err := api.svc.QueryTests(ctx.Request().Context(), scope, *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying tests")
	}
	if tests == nil {
		tests = []exam.Test{}
	}
	return ctx.JSON(http.StatusOK, tests)
}

func (api *examApi) retrieve(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	t, err := api.svc.GetTestByID(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting test")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *examApi) update(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetTestByID(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting test")
	}

	var data exam.UpdateTest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateTest")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	t, err := api.svc.UpdateTest(ctx.Request().Context(), scope, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating test")
	}
	return ctx.JSON(http.StatusOK, t)
}

func (api *examApi) destroy(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.DeleteTest(ctx.Request().Context(), scope, ctx.Param("id")); err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting test")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// recordResult stores one student's marks; a duplicate (test, student)
// pair comes back as a 409.
func (api *examApi) recordResult(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	var data exam.NewResult
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewResult")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	r, err := api.svc.RecordResult(ctx.Request().Context(), scope, ctx.Param("id"), data)
	if err != nil {
		switch errors.Cause(err) {
		case exam.ErrTestNotFound:
			return errHttpNotFound
		case exam.ErrResultExists:
			return echo.NewHTTPError(http.StatusConflict, exam.ErrResultExists.Error())
		}
		return errors.Wrap(err, "recording result")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *examApi) queryResults(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	results, err := api.svc.QueryResults(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []exam.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *examApi) stats(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.StatsForTest(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == exam.ErrTestNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "computing test stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}
