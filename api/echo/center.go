package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/center"
)

type centerApi struct {
	svc      *center.Service
	validate *validator.Validate
}

func registerCenterAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := centerApi{
		svc:      deps.CenterSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/centers", jwt)
	cg.POST("", api.create, roleMiddleware(core.RoleAdmin))
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, roleMiddleware(core.RoleAdmin))
	cg.DELETE("/:id", api.destroy, roleMiddleware(core.RoleAdmin))
}

func (api *centerApi) create(ctx echo.Context) error {
	var data center.NewCenter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCenter")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating center")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *centerApi) query(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	centers, err := api.svc.QueryAll(ctx.Request().Context(), scope, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying centers")
	}
	if centers == nil {
		centers = []center.Center{}
	}
	return ctx.JSON(http.StatusOK, centers)
}

func (api *centerApi) retrieve(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	c, err := api.svc.GetByID(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == center.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting center")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *centerApi) update(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == center.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting center")
	}

	var data center.UpdateCenter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCenter")
	}
	if err := data.Validate(orig, api.validate, api.svc); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating center")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *centerApi) destroy(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	if _, err := api.svc.GetByID(ctx.Request().Context(), scope, ctx.Param("id")); err != nil {
		if errors.Cause(err) == center.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting center")
	}
	if err := api.svc.Delete(ctx.Request().Context(), ctx.Param("id")); err != nil {
		return errors.Wrap(err, "deleting center")
	}
	return ctx.NoContent(http.StatusNoContent)
}
