package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/chapter"
)

type chapterApi struct {
	svc      *chapter.Service
	validate *validator.Validate
}

func registerChapterAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := chapterApi{
		svc:      deps.ChapterSvc,
		validate: deps.Validate,
	}

	cg := g.Group("/chapters", jwt)
	cg.POST("", api.create, writeMiddleware())
	cg.GET("", api.query)
	cg.GET("/completion", api.completion)
	cg.GET("/:id", api.retrieve)
	cg.PUT("/:id", api.update, writeMiddleware())
	cg.PATCH("/:id/complete", api.complete, writeMiddleware())
	cg.DELETE("/:id", api.destroy, writeMiddleware())
}

func (api *chapterApi) create(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	var data chapter.NewChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewChapter")
	}
	if err := data.Validate(scope, api.validate); err != nil {
		return err
	}

	c, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating chapter")
	}
	return ctx.JSON(http.StatusCreated, c)
}

func (api *chapterApi) query(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	filter := new(chapter.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []chapter.Chapter{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	chapters, err := api.svc.Query(ctx.Request().Context(), scope, *filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying chapters")
	}
	if chapters == nil {
		chapters = []chapter.Chapter{}
	}
	return ctx.JSON(http.StatusOK, chapters)
}

// completion reports completed/total over the filtered population;
// the filter is applied before counting.
func (api *chapterApi) completion(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	filter := new(chapter.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, chapter.Completion{})
	}
	filter.Clean()

	completion, err := api.svc.Completion(ctx.Request().Context(), scope, *filter)
	if err != nil {
		return errors.Wrap(err, "computing chapter completion")
	}
	return ctx.JSON(http.StatusOK, completion)
}

func (api *chapterApi) retrieve(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	c, err := api.svc.GetByID(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == chapter.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting chapter")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *chapterApi) update(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	orig, err := api.svc.GetByID(ctx.Request().Context(), scope, ctx.Param("id"))
	if err != nil {
		if errors.Cause(err) == chapter.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting chapter")
	}

	var data chapter.UpdateChapter
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateChapter")
	}
	if err := data.Validate(orig, api.validate); err != nil {
		return err
	}

	c, err := api.svc.Update(ctx.Request().Context(), scope, orig.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating chapter")
	}
	return ctx.JSON(http.StatusOK, c)
}

// complete marks the chapter done, stamping completed_on on the first
// transition.
func (api *chapterApi) complete(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	completed := true
	c, err := api.svc.Update(ctx.Request().Context(), scope, ctx.Param("id"), chapter.UpdateChapter{Completed: &completed})
	if err != nil {
		if errors.Cause(err) == chapter.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "completing chapter")
	}
	return ctx.JSON(http.StatusOK, c)
}

func (api *chapterApi) destroy(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), scope, ctx.Param("id")); err != nil {
		if errors.Cause(err) == chapter.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting chapter")
	}
	return ctx.NoContent(http.StatusNoContent)
}
