package echoapi

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/student"
)

type attendanceApi struct {
	svc      *attendance.Service
	validate *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:      deps.AttendanceSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/attendance", jwt)
	ag.PUT("/days/:date", api.setForDate, writeMiddleware())
	ag.GET("", api.query)
	ag.GET("/students/:id/stats", api.studentStats)
	ag.GET("/absentees", api.absentees)
	ag.DELETE("/:id", api.destroy, writeMiddleware())
}

// setForDate replaces the attendance of one date; the write is a
// transactional upsert keyed on (student_id, date), so repeating the
// call with corrected entries is idempotent.
func (api *attendanceApi) setForDate(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	var data attendance.SetDay
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SetDay")
	}
	data.Date = ctx.Param("date")
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	records, err := api.svc.SetForDate(ctx.Request().Context(), scope, data)
	if err != nil {
		return errors.Wrap(err, "setting attendance for date")
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	filter, err := bindAttendanceFilter(ctx)
	if err != nil {
		return err
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	records, err := api.svc.Query(ctx.Request().Context(), scope, filter, ordering.Orderings)
	if err != nil {
		return errors.Wrap(err, "querying attendance records")
	}
	if records == nil {
		records = []attendance.Record{}
	}
	return ctx.JSON(http.StatusOK, records)
}

func (api *attendanceApi) studentStats(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}
	from, to, err := bindDateRange(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.StatsForStudent(ctx.Request().Context(), scope, ctx.Param("id"), from, to)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "computing attendance stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) absentees(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}
	from, to, err := bindDateRange(ctx)
	if err != nil {
		return err
	}

	ranking, err := api.svc.RankAbsenteesInScope(ctx.Request().Context(), scope, from, to)
	if err != nil {
		return errors.Wrap(err, "ranking absentees")
	}
	if ranking == nil {
		ranking = []attendance.StudentAbsence{}
	}
	return ctx.JSON(http.StatusOK, ranking)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	scope, err := getContextScope(ctx)
	if err != nil {
		return err
	}

	if err := api.svc.Delete(ctx.Request().Context(), scope, ctx.Param("id")); err != nil {
		if errors.Cause(err) == attendance.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "deleting attendance record")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func bindAttendanceFilter(ctx echo.Context) (attendance.QueryFilter, error) {
	var filter attendance.QueryFilter
	filter.StudentID = ctx.QueryParam("student_id")
	filter.Status = attendance.Status(ctx.QueryParam("status"))

	from, to, err := bindDateRange(ctx)
	if err != nil {
		return attendance.QueryFilter{}, err
	}
	filter.From, filter.To = from, to
	return filter, nil
}

// bindDateRange parses optional from/to query params as YYYY-MM-DD days.
func bindDateRange(ctx echo.Context) (from, to time.Time, err error) {
	if v := ctx.QueryParam("from"); v != "" {
		if from, err = time.Parse(attendance.DateFormat, v); err != nil {
			return from, to, core.NewValidationError(err, core.FieldError{Field: "from", Error: "must be a date in YYYY-MM-DD format"})
		}
	}
	if v := ctx.QueryParam("to"); v != "" {
		if to, err = time.Parse(attendance.DateFormat, v); err != nil {
			return from, to, core.NewValidationError(err, core.FieldError{Field: "to", Error: "must be a date in YYYY-MM-DD format"})
		}
	}
	return from, to, nil
}
