package echoapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/attendance"
	"github.com/trezcool/darasa/core/student"
)

type attendanceApi struct {
	svc        *attendance.Service
	studentSvc *student.Service
	validate   *validator.Validate
}

func registerAttendanceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := attendanceApi{
		svc:        deps.AttendanceSvc,
		studentSvc: deps.StudentSvc,
		validate:   deps.Validate,
	}

	ag := g.Group("", jwt)
	ag.POST("/courses/:id/attendance", api.mark, staffMiddleware())
	ag.GET("/courses/:id/attendance", api.queryByCourseDate, staffMiddleware())
	ag.GET("/students/:id/attendance", api.queryByStudent)
}

// Handlers

// mark records one attendance entry per enrolled student for the sheet's
// date; re-posting the same date updates the records in place.
func (api *attendanceApi) mark(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	var data attendance.MarkSheet
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to MarkSheet")
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	records, err := api.svc.Mark(courseID, data)
	if err != nil {
		return errors.Wrap(err, "marking attendance")
	}
	return ctx.JSON(http.StatusCreated, records)
}

func (api *attendanceApi) queryByCourseDate(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	date, err := time.Parse("2006-01-02", ctx.QueryParam("date"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "date must be provided as YYYY-MM-DD")
	}

	records, err := api.svc.ListByCourseDate(courseID, date)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, records)
}

// queryByStudent serves staff and the student's own history.
func (api *attendanceApi) queryByStudent(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	studentID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	std, err := api.studentSvc.GetByID(studentID)
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "finding student by ID")
	}
	if !(claims.IsAdmin || claims.IsTeacher || std.UserID == claims.UserID()) {
		return errHttpNotFound
	}

	records, err := api.svc.ListByStudent(std.ID)
	if err != nil {
		return errors.Wrap(err, "querying attendance")
	}
	if records == nil {
		records = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, records)
}
