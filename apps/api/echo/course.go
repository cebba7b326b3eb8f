package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/course"
	"github.com/trezcool/darasa/core/student"
)

type courseApi struct {
	svc        *course.Service
	studentSvc *student.Service
	validate   *validator.Validate
}

func registerCourseAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := courseApi{
		svc:        deps.CourseSvc,
		studentSvc: deps.StudentSvc,
		validate:   deps.Validate,
	}

	cg := g.Group("/courses")

	// the catalog is public; enrollment flags light up for authed students
	cg.GET("", api.query)
	cg.GET("/:id", api.retrieve)

	// authed endpoints
	ag := cg.Group("", jwt)
	ag.POST("", api.create, staffMiddleware())
	ag.PUT("/:id", api.update, staffMiddleware())
	ag.DELETE("/:id", api.destroy, adminMiddleware())
	ag.POST("/:id/enroll", api.enroll)
}

// Handlers

func (api *courseApi) create(ctx echo.Context) error {
	var data course.NewCourse
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewCourse")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	crs, err := api.svc.Create(data)
	if err != nil {
		return errors.Wrap(err, "creating course")
	}
	return ctx.JSON(http.StatusCreated, crs)
}

// query lists the catalog; for an authenticated student each entry carries
// an enrolled flag.
func (api *courseApi) query(ctx echo.Context) error {
	courses, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying courses")
	}

	var std *student.Student
	if claims, ok := bearerClaims(ctx); ok && claims.IsStudent {
		if s, err := api.studentSvc.GetByUserID(claims.UserID()); err == nil {
			std = &s
		}
	}

	items := make([]CourseListItem, 0, len(courses))
	for _, crs := range courses {
		item := CourseListItem{Course: crs}
		if std != nil {
			item.Enrolled = std.IsEnrolled(crs.ID)
		}
		items = append(items, item)
	}
	return ctx.JSON(http.StatusOK, items)
}

func (api *courseApi) retrieve(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	crs, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "getting course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) update(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	crs, err := api.svc.GetByID(id)
	if err != nil {
		return errors.Wrap(err, "getting course")
	}

	var data course.UpdateCourse
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateCourse")
	}
	if err = data.Validate(crs, api.validate); err != nil {
		return err
	}

	crs, err = api.svc.Update(id, data)
	if err != nil {
		return errors.Wrap(err, "updating course")
	}
	return ctx.JSON(http.StatusOK, crs)
}

func (api *courseApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting course")
	}
	return ctx.NoContent(http.StatusNoContent)
}

// enroll adds the calling student to the course. Enrolling twice is not an
// error; the second call reports the existing membership.
func (api *courseApi) enroll(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	if !claims.IsStudent {
		return errHttpForbidden
	}

	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if _, err = api.svc.GetByID(id); err != nil {
		return errors.Wrap(err, "getting course")
	}

	std, err := api.studentSvc.GetByUserID(claims.UserID())
	if err != nil {
		return errors.Wrap(err, "getting student profile")
	}

	already, err := api.studentSvc.Enroll(std.ID, id)
	if err != nil {
		return errors.Wrap(err, "enrolling")
	}
	if already {
		return ctx.JSON(http.StatusOK, SuccessResponse{Success: "already enrolled in this course"})
	}
	return ctx.JSON(http.StatusCreated, SuccessResponse{Success: "enrolled"})
}

type CourseListItem struct {
	course.Course
	Enrolled bool `json:"enrolled"`
}
