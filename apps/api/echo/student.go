package echoapi

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/student"
	"github.com/trezcool/darasa/core/user"
)

type studentApi struct {
	svc      *student.Service
	userSvc  *user.Service
	validate *validator.Validate
}

func registerStudentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := studentApi{
		svc:      deps.StudentSvc,
		userSvc:  deps.UserSvc,
		validate: deps.Validate,
	}

	sg := g.Group("/students")

	// un-authed endpoints
	sg.POST("/register", api.register)

	// authed endpoints
	ag := sg.Group("", jwt)
	ag.GET("", api.query, staffMiddleware())
	ag.GET("/me", api.retrieveOwn)

	dg := ag.Group("/:id", api.ownerOrStaffMiddleware())
	dg.GET("", api.retrieve)
	dg.GET("/fees", api.queryFees)
	dg.POST("/fees", api.recordFee, adminMiddleware())
}

// Handlers

// register is the open student sign-up: identity account, profile and
// initial course selection in one shot.
func (api *studentApi) register(ctx echo.Context) error {
	var data student.NewStudent
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewStudent")
	}
	if err := data.Validate(api.validate, api.svc); err != nil {
		return err
	}

	std, err := api.svc.Register(data)
	if err != nil {
		return errors.Wrap(err, "registering student")
	}
	return ctx.JSON(http.StatusCreated, std)
}

func (api *studentApi) query(ctx echo.Context) error {
	students, err := api.svc.QueryAll()
	if err != nil {
		return errors.Wrap(err, "querying students")
	}
	if students == nil {
		students = []student.Student{}
	}
	return ctx.JSON(http.StatusOK, students)
}

// retrieveOwn returns the caller's profile. An account with no profile yet
// is a valid state, not an error.
func (api *studentApi) retrieveOwn(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	std, err := api.svc.GetByUserID(claims.UserID())
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return ctx.JSON(http.StatusOK, ProfileResponse{})
		}
		return errors.Wrap(err, "getting student profile")
	}
	return ctx.JSON(http.StatusOK, ProfileResponse{Student: &std})
}

func (api *studentApi) retrieve(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, std)
}

func (api *studentApi) recordFee(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	var data student.NewFee
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewFee")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	fee, err := api.svc.RecordFee(std.ID, data)
	if err != nil {
		return errors.Wrap(err, "recording fee")
	}
	return ctx.JSON(http.StatusCreated, fee)
}

func (api *studentApi) queryFees(ctx echo.Context) error {
	std, ok := ctx.Get("object").(student.Student)
	if !ok {
		return errors.Wrap(errUsrNotFoundInCtx, "retrieving object from context")
	}

	fees, err := api.svc.ListFees(std.ID)
	if err != nil {
		return errors.Wrap(err, "querying fees")
	}
	if fees == nil {
		fees = []student.Fee{}
	}
	return ctx.JSON(http.StatusOK, fees)
}

// ownerOrStaffMiddleware loads the student under :id into the context,
// allowing staff and the profile's owner through.
func (api *studentApi) ownerOrStaffMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}

			id, err := strconv.Atoi(ctx.Param("id"))
			if err != nil {
				return errHttpNotFound
			}
			std, err := api.svc.GetByID(id)
			if err != nil {
				if errors.Cause(err) == student.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding student by ID")
			}

			if claims.IsAdmin || claims.IsTeacher || std.UserID == claims.UserID() {
				ctx.Set("object", std)
				return next(ctx)
			}
			return errHttpNotFound
		}
	}
}

type ProfileResponse struct {
	Student *student.Student `json:"student"`
}
