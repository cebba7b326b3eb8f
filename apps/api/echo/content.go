package echoapi

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
	"github.com/trezcool/darasa/core/content"
	"github.com/trezcool/darasa/core/student"
)

type contentApi struct {
	svc        *content.Service
	studentSvc *student.Service
	files      core.FileStore
	validate   *validator.Validate
}

func registerContentAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := contentApi{
		svc:        deps.ContentSvc,
		studentSvc: deps.StudentSvc,
		files:      deps.FileStore,
		validate:   deps.Validate,
	}

	ag := g.Group("", jwt)

	ag.POST("/courses/:id/materials", api.uploadMaterial, staffMiddleware())
	ag.GET("/courses/:id/materials", api.queryMaterials)
	ag.POST("/courses/:id/assignments", api.createAssignment, staffMiddleware())
	ag.GET("/courses/:id/assignments", api.queryAssignments)
	ag.GET("/assignments/me", api.queryOwnAssignments)
	ag.POST("/results", api.recordResult, staffMiddleware())
	ag.GET("/courses/:id/results", api.queryCourseResults, staffMiddleware())
	ag.GET("/students/:id/results", api.queryStudentResults)
	ag.GET("/media/*", api.serveFile)
}

// Handlers

func (api *contentApi) uploadMaterial(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	data := content.NewMaterial{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		CourseID:    courseID,
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	file, closeFn, err := formFile(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	mat, err := api.svc.UploadMaterial(data, file, claims.UserID())
	if err != nil {
		return errors.Wrap(err, "uploading material")
	}
	return ctx.JSON(http.StatusCreated, mat)
}

func (api *contentApi) queryMaterials(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	mats, err := api.svc.MaterialsByCourse(courseID)
	if err != nil {
		return errors.Wrap(err, "querying materials")
	}
	if mats == nil {
		mats = []content.StudyMaterial{}
	}
	return ctx.JSON(http.StatusOK, mats)
}

func (api *contentApi) createAssignment(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}

	data := content.NewAssignment{
		Title:       ctx.FormValue("title"),
		Description: ctx.FormValue("description"),
		CourseID:    courseID,
	}
	if data.AssigneeIDs, err = formIntList(ctx, "assignee_ids"); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "assignee_ids", Error: "must be a list of student IDs"})
	}
	if dueDate := ctx.FormValue("due_date"); dueDate != "" {
		if data.DueDate, err = time.Parse("2006-01-02", dueDate); err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "due_date", Error: "must be provided as YYYY-MM-DD"})
		}
	}
	if marks := ctx.FormValue("marks"); marks != "" {
		m, err := strconv.Atoi(marks)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "marks", Error: "must be a number"})
		}
		data.Marks = &m
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	file, closeFn, err := formFile(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	asg, err := api.svc.CreateAssignment(data, file, claims.UserID())
	if err != nil {
		return errors.Wrap(err, "creating assignment")
	}
	return ctx.JSON(http.StatusCreated, asg)
}

func (api *contentApi) queryAssignments(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	asgs, err := api.svc.AssignmentsByCourse(courseID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if asgs == nil {
		asgs = []content.Assignment{}
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *contentApi) queryOwnAssignments(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}
	std, err := api.studentSvc.GetByUserID(claims.UserID())
	if err != nil {
		if errors.Cause(err) == student.ErrNotFound {
			return ctx.JSON(http.StatusOK, []content.Assignment{})
		}
		return errors.Wrap(err, "getting student profile")
	}

	asgs, err := api.svc.AssignmentsForStudent(std.ID)
	if err != nil {
		return errors.Wrap(err, "querying assignments")
	}
	if asgs == nil {
		asgs = []content.Assignment{}
	}
	return ctx.JSON(http.StatusOK, asgs)
}

func (api *contentApi) recordResult(ctx echo.Context) error {
	data := content.NewResult{
		Description: ctx.FormValue("description"),
	}
	var err error
	if data.StudentID, err = strconv.Atoi(ctx.FormValue("student_id")); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "must be a student ID"})
	}
	if data.CourseID, err = strconv.Atoi(ctx.FormValue("course_id")); err != nil {
		return core.NewValidationError(nil, core.FieldError{Field: "course_id", Error: "must be a course ID"})
	}
	if marks := ctx.FormValue("marks"); marks != "" {
		m, err := strconv.Atoi(marks)
		if err != nil {
			return core.NewValidationError(nil, core.FieldError{Field: "marks", Error: "must be a number"})
		}
		data.Marks = &m
	}
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	// the result file is optional
	file, closeFn, err := formFile(ctx)
	if err == nil {
		defer closeFn()
	} else {
		file = nil
	}

	res, err := api.svc.RecordResult(data, file)
	if err != nil {
		return errors.Wrap(err, "recording result")
	}
	return ctx.JSON(http.StatusCreated, res)
}

func (api *contentApi) queryCourseResults(ctx echo.Context) error {
	courseID, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	results, err := api.svc.ResultsByCourse(courseID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []content.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

func (api *contentApi) queryStudentResults(ctx echo.Context) error {
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

	results, err := api.svc.ResultsByStudent(std.ID)
	if err != nil {
		return errors.Wrap(err, "querying results")
	}
	if results == nil {
		results = []content.Result{}
	}
	return ctx.JSON(http.StatusOK, results)
}

// serveFile streams a stored upload back to an authenticated caller.
func (api *contentApi) serveFile(ctx echo.Context) error {
	ref := ctx.Param("*")
	if ref == "" || strings.Contains(ref, "..") {
		return errHttpNotFound
	}
	f, err := api.files.Open(ref)
	if err != nil {
		return errHttpNotFound
	}
	defer func() { _ = f.Close() }()
	return ctx.Stream(http.StatusOK, echo.MIMEOctetStream, f)
}

// formFile extracts the uploaded "file" part; absence is not an error here,
// each operation decides whether the file is required.
func formFile(ctx echo.Context) (*content.FileUpload, func(), error) {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return nil, nil, core.NewValidationError(nil, core.FieldError{Field: "file", Error: "a file is required"})
	}
	var src multipart.File
	if src, err = fh.Open(); err != nil {
		return nil, nil, errors.Wrap(err, "opening uploaded file")
	}
	return &content.FileUpload{Filename: fh.Filename, Content: src}, func() { _ = src.Close() }, nil
}

func formIntList(ctx echo.Context, field string) ([]int, error) {
	form, err := ctx.MultipartForm()
	if err != nil {
		return nil, err
	}
	var ids []int
	for _, v := range form.Value[field] {
		id, err := strconv.Atoi(v)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
