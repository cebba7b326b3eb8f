package echoapi

import (
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core/announce"
	"github.com/trezcool/darasa/core/user"
)

type announceApi struct {
	svc      *announce.Service
	validate *validator.Validate
}

func registerAnnounceAPI(g *echo.Group, jwt echo.MiddlewareFunc, deps ServerDeps) {
	api := announceApi{
		svc:      deps.AnnounceSvc,
		validate: deps.Validate,
	}

	ag := g.Group("/announcements", jwt)
	ag.POST("", api.create)
	ag.GET("", api.query)
	ag.DELETE("/:id", api.destroy, adminMiddleware())
}

// Handlers

// create posts an announcement; student callers are rejected with an
// explicit permission error rather than silently ignored.
func (api *announceApi) create(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	data := announce.NewAnnouncement{
		Title:   ctx.FormValue("title"),
		Content: ctx.FormValue("content"),
		ForRole: ctx.FormValue("for_role"),
	}
	data.ForAll, _ = strconv.ParseBool(ctx.FormValue("for_all"))
	if err = data.Validate(api.validate); err != nil {
		return err
	}

	// the attachment is optional
	var filename string
	var file io.Reader
	if fh, err := ctx.FormFile("file"); err == nil {
		src, err := fh.Open()
		if err != nil {
			return errors.Wrap(err, "opening uploaded file")
		}
		defer func() { _ = src.Close() }()
		filename, file = fh.Filename, src
	}

	isStudent := claims.IsStudent && !(claims.IsAdmin || claims.IsTeacher)
	ann, err := api.svc.Create(claims.UserID(), isStudent, data, filename, file)
	if err != nil {
		return errors.Wrap(err, "creating announcement")
	}
	return ctx.JSON(http.StatusCreated, ann)
}

// query lists announcements visible to the caller's roles.
func (api *announceApi) query(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return errors.Wrap(err, "getting context claims")
	}

	holder := user.User{Roles: claims.Roles}
	anns, err := api.svc.QueryVisible(holder.RoleNames())
	if err != nil {
		return errors.Wrap(err, "querying announcements")
	}
	if anns == nil {
		anns = []announce.Announcement{}
	}
	return ctx.JSON(http.StatusOK, anns)
}

func (api *announceApi) destroy(ctx echo.Context) error {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return errHttpNotFound
	}
	if err = api.svc.Delete(id); err != nil {
		return errors.Wrap(err, "deleting announcement")
	}
	return ctx.NoContent(http.StatusNoContent)
}
