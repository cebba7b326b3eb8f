package announce

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/darasa/core"
)

// Announcement is a broadcast notice, either to everyone or to a single
// role (by plain role name: admin, teacher, student).
type Announcement struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	FilePath  string    `json:"file_path,omitempty"`
	CreatorID int       `json:"creator_id"`
	CreatedAt time.Time `json:"created_at"`
	ForAll    bool      `json:"for_all"`
	ForRole   string    `json:"for_role,omitempty"`
}

// VisibleTo reports whether the announcement should be shown to an account
// holding the given plain role names.
func (a *Announcement) VisibleTo(roleNames []string) bool {
	if a.ForAll {
		return true
	}
	for _, name := range roleNames {
		if strings.EqualFold(a.ForRole, name) {
			return true
		}
	}
	return false
}

type NewAnnouncement struct {
	Title   string `json:"title" validate:"required"`
	Content string `json:"content" validate:"required"`
	ForAll  bool   `json:"for_all"`
	ForRole string `json:"for_role" validate:"required_without=ForAll,omitempty,oneof=admin teacher student"`
}

func (na *NewAnnouncement) Validate(validate *validator.Validate) error {
	na.Title = core.CleanString(na.Title)
	na.ForRole = core.CleanString(na.ForRole, true /* lower */)
	return validate.Struct(na)
}
