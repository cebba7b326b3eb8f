package announce

import (
	"io"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/darasa/core"
)

var (
	// errors
	ErrNotFound         = errors.New("announcement not found")
	ErrPermissionDenied = errors.New("students may not post announcements")
)

type (
	Repository interface {
		CreateAnnouncement(ann Announcement) (Announcement, error)
		QueryAllAnnouncements() ([]Announcement, error)
		GetAnnouncementByID(id int) (Announcement, error)
		DeleteAnnouncement(id int) error
	}

	Service struct {
		repo  Repository
		files core.FileStore
	}
)

func NewService(repo Repository, files core.FileStore) *Service {
	return &Service{repo: repo, files: files}
}

// Create posts an announcement on behalf of a staff account. Student
// accounts are rejected outright with ErrPermissionDenied. The attachment
// is optional.
func (svc *Service) Create(creatorID int, creatorIsStudent bool, na NewAnnouncement, filename string, file io.Reader) (Announcement, error) {
	if creatorIsStudent {
		return Announcement{}, ErrPermissionDenied
	}

	var ref string
	var err error
	if file != nil {
		if ref, err = svc.files.Save("announcements", filename, file); err != nil {
			return Announcement{}, errors.Wrap(err, "saving attachment")
		}
	}
	ann := Announcement{
		Title:     na.Title,
		Content:   na.Content,
		FilePath:  ref,
		CreatorID: creatorID,
		CreatedAt: time.Now().UTC(),
		ForAll:    na.ForAll,
		ForRole:   na.ForRole,
	}
	ann, err = svc.repo.CreateAnnouncement(ann)
	if err != nil {
		if ref != "" {
			_ = svc.files.Delete(ref)
		}
		return Announcement{}, errors.Wrap(err, "creating announcement")
	}
	return ann, nil
}

// QueryVisible lists the announcements an account holding the given plain
// role names should see, newest first.
func (svc *Service) QueryVisible(roleNames []string) ([]Announcement, error) {
	all, err := svc.repo.QueryAllAnnouncements()
	if err != nil {
		return nil, err
	}
	visible := make([]Announcement, 0, len(all))
	for _, ann := range all {
		if ann.VisibleTo(roleNames) {
			visible = append(visible, ann)
		}
	}
	return visible, nil
}

func (svc *Service) QueryAll() ([]Announcement, error) {
	return svc.repo.QueryAllAnnouncements()
}

func (svc *Service) Get(id int) (Announcement, error) {
	return svc.repo.GetAnnouncementByID(id)
}

func (svc *Service) Delete(id int) error {
	ann, err := svc.repo.GetAnnouncementByID(id)
	if err != nil {
		return err
	}
	if err = svc.repo.DeleteAnnouncement(id); err != nil {
		return err
	}
	if ann.FilePath != "" {
		_ = svc.files.Delete(ann.FilePath)
	}
	return nil
}
