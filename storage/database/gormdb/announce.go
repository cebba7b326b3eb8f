package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/announce"
)

type announceRepository struct {
	db *gorm.DB
}

var _ announce.Repository = (*announceRepository)(nil) // interface compliance check

func NewAnnounceRepository(db *gorm.DB) announce.Repository {
	return &announceRepository{db: db}
}

func (repo *announceRepository) CreateAnnouncement(ann announce.Announcement) (announce.Announcement, error) {
	row := announcementRow{
		Title:     ann.Title,
		Content:   ann.Content,
		FilePath:  ann.FilePath,
		CreatorID: ann.CreatorID,
		CreatedAt: ann.CreatedAt,
		ForAll:    ann.ForAll,
		ForRole:   ann.ForRole,
	}
	if err := repo.db.Create(&row).Error; err != nil {
		return announce.Announcement{}, errors.Wrap(err, "creating announcement")
	}
	return row.toAnnouncement(), nil
}

func (repo *announceRepository) QueryAllAnnouncements() ([]announce.Announcement, error) {
	var rows []announcementRow
	if err := repo.db.Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying announcements")
	}
	anns := make([]announce.Announcement, 0, len(rows))
	for _, row := range rows {
		anns = append(anns, row.toAnnouncement())
	}
	return anns, nil
}

func (repo *announceRepository) GetAnnouncementByID(id int) (announce.Announcement, error) {
	var row announcementRow
	if err := repo.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return announce.Announcement{}, announce.ErrNotFound
		}
		return announce.Announcement{}, errors.Wrap(err, "getting announcement")
	}
	return row.toAnnouncement(), nil
}

func (repo *announceRepository) DeleteAnnouncement(id int) error {
	res := repo.db.Delete(&announcementRow{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "deleting announcement")
	}
	if res.RowsAffected == 0 {
		return announce.ErrNotFound
	}
	return nil
}
