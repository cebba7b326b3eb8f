package inmemdb

import (
	"sort"

	"github.com/trezcool/darasa/core/announce"
)

type announceRepository struct {
	db *announceTable
}

var _ announce.Repository = (*announceRepository)(nil) // interface compliance check

func NewAnnounceRepository(db *DB) announce.Repository {
	return &announceRepository{db: db.announce}
}

func (repo *announceRepository) CreateAnnouncement(ann announce.Announcement) (announce.Announcement, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.seq++
	ann.ID = repo.db.seq
	repo.db.table[ann.ID] = &ann
	return ann, nil
}

func (repo *announceRepository) QueryAllAnnouncements() ([]announce.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	anns := make([]announce.Announcement, 0, len(repo.db.table))
	for _, ann := range repo.db.table {
		anns = append(anns, *ann)
	}
	sort.Slice(anns, func(i, j int) bool { return anns[i].CreatedAt.After(anns[j].CreatedAt) })
	return anns, nil
}

func (repo *announceRepository) GetAnnouncementByID(id int) (announce.Announcement, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if ann, ok := repo.db.table[id]; ok {
		return *ann, nil
	}
	return announce.Announcement{}, announce.ErrNotFound
}

func (repo *announceRepository) DeleteAnnouncement(id int) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[id]; !ok {
		return announce.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
