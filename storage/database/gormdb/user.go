package gormdb

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/trezcool/darasa/core/user"
)

type userRepository struct {
	db *gorm.DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

func (repo *userRepository) CheckUsernameUniqueness(username, email string, excludedUsers ...user.User) error {
	exclIDs := make([]int, 0, len(excludedUsers))
	for _, usr := range excludedUsers {
		exclIDs = append(exclIDs, usr.ID)
	}

	count := func(cond string, val string) (int64, error) {
		q := repo.db.Model(&userRow{}).Where(cond, val)
		if len(exclIDs) > 0 {
			q = q.Where("id NOT IN ?", exclIDs)
		}
		var n int64
		err := q.Count(&n).Error
		return n, err
	}

	n, err := count("username = ?", username)
	if err != nil {
		return errors.Wrap(err, "checking username")
	}
	if n > 0 {
		return user.ErrUsernameExists
	}
	if email != "" {
		if n, err = count("email = ?", email); err != nil {
			return errors.Wrap(err, "checking email")
		}
		if n > 0 {
			return user.ErrEmailExists
		}
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	row := userToRow(usr)
	row.ID = 0
	if err := repo.db.Create(&row).Error; err != nil {
		return user.User{}, errors.Wrap(err, "creating user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) QueryAllUsers() ([]user.User, error) {
	var rows []userRow
	if err := repo.db.Order("id").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	users := make([]user.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toUser())
	}
	return users, nil
}

func (repo *userRepository) QueryUsersByRole(rolePrefix string) ([]user.User, error) {
	all, err := repo.QueryAllUsers()
	if err != nil {
		return nil, err
	}
	var users []user.User
	for _, usr := range all {
		if usr.RoleStartsWith(rolePrefix) {
			users = append(users, usr)
		}
	}
	return users, nil
}

func (repo *userRepository) GetUserByID(id int) (user.User, error) {
	var row userRow
	if err := repo.db.First(&row, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) GetUserByUsername(username string) (user.User, error) {
	return repo.getUserWhere("username = ?", username)
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	return repo.getUserWhere("email = ?", email)
}

func (repo *userRepository) GetUserByUsernameOrEmail(username string) (user.User, error) {
	return repo.getUserWhere("username = ? OR email = ?", username, username)
}

func (repo *userRepository) getUserWhere(cond string, args ...interface{}) (user.User, error) {
	var row userRow
	if err := repo.db.Where(cond, args...).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "getting user")
	}
	return row.toUser(), nil
}

func (repo *userRepository) UpdateUser(usr user.User, isActive *bool) (user.User, error) {
	var row userRow
	err := repo.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&row, usr.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return user.ErrNotFound
			}
			return errors.Wrap(err, "getting user")
		}
		// only save set fields
		if usr.Roles != nil {
			row.Roles = userToRow(usr).Roles
		}
		if usr.PasswordHash != nil {
			row.PasswordHash = usr.PasswordHash
		}
		if isActive != nil {
			row.IsActive = *isActive
		}
		row.Name = usr.Name
		row.Username = usr.Username
		row.Email = usr.Email
		row.UpdatedAt = usr.UpdatedAt
		if !usr.LastLogin.IsZero() {
			row.LastLogin = usr.LastLogin
		}
		return errors.Wrap(tx.Save(&row).Error, "updating user")
	})
	if err != nil {
		return user.User{}, err
	}
	return row.toUser(), nil
}

func (repo *userRepository) DeleteUsersByID(ids ...int) error {
	if len(ids) == 0 {
		return nil
	}
	return errors.Wrap(repo.db.Delete(&userRow{}, ids).Error, "deleting users")
}
