package repository

import (
	"context"

	"github.com/diewo77/medicine-recommendation/internal/models"
)

func (r *Repository) CreateUser(ctx context.Context, u *models.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *Repository) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *Repository) UserExists(ctx context.Context, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *Repository) EmailTaken(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

// UsernameTaken reports whether a user other than exceptID owns username.
func (r *Repository) UsernameTaken(ctx context.Context, username, exceptID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	err := q.Count(&count).Error
	return count > 0, err
}

func (r *Repository) UpdateUsername(ctx context.Context, id, username string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("username", username).Error
}

func (r *Repository) UpdateAvatar(ctx context.Context, id, avatarURL string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Update("avatar_url", avatarURL).Error
}

// DeleteUser removes the user and its history. Callers wanting atomicity
// run it inside Transaction.
func (r *Repository) DeleteUser(ctx context.Context, id string) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("user_id = ?", id).Delete(&models.PredictionHistory{}).Error; err != nil {
		return err
	}
	return db.Where("id = ?", id).Delete(&models.User{}).Error
}
