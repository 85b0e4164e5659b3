package repository

import (
	"context"

	"videohub/internal/microservices/http-api/models"

	"gorm.io/gorm"
)

type VerificationRepository interface {
	// CreateWithVerification inserts the user and its verification in one
	// transaction, so a failed verification insert leaves no user behind.
	CreateWithVerification(ctx context.Context, user *models.User, v *models.Verification) error
	FindByUUID(ctx context.Context, uuid string) (*models.Verification, error)
	// Activate flips the user to active and consumes the verification in one transaction.
	Activate(ctx context.Context, v *models.Verification) error
}

type verificationRepository struct {
	db *gorm.DB
}

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) CreateWithVerification(ctx context.Context, user *models.User, v *models.Verification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		v.UserID = user.ID
		return tx.Create(v).Error
	})
}

func (r *verificationRepository) FindByUUID(ctx context.Context, uuid string) (*models.Verification, error) {
	var v models.Verification
	if err := r.db.WithContext(ctx).Preload("User").Where("uuid = ?", uuid).First(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *verificationRepository) Activate(ctx context.Context, v *models.Verification) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", v.UserID).Update("is_active", true).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Verification{}, v.ID).Error
	})
}
