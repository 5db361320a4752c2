package services

import (
	"context"

	"munaybol/errors"
	"munaybol/models"
	"munaybol/repository"

	"gorm.io/gorm"
)

// SetLifecycle is the one disable/enable operation shared by every soft-deletable entity
func SetLifecycle(ctx context.Context, db *gorm.DB, entity models.Disableable, id interface{}, l models.Lifecycle) error {
	var count int64
	if err := db.WithContext(ctx).Model(entity).Scopes(repository.ByID(entity, id)).Count(&count).Error; err != nil {
		return errors.DB(err)
	}
	if count == 0 {
		return errors.NotFound("No encontrado.")
	}
	err := db.WithContext(ctx).Model(entity).
		Scopes(repository.ByID(entity, id)).
		Update(entity.LifecycleColumn(), l).Error
	if err != nil {
		return errors.DB(err)
	}
	return nil
}
