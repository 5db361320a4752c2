// Package repository holds the query predicates that encode business rules
// (what is visible, what overlaps) independently of the HTTP layer.
package repository

import (
	"munaybol/constants"
	"munaybol/models"
	"munaybol/permissions"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is a reusable gorm query predicate
type Scope = func(*gorm.DB) *gorm.DB

// Active keeps rows whose lifecycle column is Active
func Active(entity models.Disableable) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(entity.LifecycleColumn()+" = ?", models.Active)
	}
}

// VisibleTo hides disabled rows from everyone but superadmins
func VisibleTo(actor permissions.Actor, entity models.Disableable) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsSuperAdmin() {
			return db
		}
		return Active(entity)(db)
	}
}

// LifecycleFilter applies an explicit ?estado= filter, superadmins only
func LifecycleFilter(actor permissions.Actor, entity models.Disableable, flag *bool) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if !actor.IsSuperAdmin() || flag == nil {
			return db
		}
		return db.Where(entity.LifecycleColumn()+" = ?", models.Lifecycle(*flag))
	}
}

// OwnedBy restricts non-admin actors to their own rows
func OwnedBy(actor permissions.Actor, column string) Scope {
	return func(db *gorm.DB) *gorm.DB {
		if actor.IsSuperAdmin() {
			return db
		}
		return db.Where(column+" = ?", actor.UserID)
	}
}

// ByID matches the primary key of entity
func ByID(entity models.Disableable, id interface{}) Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(entity.PrimaryKeyColumn()+" = ?", id)
	}
}

// Paginate applies page/limit with sane bounds
func Paginate(page, limit int) Scope {
	page, limit = NormalizePage(page, limit)
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}

// NormalizePage clamps pagination input
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = constants.DefaultPage
	}
	if limit < 1 {
		limit = constants.DefaultLimit
	}
	if limit > constants.MaxLimit {
		limit = constants.MaxLimit
	}
	return page, limit
}

// SupportsRowLocks reports whether the dialect understands SELECT ... FOR UPDATE
func SupportsRowLocks(db *gorm.DB) bool {
	switch db.Dialector.Name() {
	case "postgres", "mysql":
		return true
	}
	return false
}

// ForUpdate locks the selected rows until the transaction ends, where supported
func ForUpdate(db *gorm.DB) *gorm.DB {
	if SupportsRowLocks(db) {
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}
