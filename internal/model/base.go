package model

import (
	"time"

	"gorm.io/gorm"
)

// BaseModel defines the common columns shared by every persisted entity:
// an auto-incrementing primary key, audit timestamps, the audit actor
// columns and the soft-delete flag.
type BaseModel struct {
	ID        uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"type:timestamptz;column:created_at;not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamptz;column:updated_at;not null" json:"updatedAt"`
	CreatedBy string    `gorm:"type:varchar(100);column:created_by" json:"createdBy,omitempty"`
	UpdatedBy string    `gorm:"type:varchar(100);column:updated_by" json:"updatedBy,omitempty"`
	IsDeleted bool      `gorm:"type:boolean;column:is_deleted;not null;default:false" json:"-"`
}

// BeforeCreate is a GORM hook that is triggered before a new record is created.
func (base *BaseModel) BeforeCreate(tx *gorm.DB) (err error) {
	now := time.Now().UTC()
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now
	return
}

// BeforeUpdate is a GORM hook that is triggered before an existing record is updated.
func (base *BaseModel) BeforeUpdate(tx *gorm.DB) (err error) {
	base.UpdatedAt = time.Now().UTC()
	return
}

// Active is a GORM scope that excludes soft-deleted rows. Every read path must
// apply it; soft-deleted rows are kept for audit only and never participate in
// queries, counts or step-order computation.
func Active(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false)
}
