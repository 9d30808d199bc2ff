package models

import (
	"time"

	"github.com/bugie-app/bugie-backend/pkg/enums"
)

// Profile shares its id with the owning User.
type Profile struct {
	ID        string         `gorm:"column:id;type:text;primaryKey"`
	Email     string         `gorm:"column:email;type:text;not null"`
	FullName  *string        `gorm:"column:full_name"`
	AvatarURL *string        `gorm:"column:avatar_url"`
	Currency  enums.Currency `gorm:"column:currency;type:text;not null;default:KRW"`
	Timezone  string         `gorm:"column:timezone;type:text;not null;default:Asia/Seoul"`
	IsDeleted bool           `gorm:"column:is_deleted;not null;default:false"`
	DeletedAt *time.Time     `gorm:"column:deleted_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
