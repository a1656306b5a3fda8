package model

import (
	"time"
)

// swagger:model User
type User struct {
	BaseModel
	Username    string     `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email       string     `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password    string     `gorm:"size:100;not null" json:"-"`
	FullName    string     `gorm:"size:100" json:"full_name"`
	AvatarURL   string     `gorm:"size:255" json:"avatar_url"`
	Bio         string     `gorm:"size:500" json:"bio"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	IsSuperuser bool       `gorm:"default:false" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
	LastSeen    *time.Time `json:"last_seen,omitempty"`
}

func (User) TableName() string {
	return "users"
}
