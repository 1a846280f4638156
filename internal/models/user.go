package models

import (
	"errors"

	"gorm.io/gorm"
)

var ErrMissingCredential = errors.New("user needs a password or an external identity")

type User struct {
	BaseModel
	Name         string     `json:"name" gorm:"type:varchar(255);not null"`
	Email        string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash *string    `json:"-" gorm:"type:text"`
	GoogleID     *string    `json:"-" gorm:"type:varchar(255);uniqueIndex"`
	AvatarURL    *string    `json:"avatar,omitempty" gorm:"type:text"`
	IsAdmin      bool       `json:"isAdmin" gorm:"not null;default:false"`
	Properties   []Property `json:"-" gorm:"foreignKey:OwnerID"`
}

func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

func (u *User) HasExternalIdentity() bool {
	return u.GoogleID != nil && *u.GoogleID != ""
}

func (u *User) BeforeSave(_ *gorm.DB) error {
	if !u.HasPassword() && !u.HasExternalIdentity() {
		return ErrMissingCredential
	}
	return nil
}
