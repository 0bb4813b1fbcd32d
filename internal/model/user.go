package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account holder.
type User struct {
	ID             uuid.UUID `json:"user_id" gorm:"column:user_id;type:char(36);primaryKey"`
	Name           *string   `json:"name" gorm:"column:name;size:255"`
	UserName       string    `json:"user_name" gorm:"column:user_name;size:255;not null"`
	Email          string    `json:"email" gorm:"column:email;uniqueIndex;size:255;not null"`
	HashedPassword string    `json:"-" gorm:"column:hashed_password;size:255;not null"` // Never expose in JSON
	ProfilePhoto   *string   `json:"profile_photo" gorm:"column:profile_photo;size:1024"`
	Bio            *string   `json:"bio" gorm:"column:bio;type:text"`
	Address        *string   `json:"address" gorm:"column:address;size:512"`
	Qualification  *string   `json:"qualification" gorm:"column:qualification;size:512"`
	Skills         *string   `json:"skills" gorm:"column:skills;type:text"`
	Gender         *string   `json:"gender" gorm:"column:gender;size:64"`
	CreatedAt      time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt      time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// TableName pins the table created by the migrations.
func (User) TableName() string {
	return "users"
}

// BeforeCreate sets the identifier before inserting the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
