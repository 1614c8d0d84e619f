package model

import "time"

// Favorite is a user_favorites row. Exactly one of PackageID and
// LocalPackageID is expected to be set; rows with neither are ignored on read.
type Favorite struct {
	ID             int64     `gorm:"column:id;primaryKey"`
	UserID         string    `gorm:"column:user_id;not null;index"`
	PackageID      *int64    `gorm:"column:package_id"`
	LocalPackageID *int64    `gorm:"column:local_package_id"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`

	PackageInfo      *PackageInfo      `gorm:"foreignKey:PackageID;references:ID"`
	LocalPackageInfo *LocalPackageInfo `gorm:"foreignKey:LocalPackageID;references:ID"`
}

func (Favorite) TableName() string { return "user_favorites" }
