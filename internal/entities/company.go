package entities

import "time"

type Company struct {
	ID             uint    `gorm:"primaryKey"`
	BrandID        string  `gorm:"size:50;uniqueIndex"`
	BrandName      *string `gorm:"size:100"`
	BrandLogo      *string `gorm:"type:text"`
	BrandStageName *string `gorm:"size:50"`
	BrandIndustry  *string `gorm:"size:100"`
	IndustryCode   *int
	BrandScaleName *string `gorm:"size:50"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type CompanyWelfare struct {
	ID        uint   `gorm:"primaryKey"`
	JobID     string `gorm:"size:50;not null;index"`
	Welfare   string `gorm:"size:50;not null"`
	CreatedAt time.Time
}

type Recruiter struct {
	ID         uint    `gorm:"primaryKey"`
	BossID     string  `gorm:"size:50;not null;uniqueIndex"`
	BossName   *string `gorm:"size:50"`
	BossTitle  *string `gorm:"size:100"`
	BossAvatar *string `gorm:"type:text"`
	BossCert   *int
	GoldHunter *int
	BossOnline int `gorm:"default:0"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
