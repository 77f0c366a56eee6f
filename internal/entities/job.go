package entities

import "time"

type Job struct {
	ID               uint    `gorm:"primaryKey"`
	JobID            string  `gorm:"size:50;not null;uniqueIndex"`
	JobName          string  `gorm:"size:100;not null"`
	SalaryDesc       *string `gorm:"size:50"`
	JobExperience    *string `gorm:"size:50"`
	JobDegree        *string `gorm:"size:50"`
	CityName         *string `gorm:"size:50"`
	CityCode         *string `gorm:"size:20"`
	AreaDistrict     *string `gorm:"size:50"`
	BusinessDistrict *string `gorm:"size:50"`
	Lid              *string `gorm:"size:100"`
	ItemID           *int
	SecurityID       *string `gorm:"size:255"`
	JobType          int     `gorm:"default:0"`
	ProxyJob         int     `gorm:"default:0"`
	Anonymous        int     `gorm:"default:0"`
	Outland          int     `gorm:"default:0"`
	Longitude        *float64
	Latitude         *float64
	IsShield         int     `gorm:"default:0"`
	ShowTopPosition  int     `gorm:"default:0"`
	AtsDirectPost    int     `gorm:"default:0"`
	DaysPerWeekDesc  *string `gorm:"size:50"`
	LeastMonthDesc   *string `gorm:"size:50"`
	Optimal          int     `gorm:"default:0"`
	SearchTerm       *string `gorm:"size:100"`
	PageNumber       *int
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

type JobLabel struct {
	ID        uint   `gorm:"primaryKey"`
	JobID     string `gorm:"size:50;not null;index"`
	Label     string `gorm:"size:50;not null"`
	CreatedAt time.Time
}

type JobSkill struct {
	ID        uint   `gorm:"primaryKey"`
	JobID     string `gorm:"size:50;not null;index"`
	Skill     string `gorm:"size:50;not null"`
	CreatedAt time.Time
}

type JobIconFlag struct {
	ID        uint   `gorm:"primaryKey"`
	JobID     string `gorm:"size:50;not null;index"`
	IconFlag  int    `gorm:"not null"`
	CreatedAt time.Time
}

type IconPosition string

const (
	IconBefore IconPosition = "before"
	IconAfter  IconPosition = "after"
)

// NameIcon is an icon rendered before or after a job title.
type NameIcon struct {
	ID        uint         `gorm:"primaryKey"`
	JobID     string       `gorm:"size:50;not null;index"`
	IconURL   string       `gorm:"type:text;not null"`
	Position  IconPosition `gorm:"size:10;not null"`
	CreatedAt time.Time
}

// JobCompanyRecruiter links a job to the company and recruiter it was posted by.
type JobCompanyRecruiter struct {
	ID        uint    `gorm:"primaryKey"`
	JobID     string  `gorm:"size:50;not null;uniqueIndex"`
	BrandID   *string `gorm:"size:50;index"`
	BossID    *string `gorm:"size:50;index"`
	CreatedAt time.Time
}
