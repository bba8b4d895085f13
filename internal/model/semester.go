package model

import "time"

// Semester 学期表 — 对应 semesters
// 由教务管理流程创建和归档，本服务只读
type Semester struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"   json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	StartDate time.Time `gorm:"type:date;not null"         json:"start_date"`
	EndDate   time.Time `gorm:"type:date;not null"         json:"end_date"`
	IsCurrent bool      `gorm:"not null;default:false"     json:"is_current"`
	BaseModel
}

// TableName 指定表名
func (Semester) TableName() string { return "semesters" }
