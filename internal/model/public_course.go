package model

// PublicCourse 全校课程表 — 对应 public_courses
// 教务导入的课程模板，课表项通过 source_id 关联到这里
type PublicCourse struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"                  json:"id"`
	SemesterID   int64   `gorm:"not null"                                  json:"semester_id"`
	CourseName   string  `gorm:"type:varchar(100);not null"                json:"course_name"`
	TeacherName  string  `gorm:"type:varchar(50);not null"                 json:"teacher_name"`
	TeacherID    *string `gorm:"type:varchar(32)"                          json:"teacher_id,omitempty"`
	Location     string  `gorm:"type:varchar(100);not null"                json:"location"`
	DayOfWeek    int     `gorm:"type:smallint;not null"                    json:"day_of_week"` // 1-7
	StartSection int     `gorm:"type:smallint;not null"                    json:"start_section"`
	EndSection   int     `gorm:"type:smallint;not null"                    json:"end_section"`
	WeeksRange   WeekSet `gorm:"type:int[];not null"                       json:"weeks_range"`
	Type         string  `gorm:"type:varchar(20);not null;default:'required'" json:"type"` // required | elective | pe | ...
	Credits      *int    `json:"credits,omitempty"`
	Description  *string `gorm:"type:text"                                 json:"description,omitempty"`
	BaseModel

	// 关联
	Semester *Semester `gorm:"foreignKey:SemesterID" json:"semester,omitempty"`
}

// TableName 指定表名
func (PublicCourse) TableName() string { return "public_courses" }
