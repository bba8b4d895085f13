package model

import "errors"

// ── 课表项结构校验错误 ──

var (
	ErrInvalidDayOfWeek    = errors.New("星期几必须在 1-7 之间")
	ErrInvalidSectionRange = errors.New("开始节次不能大于结束节次")
	ErrCustomWithSource    = errors.New("自定义课程不能有 source_id")
	ErrSourceRequired      = errors.New("非自定义课程必须有 source_id")
	ErrEmptyWeeks          = errors.New("周次不能为空")
)

// IsShapeError 判断是否为课表项结构校验错误（调用方可修复类）
func IsShapeError(err error) bool {
	return errors.Is(err, ErrInvalidDayOfWeek) ||
		errors.Is(err, ErrInvalidSectionRange) ||
		errors.Is(err, ErrCustomWithSource) ||
		errors.Is(err, ErrSourceRequired) ||
		errors.Is(err, ErrEmptyWeeks)
}

// ScheduleItem 个人课表项 — 对应 schedule_items
//
// 一个课表项是某用户在某学期内的周期性时间占用：
// 星期几 + 节次区间 + 周次集合。同一用户同一学期内
// 任意两个课表项不允许时间冲突（见 ConflictsWith）。
type ScheduleItem struct {
	ID           int64   `gorm:"primaryKey;autoIncrement"       json:"id"`
	UserID       string  `gorm:"type:varchar(64);not null"      json:"-"`
	SemesterID   int64   `gorm:"not null"                       json:"-"`
	SourceID     *int64  `json:"source_id,omitempty"`
	CourseName   string  `gorm:"type:varchar(100);not null"     json:"course_name"`
	TeacherName  *string `gorm:"type:varchar(50)"               json:"teacher_name,omitempty"`
	Location     *string `gorm:"type:varchar(100)"              json:"location,omitempty"`
	DayOfWeek    int     `gorm:"type:smallint;not null"         json:"day_of_week"` // 1-7
	StartSection int     `gorm:"type:smallint;not null"         json:"start_section"`
	EndSection   int     `gorm:"type:smallint;not null"         json:"end_section"`
	WeeksRange   WeekSet `gorm:"type:int[];not null"            json:"weeks_range"`
	Type         *string `gorm:"type:varchar(20)"               json:"type,omitempty"`
	Credits      *int    `json:"credits,omitempty"`
	Description  *string `gorm:"type:text"                      json:"description,omitempty"`
	ColorHex     string  `gorm:"type:varchar(7);not null;default:'#3B82F6'" json:"color_hex"`
	IsCustom     bool    `gorm:"not null;default:false"         json:"is_custom"`
	BaseModel
}

// TableName 指定表名
func (ScheduleItem) TableName() string { return "schedule_items" }

// ── 时间几何谓词（纯函数，不触达存储） ──

// OverlapsSections 判断两个课表项的节次区间是否重叠
func (s *ScheduleItem) OverlapsSections(other *ScheduleItem) bool {
	return s.StartSection <= other.EndSection && other.StartSection <= s.EndSection
}

// IntersectsWeeks 判断两个课表项的周次集合是否有交集
func (s *ScheduleItem) IntersectsWeeks(other *ScheduleItem) bool {
	return s.WeeksRange.Intersects(other.WeeksRange)
}

// ConflictsWith 判断两个课表项是否时间冲突：
// 同一天 且 节次区间重叠 且 周次集合相交
func (s *ScheduleItem) ConflictsWith(other *ScheduleItem) bool {
	return s.DayOfWeek == other.DayOfWeek &&
		s.OverlapsSections(other) &&
		s.IntersectsWeeks(other)
}

// ValidateShape 结构校验，在冲突检测与持久化之前执行。
// 不触达存储，只检查单个课表项自身的不变量。
func (s *ScheduleItem) ValidateShape() error {
	if s.IsCustom && s.SourceID != nil {
		return ErrCustomWithSource
	}
	if !s.IsCustom && s.SourceID == nil {
		return ErrSourceRequired
	}
	if s.StartSection > s.EndSection {
		return ErrInvalidSectionRange
	}
	if s.DayOfWeek < 1 || s.DayOfWeek > 7 {
		return ErrInvalidDayOfWeek
	}
	if len(s.WeeksRange) == 0 {
		return ErrEmptyWeeks
	}
	return nil
}
