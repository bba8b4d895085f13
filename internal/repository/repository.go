package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Semester     SemesterRepository
	PublicCourse PublicCourseRepository
	ScheduleItem ScheduleItemRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Semester:     NewSemesterRepo(db),
		PublicCourse: NewPublicCourseRepo(db),
		ScheduleItem: NewScheduleItemRepo(db),
	}
}
