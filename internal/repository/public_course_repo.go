package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/model"
)

// CourseFilter 课程列表筛选条件
type CourseFilter struct {
	SemesterID *int64
	Name       *string
	Teacher    *string
	Page       int
	PageSize   int
}

// PublicCourseRepository 全校课程数据访问接口（教务导入，本服务只读）
type PublicCourseRepository interface {
	GetByID(ctx context.Context, id int64) (*model.PublicCourse, error)
	// Search 按条件分页查询，返回当前页数据与总数
	Search(ctx context.Context, filter CourseFilter) ([]model.PublicCourse, int64, error)
}

type publicCourseRepo struct {
	db *gorm.DB
}

// NewPublicCourseRepo 创建 PublicCourseRepository 实例
func NewPublicCourseRepo(db *gorm.DB) PublicCourseRepository {
	return &publicCourseRepo{db: db}
}

func (r *publicCourseRepo) GetByID(ctx context.Context, id int64) (*model.PublicCourse, error) {
	var course model.PublicCourse
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		return nil, err
	}
	return &course, nil
}

func (r *publicCourseRepo) Search(ctx context.Context, filter CourseFilter) ([]model.PublicCourse, int64, error) {
	query := r.db.WithContext(ctx).Model(&model.PublicCourse{})

	if filter.SemesterID != nil {
		query = query.Where("semester_id = ?", *filter.SemesterID)
	}
	if filter.Name != nil {
		query = query.Where("course_name LIKE ?", "%"+*filter.Name+"%")
	}
	if filter.Teacher != nil {
		query = query.Where("teacher_name LIKE ?", "%"+*filter.Teacher+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.PublicCourse
	err := query.
		Order("id DESC").
		Offset((filter.Page - 1) * filter.PageSize).
		Limit(filter.PageSize).
		Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}
