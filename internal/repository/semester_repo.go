package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/model"
)

// SemesterRepository 学期数据访问接口（本服务只读）
type SemesterRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Semester, error)
	GetCurrent(ctx context.Context) (*model.Semester, error)
	List(ctx context.Context) ([]model.Semester, error)
}

type semesterRepo struct {
	db *gorm.DB
}

// NewSemesterRepo 创建 SemesterRepository 实例
func NewSemesterRepo(db *gorm.DB) SemesterRepository {
	return &semesterRepo{db: db}
}

func (r *semesterRepo) GetByID(ctx context.Context, id int64) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) GetCurrent(ctx context.Context) (*model.Semester, error) {
	var semester model.Semester
	err := r.db.WithContext(ctx).
		Where("is_current = ?", true).
		First(&semester).Error
	if err != nil {
		return nil, err
	}
	return &semester, nil
}

func (r *semesterRepo) List(ctx context.Context) ([]model.Semester, error) {
	var semesters []model.Semester
	err := r.db.WithContext(ctx).
		Order("is_current DESC, start_date DESC").
		Find(&semesters).Error
	return semesters, err
}
