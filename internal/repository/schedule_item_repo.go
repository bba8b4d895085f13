package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/model"
)

// ScheduleItemRepository 个人课表数据访问接口
//
// 本接口仅由 ScheduleService（冲突检测 + 批量提交）持有，
// 其他组件不得直接访问课表存储。
type ScheduleItemRepository interface {
	// GetByIDAndUser 按 (id, user) 查询；归属其他用户时与不存在同样返回 ErrRecordNotFound
	GetByIDAndUser(ctx context.Context, id int64, userID string) (*model.ScheduleItem, error)
	// ListByUserAndSemester 查询用户某学期的全部课表项，
	// dayOfWeek 非 nil 时在存储层按星期预筛（冲突检测的优化路径）
	ListByUserAndSemester(ctx context.Context, userID string, semesterID int64, dayOfWeek *int) ([]model.ScheduleItem, error)
	// ListForWeek 查询用户某学期指定周的课表项
	ListForWeek(ctx context.Context, userID string, semesterID int64, week int) ([]model.ScheduleItem, error)
	Create(ctx context.Context, item *model.ScheduleItem) error
	Update(ctx context.Context, item *model.ScheduleItem) error
	// Delete 删除范围限定为 (id, user)，返回受影响行数
	Delete(ctx context.Context, id int64, userID string) (int64, error)
}

type scheduleItemRepo struct {
	db *gorm.DB
}

// NewScheduleItemRepo 创建 ScheduleItemRepository 实例
func NewScheduleItemRepo(db *gorm.DB) ScheduleItemRepository {
	return &scheduleItemRepo{db: db}
}

func (r *scheduleItemRepo) GetByIDAndUser(ctx context.Context, id int64, userID string) (*model.ScheduleItem, error) {
	var item model.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *scheduleItemRepo) ListByUserAndSemester(ctx context.Context, userID string, semesterID int64, dayOfWeek *int) ([]model.ScheduleItem, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ? AND semester_id = ?", userID, semesterID)
	if dayOfWeek != nil {
		query = query.Where("day_of_week = ?", *dayOfWeek)
	}

	var items []model.ScheduleItem
	err := query.
		Order("day_of_week ASC, start_section ASC").
		Find(&items).Error
	return items, err
}

func (r *scheduleItemRepo) ListForWeek(ctx context.Context, userID string, semesterID int64, week int) ([]model.ScheduleItem, error) {
	var items []model.ScheduleItem
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND semester_id = ?", userID, semesterID).
		Where("weeks_range @> ?", model.WeekSet{week}).
		Order("day_of_week ASC, start_section ASC").
		Find(&items).Error
	return items, err
}

func (r *scheduleItemRepo) Create(ctx context.Context, item *model.ScheduleItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *scheduleItemRepo) Update(ctx context.Context, item *model.ScheduleItem) error {
	return r.db.WithContext(ctx).Save(item).Error
}

func (r *scheduleItemRepo) Delete(ctx context.Context, id int64, userID string) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&model.ScheduleItem{})
	return result.RowsAffected, result.Error
}
