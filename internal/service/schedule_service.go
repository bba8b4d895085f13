package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/dto"
	"github.com/silenter1100/campus-backend/internal/model"
	"github.com/silenter1100/campus-backend/internal/repository"
)

// ── 课表模块业务错误 ──

var (
	ErrSemesterNotFound     = errors.New("学期不存在")
	ErrScheduleItemNotFound = errors.New("课表项不存在")
	ErrTimeConflict         = errors.New("课程时间冲突")
)

// ScheduleService 个人课表业务接口
//
// 批量添加采用逐项提交语义：每个候选项独立完成
// 结构校验 → 冲突检测 → 入库，失败只影响自身，
// 已入库的项不随后续失败回滚。
type ScheduleService interface {
	// AddItems 批量添加课表项，按提交顺序逐项处理
	AddItems(ctx context.Context, userID string, req *dto.AddScheduleItemsRequest) (*dto.BatchAddResult, error)
	// UpdateItem 部分更新单个课表项（重新校验合并后的完整记录）
	UpdateItem(ctx context.Context, userID string, itemID int64, req *dto.UpdateScheduleItemRequest) (*dto.ScheduleItemResponse, error)
	// DeleteItem 删除课表项，范围限定为 (id, user)
	DeleteItem(ctx context.Context, userID string, itemID int64) error
	// ListItems 查询用户课表，按星期几、开始节次排序
	ListItems(ctx context.Context, userID string, req *dto.ScheduleListRequest) ([]dto.ScheduleItemResponse, error)
	// ImportICS 从 iCalendar 订阅地址导入课表，复用批量添加路径
	ImportICS(ctx context.Context, userID string, req *dto.ImportScheduleRequest) (*dto.BatchAddResult, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger

	// 按 (user, semester) 串行化"冲突检测→写入"窗口，
	// 防止并发请求各自通过过期读取的冲突检测后同时落库
	locks sync.Map // key "userID:semesterID" → *sync.Mutex
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) lockFor(userID string, semesterID int64) *sync.Mutex {
	key := fmt.Sprintf("%s:%d", userID, semesterID)
	mu, _ := s.locks.LoadOrStore(key, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// ────────────────────── 冲突检测 ──────────────────────

// hasConflict 判断候选项是否与该用户该学期的已有课表项冲突。
// excludeID 非 nil 时跳过对应项（更新路径：不与旧版本的自己比较）；
// accepted 为同批次中已入库的项，使后续候选也能感知批内冲突。
// 只读，不产生新的错误类型，存储错误原样向上传递。
func (s *scheduleService) hasConflict(
	ctx context.Context,
	userID string,
	semesterID int64,
	candidate *model.ScheduleItem,
	excludeID *int64,
	accepted []*model.ScheduleItem,
) (bool, error) {
	// 存储层按星期预筛只是优化；正确性只依赖
	// "同 (user, semester, day) 的项都被纳入比较"
	persisted, err := s.repo.ScheduleItem.ListByUserAndSemester(ctx, userID, semesterID, &candidate.DayOfWeek)
	if err != nil {
		return false, err
	}

	for i := range persisted {
		if excludeID != nil && persisted[i].ID == *excludeID {
			continue
		}
		if candidate.ConflictsWith(&persisted[i]) {
			return true, nil
		}
	}

	for _, item := range accepted {
		if candidate.ConflictsWith(item) {
			return true, nil
		}
	}

	return false, nil
}

// ────────────────────── AddItems ──────────────────────

func (s *scheduleService) AddItems(ctx context.Context, userID string, req *dto.AddScheduleItemsRequest) (*dto.BatchAddResult, error) {
	// 校验学期存在，避免向未知学期写入
	if _, err := s.repo.Semester.GetByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int64("semester_id", req.SemesterID), zap.Error(err))
		return nil, err
	}

	mu := s.lockFor(userID, req.SemesterID)
	mu.Lock()
	defer mu.Unlock()

	result := &dto.BatchAddResult{
		SuccessfulItems: make([]dto.ScheduleItemResponse, 0, len(req.Items)),
		FailedItems:     make([]dto.FailedItem, 0),
	}
	var accepted []*model.ScheduleItem

	for i := range req.Items {
		input := &req.Items[i]
		item := inputToItem(input, userID, req.SemesterID)

		// 1. 结构校验
		if err := item.ValidateShape(); err != nil {
			result.FailedItems = append(result.FailedItems, dto.FailedItem{
				CourseName:   input.CourseName,
				ErrorMessage: err.Error(),
			})
			continue
		}

		// 2. 冲突检测（已入库项 ∪ 本批次已接受项）
		conflict, err := s.hasConflict(ctx, userID, req.SemesterID, item, nil, accepted)
		if err != nil {
			s.logger.Error("检查时间冲突失败",
				zap.String("user_id", userID),
				zap.String("course_name", input.CourseName),
				zap.Error(err))
			result.FailedItems = append(result.FailedItems, dto.FailedItem{
				CourseName:   input.CourseName,
				ErrorMessage: fmt.Sprintf("检查冲突失败: %v", err),
			})
			continue
		}
		if conflict {
			result.FailedItems = append(result.FailedItems, dto.FailedItem{
				CourseName:   input.CourseName,
				ErrorMessage: ErrTimeConflict.Error(),
			})
			continue
		}

		// 3. 单条入库，失败只影响当前项
		if err := s.repo.ScheduleItem.Create(ctx, item); err != nil {
			s.logger.Error("插入课表项失败",
				zap.String("user_id", userID),
				zap.String("course_name", input.CourseName),
				zap.Error(err))
			result.FailedItems = append(result.FailedItems, dto.FailedItem{
				CourseName:   input.CourseName,
				ErrorMessage: fmt.Sprintf("数据库插入失败: %v", err),
			})
			continue
		}

		accepted = append(accepted, item)
		result.SuccessfulItems = append(result.SuccessfulItems, *itemToResponse(item))
	}

	return result, nil
}

// ────────────────────── UpdateItem ──────────────────────

func (s *scheduleService) UpdateItem(ctx context.Context, userID string, itemID int64, req *dto.UpdateScheduleItemRequest) (*dto.ScheduleItemResponse, error) {
	existing, err := s.repo.ScheduleItem.GetByIDAndUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScheduleItemNotFound
		}
		s.logger.Error("查询课表项失败", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, err
	}

	mu := s.lockFor(userID, existing.SemesterID)
	mu.Lock()
	defer mu.Unlock()

	// 合并补丁后对完整记录重新校验（不变量只对合并后的值成立才有意义）
	merged := mergeItem(existing, req)

	if err := merged.ValidateShape(); err != nil {
		return nil, err
	}

	conflict, err := s.hasConflict(ctx, userID, merged.SemesterID, merged, &itemID, nil)
	if err != nil {
		s.logger.Error("检查时间冲突失败", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, fmt.Errorf("检查冲突失败: %w", err)
	}
	if conflict {
		return nil, ErrTimeConflict
	}

	if err := s.repo.ScheduleItem.Update(ctx, merged); err != nil {
		s.logger.Error("更新课表项失败", zap.Int64("item_id", itemID), zap.Error(err))
		return nil, fmt.Errorf("更新课表项失败: %w", err)
	}

	return itemToResponse(merged), nil
}

// ────────────────────── DeleteItem ──────────────────────

func (s *scheduleService) DeleteItem(ctx context.Context, userID string, itemID int64) error {
	affected, err := s.repo.ScheduleItem.Delete(ctx, itemID, userID)
	if err != nil {
		s.logger.Error("删除课表项失败", zap.Int64("item_id", itemID), zap.Error(err))
		return fmt.Errorf("删除课表项失败: %w", err)
	}
	// 不存在与归属他人对调用方不可区分，避免泄露归属信息
	if affected == 0 {
		return ErrScheduleItemNotFound
	}
	return nil
}

// ────────────────────── ListItems ──────────────────────

func (s *scheduleService) ListItems(ctx context.Context, userID string, req *dto.ScheduleListRequest) ([]dto.ScheduleItemResponse, error) {
	if _, err := s.repo.Semester.GetByID(ctx, req.SemesterID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Int64("semester_id", req.SemesterID), zap.Error(err))
		return nil, err
	}

	var items []model.ScheduleItem
	var err error
	if req.Week != nil {
		items, err = s.repo.ScheduleItem.ListForWeek(ctx, userID, req.SemesterID, *req.Week)
	} else {
		items, err = s.repo.ScheduleItem.ListByUserAndSemester(ctx, userID, req.SemesterID, nil)
	}
	if err != nil {
		s.logger.Error("查询课表失败", zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}

	result := make([]dto.ScheduleItemResponse, 0, len(items))
	for i := range items {
		result = append(result, *itemToResponse(&items[i]))
	}
	return result, nil
}

// ── 内部辅助 ──

const defaultColorHex = "#3B82F6"

// inputToItem 将批量添加的候选项转为实体（未分配 ID）
func inputToItem(input *dto.ScheduleItemInput, userID string, semesterID int64) *model.ScheduleItem {
	colorHex := input.ColorHex
	if colorHex == "" {
		colorHex = defaultColorHex
	}
	return &model.ScheduleItem{
		UserID:       userID,
		SemesterID:   semesterID,
		SourceID:     input.SourceID,
		CourseName:   input.CourseName,
		TeacherName:  input.TeacherName,
		Location:     input.Location,
		DayOfWeek:    input.DayOfWeek,
		StartSection: input.StartSection,
		EndSection:   input.EndSection,
		WeeksRange:   model.WeekSet(input.Weeks),
		Type:         input.Type,
		Credits:      input.Credits,
		Description:  input.Description,
		ColorHex:     colorHex,
		IsCustom:     input.IsCustom,
	}
}

// mergeItem 以"补丁字段优先，缺省保留旧值"合并出新的完整记录。
// 不修改 existing；is_custom 与 source_id 不可通过补丁变更。
func mergeItem(existing *model.ScheduleItem, patch *dto.UpdateScheduleItemRequest) *model.ScheduleItem {
	merged := *existing

	if patch.CourseName != nil {
		merged.CourseName = *patch.CourseName
	}
	if patch.TeacherName != nil {
		merged.TeacherName = patch.TeacherName
	}
	if patch.Location != nil {
		merged.Location = patch.Location
	}
	if patch.DayOfWeek != nil {
		merged.DayOfWeek = *patch.DayOfWeek
	}
	if patch.StartSection != nil {
		merged.StartSection = *patch.StartSection
	}
	if patch.EndSection != nil {
		merged.EndSection = *patch.EndSection
	}
	if patch.Weeks != nil {
		merged.WeeksRange = model.WeekSet(*patch.Weeks)
	}
	if patch.Type != nil {
		merged.Type = patch.Type
	}
	if patch.Credits != nil {
		merged.Credits = patch.Credits
	}
	if patch.Description != nil {
		merged.Description = patch.Description
	}
	if patch.ColorHex != nil {
		merged.ColorHex = *patch.ColorHex
	}

	return &merged
}

func itemToResponse(item *model.ScheduleItem) *dto.ScheduleItemResponse {
	return &dto.ScheduleItemResponse{
		ID:           item.ID,
		SourceID:     item.SourceID,
		CourseName:   item.CourseName,
		TeacherName:  item.TeacherName,
		Location:     item.Location,
		DayOfWeek:    item.DayOfWeek,
		StartSection: item.StartSection,
		EndSection:   item.EndSection,
		WeeksRange:   item.WeeksRange,
		Type:         item.Type,
		Credits:      item.Credits,
		Description:  item.Description,
		ColorHex:     item.ColorHex,
		IsCustom:     item.IsCustom,
	}
}
