package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/dto"
	"github.com/silenter1100/campus-backend/internal/model"
	"github.com/silenter1100/campus-backend/internal/repository"
	"github.com/silenter1100/campus-backend/pkg/redis"
)

// CourseService 学期与全校课程查询接口（只读）
type CourseService interface {
	ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error)
	GetCurrentSemester(ctx context.Context) (*dto.SemesterResponse, error)
	// ListCourses 按条件分页查询全校课程，返回当前页与总数
	ListCourses(ctx context.Context, req *dto.CourseListRequest) ([]dto.PublicCourseResponse, int64, error)
}

type courseService struct {
	repo   *repository.Repository
	rdb    *redis.Client // 可为 nil：缓存降级为直查数据库
	logger *zap.Logger
}

// NewCourseService 创建 CourseService 实例
func NewCourseService(repo *repository.Repository, rdb *redis.Client, logger *zap.Logger) CourseService {
	return &courseService{repo: repo, rdb: rdb, logger: logger}
}

const (
	currentSemesterCacheKey = "semester:current"
	currentSemesterCacheTTL = 5 * time.Minute
)

func (s *courseService) ListSemesters(ctx context.Context) ([]dto.SemesterResponse, error) {
	semesters, err := s.repo.Semester.List(ctx)
	if err != nil {
		s.logger.Error("查询学期列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.SemesterResponse, 0, len(semesters))
	for i := range semesters {
		result = append(result, *semesterToResponse(&semesters[i]))
	}
	return result, nil
}

func (s *courseService) GetCurrentSemester(ctx context.Context) (*dto.SemesterResponse, error) {
	// 当前学期变更频率极低，短 TTL 缓存即可挡掉绝大多数查询
	if s.rdb != nil {
		if b, err := s.rdb.GetCache(ctx, currentSemesterCacheKey); err == nil && b != nil {
			var cached dto.SemesterResponse
			if json.Unmarshal(b, &cached) == nil {
				return &cached, nil
			}
		}
	}

	semester, err := s.repo.Semester.GetCurrent(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		s.logger.Error("查询当前学期失败", zap.Error(err))
		return nil, err
	}

	resp := semesterToResponse(semester)

	if s.rdb != nil {
		if b, err := json.Marshal(resp); err == nil {
			if err := s.rdb.SetCache(ctx, currentSemesterCacheKey, b, currentSemesterCacheTTL); err != nil {
				s.logger.Warn("写入当前学期缓存失败", zap.Error(err))
			}
		}
	}

	return resp, nil
}

func (s *courseService) ListCourses(ctx context.Context, req *dto.CourseListRequest) ([]dto.PublicCourseResponse, int64, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 20
	}

	courses, total, err := s.repo.PublicCourse.Search(ctx, repository.CourseFilter{
		SemesterID: req.SemesterID,
		Name:       req.Name,
		Teacher:    req.Teacher,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		s.logger.Error("查询课程列表失败", zap.Error(err))
		return nil, 0, err
	}

	result := make([]dto.PublicCourseResponse, 0, len(courses))
	for i := range courses {
		result = append(result, *courseToResponse(&courses[i]))
	}
	return result, total, nil
}

// ── 内部辅助 ──

const dateLayout = "2006-01-02"

func semesterToResponse(semester *model.Semester) *dto.SemesterResponse {
	return &dto.SemesterResponse{
		ID:        semester.ID,
		Name:      semester.Name,
		StartDate: semester.StartDate.Format(dateLayout),
		EndDate:   semester.EndDate.Format(dateLayout),
		IsCurrent: semester.IsCurrent,
	}
}

func courseToResponse(course *model.PublicCourse) *dto.PublicCourseResponse {
	return &dto.PublicCourseResponse{
		ID:           course.ID,
		CourseName:   course.CourseName,
		TeacherName:  course.TeacherName,
		TeacherID:    course.TeacherID,
		Location:     course.Location,
		DayOfWeek:    course.DayOfWeek,
		StartSection: course.StartSection,
		EndSection:   course.EndSection,
		WeeksRange:   course.WeeksRange,
		Type:         course.Type,
		Credits:      course.Credits,
		Description:  course.Description,
	}
}
