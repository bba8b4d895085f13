package service

import (
	"go.uber.org/zap"

	"github.com/silenter1100/campus-backend/internal/repository"
	"github.com/silenter1100/campus-backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Course   CourseService
	Schedule ScheduleService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	repo *repository.Repository,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	return &Service{
		Course:   NewCourseService(repo, rdb, logger),
		Schedule: NewScheduleService(repo, logger),
		Export:   NewExportService(repo, logger),
	}
}
