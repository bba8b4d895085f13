package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/model"
	"github.com/silenter1100/campus-backend/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportEmpty        = errors.New("该学期暂无课表")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 课表导出接口
//
// Excel 格式：单 Sheet，行为节次、列为周一～周日，
// 单元格为 课程名/地点/周次；导出以 bytes.Buffer 返回，
// 由 Handler 层设置响应头后写入 Response
type ExportService interface {
	// ExportTimetable 导出用户某学期课表为 Excel，返回内容、建议文件名
	ExportTimetable(ctx context.Context, userID string, semesterID int64) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger}
}

var exportDayHeaders = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

const exportSectionCount = 11

func (s *exportService) ExportTimetable(ctx context.Context, userID string, semesterID int64) (*bytes.Buffer, string, error) {
	semester, err := s.repo.Semester.GetByID(ctx, semesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrSemesterNotFound
		}
		s.logger.Error("查询学期失败", zap.Error(err))
		return nil, "", err
	}

	items, err := s.repo.ScheduleItem.ListByUserAndSemester(ctx, userID, semesterID, nil)
	if err != nil {
		s.logger.Error("查询课表失败", zap.Error(err))
		return nil, "", err
	}
	if len(items) == 0 {
		return nil, "", ErrExportEmpty
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "课表"
	f.SetSheetName("Sheet1", sheet)

	// 表头：A1 留空，B1..H1 为星期
	for i, day := range exportDayHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+2, 1)
		f.SetCellValue(sheet, cell, day)
	}

	sectionCount := exportSectionCount
	for i := range items {
		if items[i].EndSection > sectionCount {
			sectionCount = items[i].EndSection
		}
	}
	for section := 1; section <= sectionCount; section++ {
		cell, _ := excelize.CoordinatesToCellName(1, section+1)
		f.SetCellValue(sheet, cell, fmt.Sprintf("第%d节", section))
	}

	// 填充课表项：同一单元格可能有不同周次的课程，换行追加
	for i := range items {
		item := &items[i]
		text := exportCellText(item)
		for section := item.StartSection; section <= item.EndSection; section++ {
			cell, _ := excelize.CoordinatesToCellName(item.DayOfWeek+1, section+1)
			existing, _ := f.GetCellValue(sheet, cell)
			if existing != "" {
				text = existing + "\n" + text
			}
			f.SetCellValue(sheet, cell, text)
			text = exportCellText(item)
		}
	}

	f.SetColWidth(sheet, "A", "A", 8)
	f.SetColWidth(sheet, "B", "H", 22)

	buf, err := f.WriteToBuffer()
	if err != nil {
		s.logger.Error("生成 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("课表_%s.xlsx", semester.Name)
	return buf, filename, nil
}

// exportCellText 单元格文本：课程名 [@地点] (周次)
func exportCellText(item *model.ScheduleItem) string {
	text := item.CourseName
	if item.Location != nil && *item.Location != "" {
		text += "@" + *item.Location
	}
	return text + " (" + formatWeeks(item.WeeksRange) + ")"
}

// formatWeeks 将周次集合压缩为 "1-8,10,12-16周" 形式
func formatWeeks(weeks model.WeekSet) string {
	if len(weeks) == 0 {
		return ""
	}

	var parts []string
	start, prev := weeks[0], weeks[0]
	flush := func() {
		if start == prev {
			parts = append(parts, strconv.Itoa(start))
		} else {
			parts = append(parts, fmt.Sprintf("%d-%d", start, prev))
		}
	}
	for _, w := range weeks[1:] {
		if w == prev+1 {
			prev = w
			continue
		}
		flush()
		start, prev = w, w
	}
	flush()

	return strings.Join(parts, ",") + "周"
}
