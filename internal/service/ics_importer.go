package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"gorm.io/gorm"

	"github.com/silenter1100/campus-backend/internal/dto"
)

// ── ICS 导入 ────────────────────────────────────────────────
//
// 将标准 iCalendar (RFC 5545) 订阅内容解析为批量添加候选项，
// 走与手动添加完全相同的批量提交路径（逐项校验 + 冲突检测）。
//
// 设计决策：
//   - DTSTART/DTEND 确定星期几与节次（按校历作息表就近映射）
//   - 同一课程的多个单次事件按 名称+星期+节次 合并，周次取并集
//   - 学期日期范围之外的事件直接丢弃
//   - 导入项一律视为自定义课程（不关联课程模板）
// ─────────────────────────────────────────────────────────────

var (
	ErrICSInvalid = errors.New("ICS 内容无效")
	ErrICSEmpty   = errors.New("日历中未解析到课程事件")
)

const (
	icsMaxFileSize  = 5 * 1024 * 1024 // 5MB
	icsFetchTimeout = 30 * time.Second
	campusTimezone  = "Asia/Shanghai"
)

// sectionStarts 校历作息表：第 i+1 节课的上课时刻
var sectionStarts = []struct{ hour, minute int }{
	{8, 0}, {8, 55}, {10, 0}, {10, 55},
	{14, 0}, {14, 55}, {16, 0}, {16, 55},
	{19, 0}, {19, 55}, {20, 50},
}

func (s *scheduleService) ImportICS(ctx context.Context, userID string, req *dto.ImportScheduleRequest) (*dto.BatchAddResult, error) {
	semester, err := s.repo.Semester.GetByID(ctx, req.SemesterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSemesterNotFound
		}
		return nil, err
	}

	body, err := fetchICS(ctx, req.URL)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	items, err := parseICS(body, semester.StartDate, semester.EndDate)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrICSEmpty
	}

	return s.AddItems(ctx, userID, &dto.AddScheduleItemsRequest{
		SemesterID: req.SemesterID,
		Items:      items,
	})
}

// fetchICS 从订阅地址获取 ICS 内容，限制响应体大小防止 OOM
func fetchICS(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	// webcal:// → https://
	u := rawURL
	if strings.HasPrefix(u, "webcal://") {
		u = "https://" + strings.TrimPrefix(u, "webcal://")
	}
	if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
		return nil, fmt.Errorf("%w: 不支持的 URL 协议", ErrICSInvalid)
	}

	reqCtx, cancel := context.WithTimeout(ctx, icsFetchTimeout)
	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodGet, u, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: 获取失败: %v", ErrICSInvalid, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: HTTP %d", ErrICSInvalid, resp.StatusCode)
	}

	return &cancelReadCloser{
		Reader: io.LimitReader(resp.Body, icsMaxFileSize),
		body:   resp.Body,
		cancel: cancel,
	}, nil
}

type cancelReadCloser struct {
	io.Reader
	body   io.Closer
	cancel context.CancelFunc
}

func (c *cancelReadCloser) Close() error {
	c.cancel()
	return c.body.Close()
}

// parseICS 解析 ICS 内容为批量添加候选项
func parseICS(reader io.Reader, semesterStart, semesterEnd time.Time) ([]dto.ScheduleItemInput, error) {
	cal, err := ics.ParseCalendar(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrICSInvalid, err)
	}

	loc, _ := time.LoadLocation(campusTimezone)
	totalWeeks := int(semesterEnd.Sub(semesterStart).Hours()/(24*7)) + 1

	// 合并同 名称+星期+节次 的事件，周次取并集
	type slotKey struct {
		name         string
		dayOfWeek    int
		startSection int
		endSection   int
	}
	merged := make(map[slotKey]map[int]bool)

	for _, evt := range cal.Events() {
		startAt, err := evt.GetStartAt()
		if err != nil {
			continue
		}
		endAt, err := evt.GetEndAt()
		if err != nil {
			endAt = startAt
		}
		startAt = startAt.In(loc)
		endAt = endAt.In(loc)

		week := weekOfSemester(startAt, semesterStart)
		if week < 1 || week > totalWeeks {
			continue
		}

		name := ""
		if p := evt.GetProperty(ics.ComponentPropertySummary); p != nil {
			name = strings.TrimSpace(p.Value)
		}
		if name == "" {
			continue
		}

		key := slotKey{
			name:         name,
			dayOfWeek:    isoWeekday(startAt),
			startSection: startSectionFor(startAt),
			endSection:   endSectionFor(endAt),
		}
		if merged[key] == nil {
			merged[key] = make(map[int]bool)
		}
		merged[key][week] = true
	}

	items := make([]dto.ScheduleItemInput, 0, len(merged))
	for key, weekSet := range merged {
		weeks := make([]int, 0, len(weekSet))
		for w := range weekSet {
			weeks = append(weeks, w)
		}
		sort.Ints(weeks)

		items = append(items, dto.ScheduleItemInput{
			CourseName:   key.name,
			DayOfWeek:    key.dayOfWeek,
			StartSection: key.startSection,
			EndSection:   key.endSection,
			Weeks:        weeks,
			IsCustom:     true,
		})
	}

	// map 遍历无序，按星期几、节次排一个稳定顺序
	sort.Slice(items, func(i, j int) bool {
		if items[i].DayOfWeek != items[j].DayOfWeek {
			return items[i].DayOfWeek < items[j].DayOfWeek
		}
		if items[i].StartSection != items[j].StartSection {
			return items[i].StartSection < items[j].StartSection
		}
		return items[i].CourseName < items[j].CourseName
	})

	return items, nil
}

// weekOfSemester 计算日期落在学期第几周（第 1 周从学期开始日所在周的周一起算）
func weekOfSemester(t, semesterStart time.Time) int {
	firstMonday := semesterStart.AddDate(0, 0, -(isoWeekday(semesterStart) - 1))
	days := int(t.Sub(firstMonday).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days/7 + 1
}

// isoWeekday 星期几映射为 1=周一 … 7=周日
func isoWeekday(t time.Time) int {
	wd := int(t.Weekday())
	if wd == 0 {
		return 7
	}
	return wd
}

// startSectionFor 取上课时刻不晚于事件开始的最后一节
func startSectionFor(t time.Time) int {
	section := 1
	for i, st := range sectionStarts {
		if minuteOfDay(t) >= st.hour*60+st.minute {
			section = i + 1
		}
	}
	return section
}

// endSectionFor 取上课时刻早于事件结束的最后一节
func endSectionFor(t time.Time) int {
	section := 1
	for i, st := range sectionStarts {
		if minuteOfDay(t) > st.hour*60+st.minute {
			section = i + 1
		}
	}
	return section
}

func minuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
