package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/silenter1100/campus-backend/internal/dto"
)

// 学期：2026-02-23（周一）起 18 周
var (
	icsSemesterStart = time.Date(2026, 2, 23, 0, 0, 0, 0, time.UTC)
	icsSemesterEnd   = time.Date(2026, 6, 28, 0, 0, 0, 0, time.UTC)
)

// 时间均为 UTC（Z 后缀），北京时间 = UTC+8：
// 00:00Z = 08:00 CST（第1节），01:40Z = 09:40 CST
const sampleICS = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//Test//Test//EN
BEGIN:VEVENT
UID:evt-1
SUMMARY:高等数学
DTSTART:20260223T000000Z
DTEND:20260223T014000Z
LOCATION:一教101
END:VEVENT
BEGIN:VEVENT
UID:evt-2
SUMMARY:高等数学
DTSTART:20260302T000000Z
DTEND:20260302T014000Z
END:VEVENT
BEGIN:VEVENT
UID:evt-3
SUMMARY:大学英语
DTSTART:20260224T060000Z
DTEND:20260224T074000Z
END:VEVENT
BEGIN:VEVENT
UID:evt-out-of-range
SUMMARY:寒假补课
DTSTART:20260101T000000Z
DTEND:20260101T014000Z
END:VEVENT
BEGIN:VEVENT
UID:evt-no-summary
DTSTART:20260225T000000Z
DTEND:20260225T014000Z
END:VEVENT
END:VCALENDAR
`

func TestParseICS(t *testing.T) {
	items, err := parseICS(strings.NewReader(sampleICS), icsSemesterStart, icsSemesterEnd)
	if err != nil {
		t.Fatalf("parseICS 应成功: %v", err)
	}

	// 高等数学两次事件合并为一项；学期外与无标题事件被丢弃
	if len(items) != 2 {
		t.Fatalf("期望解析出 2 项，实际=%d: %+v", len(items), items)
	}

	math := items[0]
	if math.CourseName != "高等数学" {
		t.Fatalf("第1项应为高等数学（周一在前），实际=%s", math.CourseName)
	}
	if math.DayOfWeek != 1 {
		t.Errorf("高等数学应在周一，实际=%d", math.DayOfWeek)
	}
	if math.StartSection != 1 || math.EndSection != 2 {
		t.Errorf("08:00-09:40 应映射为第1-2节，实际=%d-%d", math.StartSection, math.EndSection)
	}
	if len(math.Weeks) != 2 || math.Weeks[0] != 1 || math.Weeks[1] != 2 {
		t.Errorf("同课程事件的周次应取并集 [1 2]，实际=%v", math.Weeks)
	}
	if !math.IsCustom {
		t.Error("导入项应标记为自定义课程")
	}

	english := items[1]
	if english.DayOfWeek != 2 {
		t.Errorf("大学英语应在周二，实际=%d", english.DayOfWeek)
	}
	// 14:00-15:40 CST 对应第5-6节
	if english.StartSection != 5 || english.EndSection != 6 {
		t.Errorf("14:00-15:40 应映射为第5-6节，实际=%d-%d", english.StartSection, english.EndSection)
	}
}

func TestParseICS_Invalid(t *testing.T) {
	_, err := parseICS(strings.NewReader("不是日历内容"), icsSemesterStart, icsSemesterEnd)
	if !errors.Is(err, ErrICSInvalid) {
		t.Errorf("期望 ErrICSInvalid，实际: %v", err)
	}
}

func TestImportICS_SemesterNotFound(t *testing.T) {
	svc, _ := setupTestScheduleService()

	_, err := svc.ImportICS(context.Background(), "user-1", &dto.ImportScheduleRequest{
		SemesterID: 999,
		URL:        "https://example.com/timetable.ics",
	})
	if !errors.Is(err, ErrSemesterNotFound) {
		t.Errorf("期望 ErrSemesterNotFound，实际: %v", err)
	}
}

func TestImportICS_UnsupportedScheme(t *testing.T) {
	svc, repos := setupTestScheduleService()
	seedSemester(repos)

	_, err := svc.ImportICS(context.Background(), "user-1", &dto.ImportScheduleRequest{
		SemesterID: 1,
		URL:        "ftp://example.com/timetable.ics",
	})
	if !errors.Is(err, ErrICSInvalid) {
		t.Errorf("期望 ErrICSInvalid，实际: %v", err)
	}
}

// ── 节次映射辅助函数 ──

func TestSectionMapping(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	at := func(hour, minute int) time.Time {
		return time.Date(2026, 3, 2, hour, minute, 0, 0, loc)
	}

	tests := []struct {
		name       string
		start, end time.Time
		wantStart  int
		wantEnd    int
	}{
		{"第1-2节", at(8, 0), at(9, 40), 1, 2},
		{"第3-4节", at(10, 0), at(11, 40), 3, 4},
		{"晚课第9-10节", at(19, 0), at(20, 40), 9, 10},
		{"提前到场不影响映射", at(7, 30), at(9, 40), 1, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := startSectionFor(tt.start); got != tt.wantStart {
				t.Errorf("startSectionFor(%v) = %d，期望 %d", tt.start, got, tt.wantStart)
			}
			if got := endSectionFor(tt.end); got != tt.wantEnd {
				t.Errorf("endSectionFor(%v) = %d，期望 %d", tt.end, got, tt.wantEnd)
			}
		})
	}
}

func TestWeekOfSemester(t *testing.T) {
	start := icsSemesterStart // 2026-02-23 周一

	tests := []struct {
		name string
		date time.Time
		want int
	}{
		{"开学第一天", time.Date(2026, 2, 23, 8, 0, 0, 0, time.UTC), 1},
		{"第一周周日", time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC), 1},
		{"第二周周一", time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC), 2},
		{"开学之前", time.Date(2026, 2, 20, 8, 0, 0, 0, time.UTC), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := weekOfSemester(tt.date, start); got != tt.want {
				t.Errorf("weekOfSemester(%v) = %d，期望 %d", tt.date, got, tt.want)
			}
		})
	}
}
