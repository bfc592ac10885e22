package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/attendance"
	"github.com/noah-isme/absensi-tk-api/internal/state"
)

// DashboardSummary is the home screen payload for one date.
type DashboardSummary struct {
	Date          string                 `json:"date"`
	Month         int                    `json:"month"`
	Year          int                    `json:"year"`
	TotalClasses  int                    `json:"totalClasses"`
	TotalStudents int                    `json:"totalStudents"`
	Today         attendance.Tally       `json:"today"`
	Rates         attendance.Rates       `json:"rates"`
	MonthRecords  int                    `json:"monthRecords"`
	ClassSizes    []attendance.ClassSize `json:"classSizes"`
	GeneratedAt   time.Time              `json:"generatedAt"`
}

// DashboardService derives the summary from the register and caches it per date.
type DashboardService struct {
	register *state.Register
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

func NewDashboardService(register *state.Register, cache *CacheService, cacheTTL time.Duration, loc *time.Location, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &DashboardService{register: register, cache: cache, cacheTTL: cacheTTL, logger: logger, loc: loc, now: time.Now}
}

// Summary builds the dashboard for date, or for today in the configured time zone when date is empty.
// The boolean reports a cache hit.
func (s *DashboardService) Summary(ctx context.Context, date string) (*DashboardSummary, bool, error) {
	date = strings.TrimSpace(date)
	if date == "" {
		date = s.now().In(s.loc).Format(dateLayout)
	}
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, false, invalid("tanggal harus berformat YYYY-MM-DD")
	}

	key := dashboardCachePrefix + "summary:" + date
	var cached DashboardSummary
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	snap := s.register.Snapshot()
	month, year := int(day.Month()), day.Year()
	summary := &DashboardSummary{
		Date:          date,
		Month:         month,
		Year:          year,
		TotalClasses:  len(snap.Classes),
		TotalStudents: len(snap.Students),
		Today:         attendance.DayBreakdown(snap.Attendance, date),
		Rates:         attendance.PresentRates(snap.Attendance, date, month, year),
		MonthRecords:  attendance.MonthRecordCount(snap.Attendance, month, year),
		ClassSizes:    attendance.ClassSizes(snap.Classes, snap.Students),
		GeneratedAt:   s.now().UTC(),
	}

	if err := s.cache.Set(ctx, key, summary, s.cacheTTL); err != nil {
		s.logger.Debug("dashboard not cached", zap.String("date", date), zap.Error(err))
	}
	return summary, false, nil
}
