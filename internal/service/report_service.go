package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/absensi-tk-api/internal/attendance"
	"github.com/noah-isme/absensi-tk-api/internal/models"
	"github.com/noah-isme/absensi-tk-api/internal/state"
	"github.com/noah-isme/absensi-tk-api/pkg/export"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// MonthName returns the Indonesian name of month (1-12).
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

// LongDate formats YYYY-MM-DD as e.g. "17 Agustus 2024". Unparseable input is returned unchanged.
func LongDate(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%d %s %d", t.Day(), MonthName(int(t.Month())), t.Year())
}

// DailyReport is one class's roster with statuses for a date.
type DailyReport struct {
	Class models.ClassRoom        `json:"class"`
	Date  string                  `json:"date"`
	Lines []attendance.RosterLine `json:"lines"`
	Tally attendance.Tally        `json:"tally"`
}

// MonthlyReport is the day-by-day matrix of one class.
type MonthlyReport struct {
	Class     models.ClassRoom        `json:"class"`
	Month     int                     `json:"month"`
	Year      int                     `json:"year"`
	MonthName string                  `json:"monthName"`
	Days      int                     `json:"days"`
	Rows      []attendance.MonthlyRow `json:"rows"`
}

// RenderedReport is a finished document ready for download.
type RenderedReport struct {
	Filename    string
	ContentType string
	Data        []byte
}

type documentRenderer interface {
	ContentType() string
	Extension() string
	Render(doc export.Document) ([]byte, error)
}

// ReportConfig carries printed sheet metadata.
type ReportConfig struct {
	SchoolTitle string
	City        string
	CacheTTL    time.Duration
}

// ReportService builds the daily and monthly sheets from the register.
type ReportService struct {
	register  *state.Register
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	renderers map[models.ReportFormat]documentRenderer
	cfg       ReportConfig
	logger    *zap.Logger
}

func NewReportService(register *state.Register, cache *CacheService, metrics *MetricsService, validate *validator.Validate, cfg ReportConfig, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.SchoolTitle == "" {
		cfg.SchoolTitle = "LAPORAN ABSENSI DIGITAL SISWA TK"
	}
	if cfg.City == "" {
		cfg.City = "Kediri"
	}
	return &ReportService{
		register:  register,
		cache:     cache,
		metrics:   metrics,
		validator: registerValidations(validate),
		renderers: map[models.ReportFormat]documentRenderer{
			models.FormatCSV:  export.NewCSVExporter(0),
			models.FormatPDF:  export.NewPDFExporter(),
			models.FormatXLSX: export.NewXLSXExporter(),
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Daily resolves every student of classID on date, sorted by name.
func (s *ReportService) Daily(ctx context.Context, classID, date string) (*DailyReport, error) {
	if err := checkDate(date); err != nil {
		return nil, err
	}
	class, ok := s.register.FindClass(classID)
	if !ok {
		return nil, errClassNotFound
	}
	lines := attendance.DailyRoster(s.register.Attendance(), sortedRoster(s.register.Roster(classID)), date)
	var tally attendance.Tally
	for _, l := range lines {
		if l.Entry.Marked {
			tally.Add(l.Entry.Status)
		}
	}
	return &DailyReport{Class: class, Date: date, Lines: lines, Tally: tally}, nil
}

// Monthly builds the matrix for classID in month/year. Results are cached until the next mutation.
func (s *ReportService) Monthly(ctx context.Context, classID string, month, year int) (*MonthlyReport, bool, error) {
	if month < 1 || month > 12 {
		return nil, false, invalid("bulan harus di antara 1 dan 12")
	}
	if year < 1900 || year > 9999 {
		return nil, false, invalid("tahun tidak valid")
	}
	class, ok := s.register.FindClass(classID)
	if !ok {
		return nil, false, errClassNotFound
	}

	key := fmt.Sprintf("%smonthly:%s:%04d-%02d", reportCachePrefix, classID, year, month)
	var cached MonthlyReport
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	report := &MonthlyReport{
		Class:     class,
		Month:     month,
		Year:      year,
		MonthName: MonthName(month),
		Days:      attendance.DaysInMonth(month, year),
		Rows:      attendance.MonthlyMatrix(s.register.Attendance(), sortedRoster(s.register.Roster(classID)), month, year),
	}
	if err := s.cache.Set(ctx, key, report, s.cfg.CacheTTL); err != nil {
		s.logger.Debug("monthly report not cached", zap.String("key", key), zap.Error(err))
	}
	return report, false, nil
}

// Render produces the document described by params.
func (s *ReportService) Render(ctx context.Context, params models.ReportParams) (out *RenderedReport, err error) {
	defer func() {
		s.metrics.RecordExport(string(params.Kind), string(params.Format), err)
	}()

	if err := s.CheckParams(params); err != nil {
		return nil, err
	}
	renderer := s.renderers[params.Format]

	var (
		doc  export.Document
		base string
	)
	switch params.Kind {
	case models.ReportDaily:
		report, err := s.Daily(ctx, params.ClassID, params.Date)
		if err != nil {
			return nil, err
		}
		doc = s.dailyDocument(report)
		base = fmt.Sprintf("Absensi_Harian_%s_%s", fileSafe(report.Class.Name), report.Date)
	case models.ReportMonthly:
		report, _, err := s.Monthly(ctx, params.ClassID, params.Month, params.Year)
		if err != nil {
			return nil, err
		}
		doc = s.monthlyDocument(report)
		base = fmt.Sprintf("Rekap_Bulanan_%s_%s_%d", fileSafe(report.Class.Name), report.MonthName, report.Year)
	}

	data, err := renderer.Render(doc)
	if err != nil {
		s.logger.Error("render report", zap.String("kind", string(params.Kind)), zap.String("format", string(params.Format)), zap.Error(err))
		return nil, fmt.Errorf("render %s report: %w", params.Kind, err)
	}
	return &RenderedReport{
		Filename:    base + "." + renderer.Extension(),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

// CheckParams validates params including the fields each kind requires.
func (s *ReportService) CheckParams(params models.ReportParams) error {
	if err := s.validator.Struct(params); err != nil {
		return validationError(err, "parameter laporan tidak valid")
	}
	switch params.Kind {
	case models.ReportDaily:
		if params.Date == "" {
			return invalid("tanggal wajib diisi untuk laporan harian")
		}
	case models.ReportMonthly:
		if params.Month == 0 || params.Year == 0 {
			return invalid("bulan dan tahun wajib diisi untuk rekap bulanan")
		}
	}
	if _, ok := s.renderers[params.Format]; !ok {
		return invalid("format %s tidak didukung", params.Format)
	}
	return nil
}

func (s *ReportService) dailyDocument(report *DailyReport) export.Document {
	rows := make([][]string, 0, len(report.Lines))
	for i, l := range report.Lines {
		note := l.Entry.Note
		if note == "" {
			note = attendance.Unmarked
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), l.Student.NIS, l.Student.Name, l.Entry.Display(), note})
	}
	return export.Document{
		Title:        s.cfg.SchoolTitle,
		Subtitles:    []string{"KELAS: " + report.Class.Name, "Tanggal: " + LongDate(report.Date)},
		Headers:      []string{"No", "NIS", "Nama", "Status", "Keterangan"},
		Rows:         rows,
		ColumnWidths: []float64{12, 30, 68, 25, 55},
		Signatures:   s.signatures(report.Class, report.Date),
	}
}

func (s *ReportService) monthlyDocument(report *MonthlyReport) export.Document {
	headers := []string{"No", "NIS", "Nama"}
	for d := 1; d <= report.Days; d++ {
		headers = append(headers, strconv.Itoa(d))
	}
	headers = append(headers, "H", "S", "I", "A")

	rows := make([][]string, 0, len(report.Rows))
	for i, r := range report.Rows {
		row := []string{strconv.Itoa(i + 1), r.Student.NIS, r.Student.Name}
		row = append(row, r.Marks...)
		row = append(row, strconv.Itoa(r.Tally.H), strconv.Itoa(r.Tally.S), strconv.Itoa(r.Tally.I), strconv.Itoa(r.Tally.A))
		rows = append(rows, row)
	}

	// A4 landscape leaves 277mm between margins.
	widths := []float64{8, 20, 45}
	dayWidth := (277 - 73 - 4*8) / float64(report.Days)
	for d := 0; d < report.Days; d++ {
		widths = append(widths, dayWidth)
	}
	widths = append(widths, 8, 8, 8, 8)

	lastDay := attendance.DateKey(report.Year, report.Month, report.Days)
	return export.Document{
		Title:        s.cfg.SchoolTitle,
		Subtitles:    []string{"KELAS: " + report.Class.Name, fmt.Sprintf("Periode: %s %d", report.MonthName, report.Year)},
		Headers:      headers,
		Rows:         rows,
		ColumnWidths: widths,
		Landscape:    true,
		Signatures:   s.signatures(report.Class, lastDay),
	}
}

func (s *ReportService) signatures(class models.ClassRoom, date string) *export.Signatures {
	return &export.Signatures{
		Left: export.SignatureBlock{
			Heading: []string{"Mengetahui,", "Kepala Sekolah"},
			Name:    deref(class.HeadmasterName),
			NIP:     deref(class.HeadmasterNIP),
		},
		Right: export.SignatureBlock{
			Heading: []string{s.cfg.City + ", " + LongDate(date), "Wali Kelas"},
			Name:    deref(class.TeacherName),
			NIP:     deref(class.TeacherNIP),
		},
	}
}

func sortedRoster(students []models.Student) []models.Student {
	sort.SliceStable(students, func(i, j int) bool {
		return strings.ToLower(students[i].Name) < strings.ToLower(students[j].Name)
	})
	return students
}

func fileSafe(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "Kelas"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, name)
}

func deref(v *string) string {
	if v == nil {
		return ""
	}
	return strings.TrimSpace(*v)
}
