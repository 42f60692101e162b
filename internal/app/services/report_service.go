package services

import (
	"bytes"
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/schoolvax/internal/app/models"
	"github.com/yigit/schoolvax/internal/app/models/dto"
	"github.com/yigit/schoolvax/internal/app/repositories"
	"github.com/yigit/schoolvax/internal/pkg/export"
	"github.com/yigit/schoolvax/internal/pkg/helpers"
)

// Trailing windows of the daily vaccination series
const (
	DashboardDays = 7
	ReportDays    = 30
)

// ReportGrades is the fixed grade enumeration of the rate-by-grade rollup
var ReportGrades = []string{"9th", "10th", "11th", "12th"}

// drives whose vaccinatedCount feeds the daily series
var activeStatuses = []models.DriveStatus{models.DriveInProgress, models.DriveCompleted}

// ReportService defines the read-side rollups
type ReportService interface {
	Dashboard(ctx context.Context, coordinatorID string) (*dto.DashboardStats, error)
	Data(ctx context.Context, coordinatorID string, filter dto.ReportFilter) (*dto.ReportData, error)
	Export(ctx context.Context, coordinatorID string, filter dto.ReportFilter) ([]byte, error)
}

type reportServiceImpl struct {
	studentRepo repositories.StudentRepository
	driveRepo   repositories.DriveRepository
	loc         *time.Location
	now         Clock
	logger      zerolog.Logger
}

// NewReportService creates a new report service; days are bucketed in loc
func NewReportService(
	studentRepo repositories.StudentRepository,
	driveRepo repositories.DriveRepository,
	loc *time.Location,
	now Clock,
	logger zerolog.Logger,
) ReportService {
	if loc == nil {
		loc = time.UTC
	}
	return &reportServiceImpl{
		studentRepo: studentRepo,
		driveRepo:   driveRepo,
		loc:         loc,
		now:         defaultClock(now),
		logger:      logger,
	}
}

// Dashboard returns the landing-page counters, the 7-day series and the next drives
func (s *reportServiceImpl) Dashboard(ctx context.Context, coordinatorID string) (*dto.DashboardStats, error) {
	now := s.now()

	students, err := s.studentRepo.List(ctx, coordinatorID, models.StudentFilter{})
	if err != nil {
		return nil, err
	}

	upcoming, err := s.driveRepo.List(ctx, coordinatorID, models.DriveFilter{
		Status: models.DriveScheduled,
		From:   &now,
	})
	if err != nil {
		return nil, err
	}

	daily, err := s.dailySeries(ctx, coordinatorID, now, DashboardDays)
	if err != nil {
		return nil, err
	}

	vaccinated := 0
	for _, st := range students {
		if st.VaccinationStatus == models.StatusVaccinated {
			vaccinated++
		}
	}

	rate := 0.0
	if len(students) > 0 {
		rate = math.Round(float64(vaccinated)/float64(len(students))*1000) / 10
	}

	list := upcoming
	if len(list) > UpcomingDrivesLimit {
		list = list[:UpcomingDrivesLimit]
	}

	return &dto.DashboardStats{
		TotalStudents:         len(students),
		VaccinatedStudents:    vaccinated,
		PendingVaccinations:   len(students) - vaccinated,
		UpcomingDrives:        len(upcoming),
		VaccinationRate:       rate,
		RecentVaccinationData: daily,
		UpcomingDrivesList:    list,
	}, nil
}

// Data computes the report rollups. Grade narrows the students; the date range and vaccine
// type narrow the drives of the monthly rollup. The 30-day series ignores the filter.
func (s *reportServiceImpl) Data(ctx context.Context, coordinatorID string, filter dto.ReportFilter) (*dto.ReportData, error) {
	students, err := s.studentRepo.List(ctx, coordinatorID, models.StudentFilter{Grade: filter.Grade})
	if err != nil {
		return nil, err
	}

	driveFilter := models.DriveFilter{VaccineType: filter.VaccineType}
	if filter.StartDate != nil {
		from, _ := helpers.DayWindow(*filter.StartDate, s.loc)
		driveFilter.From = &from
	}
	if filter.EndDate != nil {
		// the end date covers its whole day
		_, next := helpers.DayWindow(*filter.EndDate, s.loc)
		end := next.Add(-time.Nanosecond)
		driveFilter.To = &end
	}
	drives, err := s.driveRepo.List(ctx, coordinatorID, driveFilter)
	if err != nil {
		return nil, err
	}

	daily, err := s.dailySeries(ctx, coordinatorID, s.now(), ReportDays)
	if err != nil {
		return nil, err
	}

	return &dto.ReportData{
		VaccinationStatusDistribution: StatusDistribution(students),
		VaccinationRateByGrade:        RateByGrade(students, ReportGrades),
		VaccineTypeDistribution:       VaccineTypeDistribution(students),
		VaccinationRateByMonth:        RateByMonth(drives, s.loc),
		RecentVaccinations:            daily,
	}, nil
}

// Export renders the report rollups as an XLSX workbook with one sheet per rollup
func (s *reportServiceImpl) Export(ctx context.Context, coordinatorID string, filter dto.ReportFilter) ([]byte, error) {
	data, err := s.Data(ctx, coordinatorID, filter)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, ReportSheets(data)); err != nil {
		return nil, fmt.Errorf("error writing report workbook: %w", err)
	}

	s.logger.Debug().Str("coordinatorId", coordinatorID).Int("bytes", buf.Len()).Msg("Report workbook generated")
	return buf.Bytes(), nil
}

func (s *reportServiceImpl) dailySeries(ctx context.Context, coordinatorID string, now time.Time, days int) ([]dto.DailyCount, error) {
	today, _ := helpers.DayWindow(now, s.loc)
	from := today.AddDate(0, 0, -(days - 1))

	drives, err := s.driveRepo.List(ctx, coordinatorID, models.DriveFilter{
		Statuses: activeStatuses,
		From:     &from,
	})
	if err != nil {
		return nil, err
	}
	return DailyCounts(drives, now, days, s.loc), nil
}

// StatusDistribution counts students per status bucket in reporting order
func StatusDistribution(students []*models.Student) []dto.StatusCount {
	counts := map[models.VaccinationStatus]int{}
	for _, st := range students {
		counts[st.VaccinationStatus]++
	}

	out := make([]dto.StatusCount, 0, len(models.AllVaccinationStatuses))
	for _, status := range models.AllVaccinationStatuses {
		out = append(out, dto.StatusCount{Status: status.Label(), Key: string(status), Count: counts[status]})
	}
	return out
}

// RateByGrade is the whole percentage of vaccinated students per grade, 0 for an empty grade
func RateByGrade(students []*models.Student, grades []string) []dto.GradeRate {
	total := map[string]int{}
	vaccinated := map[string]int{}
	for _, st := range students {
		total[st.Grade]++
		if st.VaccinationStatus == models.StatusVaccinated {
			vaccinated[st.Grade]++
		}
	}

	out := make([]dto.GradeRate, 0, len(grades))
	for _, g := range grades {
		out = append(out, dto.GradeRate{Grade: g, Rate: percent(vaccinated[g], total[g])})
	}
	return out
}

// VaccineTypeDistribution counts vaccine records by name, most frequent first
func VaccineTypeDistribution(students []*models.Student) []dto.VaccineTypeCount {
	counts := map[string]int{}
	for _, st := range students {
		for _, v := range st.Vaccines {
			counts[v.Name]++
		}
	}

	out := make([]dto.VaccineTypeCount, 0, len(counts))
	for name, n := range counts {
		out = append(out, dto.VaccineTypeCount{Type: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

// RateByMonth groups drives by calendar month in loc, chronologically. The rate is
// sum(vaccinatedCount)/sum(targetCount) as a whole percentage.
func RateByMonth(drives []*models.VaccinationDrive, loc *time.Location) []dto.MonthRate {
	type bucket struct {
		label      string
		target     int
		vaccinated int
	}
	buckets := map[string]*bucket{}
	for _, d := range drives {
		key := helpers.MonthKey(d.Date, loc)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{label: d.Date.In(loc).Format("Jan 2006")}
			buckets[key] = b
		}
		b.target += d.TargetCount
		b.vaccinated += d.VaccinatedCount
	}

	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]dto.MonthRate, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		out = append(out, dto.MonthRate{Month: k, Label: b.label, Rate: percent(b.vaccinated, b.target)})
	}
	return out
}

// DailyCounts sums vaccinatedCount per calendar day over the trailing days ending today,
// oldest first, with zero for days without drives
func DailyCounts(drives []*models.VaccinationDrive, now time.Time, days int, loc *time.Location) []dto.DailyCount {
	sums := map[string]int{}
	for _, d := range drives {
		sums[helpers.DayKey(d.Date, loc)] += d.VaccinatedCount
	}

	keys := helpers.LastNDays(now, days, loc)
	out := make([]dto.DailyCount, 0, len(keys))
	for _, k := range keys {
		out = append(out, dto.DailyCount{Date: k, Count: sums[k]})
	}
	return out
}

// ReportSheets lays the rollups out as workbook sheets
func ReportSheets(data *dto.ReportData) []export.SheetSpec {
	status := export.SheetSpec{Title: "Status", Header: []string{"Status", "Students"}}
	for _, c := range data.VaccinationStatusDistribution {
		status.Rows = append(status.Rows, []string{c.Status, strconv.Itoa(c.Count)})
	}

	grades := export.SheetSpec{Title: "Grades", Header: []string{"Grade", "Vaccinated %"}}
	for _, g := range data.VaccinationRateByGrade {
		grades.Rows = append(grades.Rows, []string{g.Grade, strconv.Itoa(g.Rate)})
	}

	vaccines := export.SheetSpec{Title: "Vaccines", Header: []string{"Vaccine", "Records"}}
	for _, v := range data.VaccineTypeDistribution {
		vaccines.Rows = append(vaccines.Rows, []string{v.Type, strconv.Itoa(v.Count)})
	}

	months := export.SheetSpec{Title: "Monthly", Header: []string{"Month", "Label", "Rate %"}}
	for _, m := range data.VaccinationRateByMonth {
		months.Rows = append(months.Rows, []string{m.Month, m.Label, strconv.Itoa(m.Rate)})
	}

	daily := export.SheetSpec{Title: "Daily", Header: []string{"Date", "Vaccinations"}}
	for _, d := range data.RecentVaccinations {
		daily.Rows = append(daily.Rows, []string{d.Date, strconv.Itoa(d.Count)})
	}

	return []export.SheetSpec{status, grades, vaccines, months, daily}
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
