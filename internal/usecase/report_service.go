package usecase

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/utils"
)

const (
	utf8BOM            = "\ufeff"
	upcomingWindowDays = 30
	upcomingLimit      = 6
)

var csvHeaders = []string{
	"Date Created", "Airline", "PNR", "Agency Name", "Agent Name",
	"Dep. Date", "Ret. Date", "Routing", "PAX Size", "Status",
	"Fare", "Taxes", "Markup", "Total Per Pax", "Remarks",
}

// AirlineStats counts the groups of one airline
type AirlineStats struct {
	Airline    string `json:"airline"`
	Groups     int    `json:"groups"`
	Passengers int    `json:"passengers"`
}

// DashboardStats summarises the reservations visible to a user
type DashboardStats struct {
	TotalGroups      int                  `json:"totalGroups"`
	TotalPassengers  int                  `json:"totalPassengers"`
	TotalRevenue     float64              `json:"totalRevenue"`
	AverageGroupSize float64              `json:"averageGroupSize"`
	ActiveGroups     int                  `json:"activeGroups"`
	PendingGroups    int                  `json:"pendingGroups"`
	CancelledGroups  int                  `json:"cancelledGroups"`
	ByAirline        []AirlineStats       `json:"byAirline"`
	Upcoming         []entity.Reservation `json:"upcoming"`
}

// ReportService produces exports and dashboard figures
type ReportService struct {
	reservations repository.ReservationRepository
	airlines     repository.AirlineRepository
	configs      repository.AirlineConfigRepository
	auditLogs    repository.AuditLogRepository
	clock        Clock
	loc          *time.Location
}

// NewReportService creates a report service
func NewReportService(
	reservations repository.ReservationRepository,
	airlines repository.AirlineRepository,
	configs repository.AirlineConfigRepository,
	auditLogs repository.AuditLogRepository,
	clock Clock,
	loc *time.Location,
) *ReportService {
	return &ReportService{
		reservations: reservations,
		airlines:     airlines,
		configs:      configs,
		auditLogs:    auditLogs,
		clock:        clock,
		loc:          loc,
	}
}

// ExportCSV writes the reservations of the selected airlines as a
// spreadsheet-friendly CSV. An empty selection exports every airline.
// Admins only.
func (s *ReportService) ExportCSV(ctx context.Context, viewer entity.Viewer, airlines []string, w io.Writer) (int, error) {
	if !viewer.IsAdmin() {
		return 0, ErrForbidden
	}

	all, err := s.reservations.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load reservations: %w", err)
	}
	configs, err := s.configs.All(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load airline configs: %w", err)
	}

	selected := make(map[string]bool, len(airlines))
	for _, code := range airlines {
		selected[strings.ToUpper(strings.TrimSpace(code))] = true
	}

	if _, err := io.WriteString(w, utf8BOM); err != nil {
		return 0, err
	}
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeaders); err != nil {
		return 0, err
	}

	rows := 0
	for _, r := range all {
		if !viewer.CanSee(r.Airline) || (len(selected) > 0 && !selected[r.Airline]) {
			continue
		}

		symbol := entity.CurrencyUSD.Symbol()
		if config, ok := configs[r.Airline]; ok {
			symbol = config.Currency.Symbol()
		}

		retDate := "-"
		if r.RetDate != "" {
			retDate = utils.FormatDisplay(r.RetDate, s.loc)
		}

		record := []string{
			utils.FormatDisplay(r.DateCreated, s.loc),
			r.Airline,
			r.PNR,
			r.AgencyName,
			r.AgentName,
			utils.FormatDisplay(r.DepDate, s.loc),
			retDate,
			r.Routing,
			strconv.Itoa(r.Size),
			string(r.Status),
			symbol + formatAmount(r.Fare),
			symbol + formatAmount(r.Taxes),
			symbol + formatAmount(r.Markup),
			symbol + formatAmount(r.TotalPerPax()),
			r.Remarks,
		}
		if err := writer.Write(record); err != nil {
			return rows, err
		}
		rows++
	}

	writer.Flush()
	return rows, writer.Error()
}

// ExportFileName is the download name of an export made at now
func (s *ReportService) ExportFileName() string {
	return fmt.Sprintf("TAGO_Export_%s.csv", utils.DayKey(s.clock(), s.loc))
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Dashboard computes the summary figures of the reservations visible to
// viewer
func (s *ReportService) Dashboard(ctx context.Context, viewer entity.Viewer) (*DashboardStats, error) {
	all, err := s.reservations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}
	codes, err := s.airlines.ListCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list airlines: %w", err)
	}

	stats := &DashboardStats{
		ByAirline: make([]AirlineStats, 0),
		Upcoming:  make([]entity.Reservation, 0),
	}
	perAirline := make(map[string]*AirlineStats)
	for _, code := range codes {
		if viewer.CanSee(code) {
			perAirline[code] = &AirlineStats{Airline: code}
		}
	}

	today := utils.StartOfDay(s.clock(), s.loc)
	horizon := utils.AddDays(today, upcomingWindowDays)

	for _, r := range all {
		if !viewer.CanSee(r.Airline) {
			continue
		}

		stats.TotalGroups++
		stats.TotalPassengers += r.Size
		stats.TotalRevenue += r.Revenue()

		switch r.Status.Family() {
		case entity.FamilyConfirmed:
			stats.ActiveGroups++
		case entity.FamilyPending:
			stats.PendingGroups++
		case entity.FamilyCancelled:
			stats.CancelledGroups++
		}

		if a, ok := perAirline[r.Airline]; ok {
			a.Groups++
			a.Passengers += r.Size
		}

		if dep, err := utils.ParseDay(r.DepDate, s.loc); err == nil && !dep.Before(today) && !dep.After(horizon) {
			stats.Upcoming = append(stats.Upcoming, r)
		}
	}

	if stats.TotalGroups > 0 {
		stats.AverageGroupSize = float64(stats.TotalPassengers) / float64(stats.TotalGroups)
	}

	for _, code := range codes {
		if a, ok := perAirline[code]; ok {
			stats.ByAirline = append(stats.ByAirline, *a)
		}
	}
	sort.SliceStable(stats.ByAirline, func(i, j int) bool {
		return stats.ByAirline[i].Groups > stats.ByAirline[j].Groups
	})

	sort.SliceStable(stats.Upcoming, func(i, j int) bool {
		a, _ := utils.ParseDay(stats.Upcoming[i].DepDate, s.loc)
		b, _ := utils.ParseDay(stats.Upcoming[j].DepDate, s.loc)
		return a.Before(b)
	})
	if len(stats.Upcoming) > upcomingLimit {
		stats.Upcoming = stats.Upcoming[:upcomingLimit]
	}

	return stats, nil
}

// AuditLogs searches the audit log; admins only
func (s *ReportService) AuditLogs(ctx context.Context, viewer entity.Viewer, filter entity.AuditLogFilter) ([]*entity.AuditLogEntry, error) {
	if !viewer.IsAdmin() {
		return nil, ErrForbidden
	}
	return s.auditLogs.Find(ctx, filter)
}
