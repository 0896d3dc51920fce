package usecase

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"tago-service/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) reportService() *ReportService {
	return NewReportService(f.reservations, f.airlines, f.configs, f.auditLogs, f.clock.Now, jerusalem)
}

func TestReportService_ExportCSV(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, entity.Reservation{
		ID: "1", Airline: "A2", DateCreated: "2024-01-02T10:00:00Z", PNR: "ABC123",
		AgencyName: "Sky Tours", AgentName: "Dana", DepDate: "2024-05-01", Routing: "TLV-FCO",
		Size: 20, Status: entity.StatusPNRCreated, Fare: 100, Taxes: 50.5, Markup: 10,
	})
	f.addReservation(t, entity.Reservation{ID: "2", Airline: "ET", PNR: "XYZ789", DepDate: "2024-06-01", Status: entity.StatusConfirmed})
	require.NoError(t, f.configs.Save(context.Background(), entity.DefaultAirlineConfig("A2")))
	svc := f.reportService()

	var buf bytes.Buffer
	rows, err := svc.ExportCSV(context.Background(), admin(), []string{"a2"}, &buf)

	require.NoError(t, err)
	assert.Equal(t, 1, rows)
	out := buf.String()
	assert.True(t, strings.HasPrefix(out, utf8BOM+"Date Created,Airline,PNR"))
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "02/01/2024,A2,ABC123,Sky Tours,Dana,01/05/2024,-,TLV-FCO,20,PD PNR Created,€100,€50.5,€10,€160.5,", lines[1])
}

func TestReportService_ExportAllAirlines(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, entity.Reservation{ID: "1", Airline: "A2", PNR: "ABC123", DepDate: "2024-05-01", Status: entity.StatusConfirmed})
	f.addReservation(t, entity.Reservation{ID: "2", Airline: "ET", PNR: "XYZ789", DepDate: "2024-06-01", Status: entity.StatusConfirmed})
	svc := f.reportService()

	var buf bytes.Buffer
	rows, err := svc.ExportCSV(context.Background(), admin(), nil, &buf)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)
	assert.Contains(t, buf.String(), "$0")

	_, err = svc.ExportCSV(context.Background(), editor("ET"), nil, &buf)
	assert.ErrorIs(t, err, ErrForbidden)

	assert.Equal(t, "TAGO_Export_2024-01-06.csv", svc.ExportFileName())
}

func TestReportService_Dashboard(t *testing.T) {
	f := newFixture(t)
	f.addReservation(t, entity.Reservation{ID: "1", Airline: "ET", PNR: "A1", DepDate: "2024-03-01", Size: 20, Fare: 100, Taxes: 50, Status: entity.StatusConfirmed})
	f.addReservation(t, entity.Reservation{ID: "2", Airline: "ET", PNR: "A2", DepDate: "2024-01-20", Size: 10, Fare: 200, Status: entity.StatusOfferSent})
	f.addReservation(t, entity.Reservation{ID: "3", Airline: "UX", PNR: "B1", DepDate: "2024-01-10", Size: 6, Status: entity.StatusDeclined})
	svc := f.reportService()

	stats, err := svc.Dashboard(context.Background(), admin())
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalGroups)
	assert.Equal(t, 36, stats.TotalPassengers)
	assert.Equal(t, float64(5000), stats.TotalRevenue)
	assert.Equal(t, float64(12), stats.AverageGroupSize)
	assert.Equal(t, 1, stats.ActiveGroups)
	assert.Equal(t, 1, stats.PendingGroups)
	assert.Equal(t, 1, stats.CancelledGroups)
	assert.Equal(t, AirlineStats{Airline: "ET", Groups: 2, Passengers: 30}, stats.ByAirline[0])
	assert.Equal(t, AirlineStats{Airline: "UX", Groups: 1, Passengers: 6}, stats.ByAirline[1])
	require.Len(t, stats.Upcoming, 2)
	assert.Equal(t, "B1", stats.Upcoming[0].PNR)
	assert.Equal(t, "A2", stats.Upcoming[1].PNR)

	scoped, err := svc.Dashboard(context.Background(), viewerOf("UX"))
	require.NoError(t, err)
	assert.Equal(t, 1, scoped.TotalGroups)
	assert.Len(t, scoped.ByAirline, 1)
}

func TestReportService_AuditLogsAdminOnly(t *testing.T) {
	f := newFixture(t)
	svc := f.reportService()

	_, err := svc.AuditLogs(context.Background(), editor("ET"), entity.AuditLogFilter{})
	assert.ErrorIs(t, err, ErrForbidden)

	logs, err := svc.AuditLogs(context.Background(), admin(), entity.AuditLogFilter{})
	require.NoError(t, err)
	assert.Empty(t, logs)
}
