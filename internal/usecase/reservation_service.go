package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"tago-service/internal/domain/entity"
	"tago-service/internal/domain/repository"
	"tago-service/pkg/logger"
	"tago-service/pkg/utils"

	"github.com/google/uuid"
)

// ReservationFilter narrows a reservation listing. Empty fields match all.
type ReservationFilter struct {
	Airline string
	Status  entity.Status
	Agency  string
	Search  string
}

// ReservationService owns the reservation lifecycle and its audit trail
type ReservationService struct {
	reservations repository.ReservationRepository
	airlines     repository.AirlineRepository
	auditLogs    repository.AuditLogRepository
	publisher    repository.EventPublisher
	logger       logger.Logger
	clock        Clock
	loc          *time.Location
}

// NewReservationService creates a new reservation service
func NewReservationService(
	reservations repository.ReservationRepository,
	airlines repository.AirlineRepository,
	auditLogs repository.AuditLogRepository,
	publisher repository.EventPublisher,
	logger logger.Logger,
	clock Clock,
	loc *time.Location,
) *ReservationService {
	return &ReservationService{
		reservations: reservations,
		airlines:     airlines,
		auditLogs:    auditLogs,
		publisher:    publisher,
		logger:       logger,
		clock:        clock,
		loc:          loc,
	}
}

// List returns the reservations visible to viewer that match filter,
// ordered by departure date
func (s *ReservationService) List(ctx context.Context, viewer entity.Viewer, filter ReservationFilter) ([]entity.Reservation, error) {
	all, err := s.reservations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load reservations: %w", err)
	}

	search := strings.ToLower(strings.TrimSpace(filter.Search))
	result := make([]entity.Reservation, 0, len(all))
	for _, r := range all {
		if !viewer.CanSee(r.Airline) {
			continue
		}
		if filter.Airline != "" && r.Airline != filter.Airline {
			continue
		}
		if filter.Status != "" && r.Status != filter.Status {
			continue
		}
		if filter.Agency != "" && r.AgencyName != filter.Agency {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(r.PNR), search) &&
			!strings.Contains(strings.ToLower(r.AgencyName), search) &&
			!strings.Contains(strings.ToLower(r.AgentName), search) {
			continue
		}
		result = append(result, r)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return s.depTime(result[i]).Before(s.depTime(result[j]))
	})
	return result, nil
}

// depTime orders unparseable departure dates last
func (s *ReservationService) depTime(r entity.Reservation) time.Time {
	t, err := utils.ParseDay(r.DepDate, s.loc)
	if err != nil {
		return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return t
}

// Get returns one visible reservation
func (s *ReservationService) Get(ctx context.Context, viewer entity.Viewer, id string) (*entity.Reservation, error) {
	r, err := s.reservations.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	} else if err != nil {
		return nil, err
	}
	if !viewer.CanSee(r.Airline) {
		return nil, ErrNotFound
	}
	return r, nil
}

// Create stores a new reservation on behalf of an editor
func (s *ReservationService) Create(ctx context.Context, viewer entity.Viewer, input entity.Reservation) (*entity.Reservation, error) {
	if !viewer.CanEdit() {
		return nil, ErrForbidden
	}
	normalizeKeys(&input)
	if !viewer.CanSee(input.Airline) {
		return nil, ErrForbidden
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	now := s.clock()
	reservation := input
	reservation.ID = uuid.NewString()
	reservation.DateCreated = now.UTC().Format(time.RFC3339)
	reservation.OriginalSize = nil
	reservation.DateOfferSent = ""
	reservation.Version = 1
	if reservation.Status == entity.StatusOfferSent {
		reservation.DateOfferSent = now.UTC().Format(time.RFC3339)
	}

	if err := s.reservations.Create(ctx, &reservation); err != nil {
		return nil, fmt.Errorf("failed to create reservation: %w", err)
	}

	s.audit(ctx, viewer, entity.ActionCreate, &reservation,
		fmt.Sprintf("Created new group for %s", reservation.AgencyName), nil)
	s.publish(ctx, repository.EventReservationCreated, &reservation)

	s.logger.Info("Reservation created", "id", reservation.ID, "pnr", reservation.PNR, "user", viewer.Username)
	return &reservation, nil
}

// Update replaces the editable fields of a reservation. expectedVersion is
// the version the editor loaded; a mismatch means someone else saved first.
func (s *ReservationService) Update(ctx context.Context, viewer entity.Viewer, id string, expectedVersion int, input entity.Reservation) (*entity.Reservation, error) {
	if !viewer.CanEdit() {
		return nil, ErrForbidden
	}

	current, err := s.Get(ctx, viewer, id)
	if err != nil {
		return nil, err
	}
	normalizeKeys(&input)
	if !viewer.CanSee(input.Airline) {
		return nil, ErrForbidden
	}
	if current.Version != expectedVersion {
		return nil, ErrVersionConflict
	}
	if err := s.validate(ctx, &input); err != nil {
		return nil, err
	}

	updated := input
	updated.ID = current.ID
	updated.DateCreated = current.DateCreated
	updated.DateOfferSent = current.DateOfferSent
	updated.OriginalSize = current.OriginalSize
	updated.Version = current.Version + 1

	if current.OriginalSize == nil && updated.Size != current.Size {
		original := current.Size
		updated.OriginalSize = &original
	}
	if updated.Status == entity.StatusOfferSent && current.Status != entity.StatusOfferSent && current.DateOfferSent == "" {
		updated.DateOfferSent = s.clock().UTC().Format(time.RFC3339)
	}

	changes, err := DiffReservations(current, &updated)
	if err != nil {
		return nil, err
	}

	if err := s.reservations.Update(ctx, &updated, expectedVersion); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	if len(changes) > 0 {
		s.audit(ctx, viewer, entity.ActionUpdate, &updated, "Updated group information", changes)
	}
	s.publish(ctx, repository.EventReservationUpdated, &updated)

	return &updated, nil
}

// Delete permanently removes a reservation; admins only
func (s *ReservationService) Delete(ctx context.Context, viewer entity.Viewer, id string) error {
	if !viewer.IsAdmin() {
		return ErrForbidden
	}

	current, err := s.Get(ctx, viewer, id)
	if err != nil {
		return err
	}

	if err := s.reservations.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete reservation: %w", err)
	}

	s.audit(ctx, viewer, entity.ActionDelete, current,
		fmt.Sprintf("Deleted group for %s", current.AgencyName), nil)
	s.publish(ctx, repository.EventReservationDeleted, current)
	return nil
}

// normalizeKeys upper-cases the PNR and airline code so visibility checks and
// storage see the same value
func normalizeKeys(r *entity.Reservation) {
	r.PNR = strings.ToUpper(strings.TrimSpace(r.PNR))
	r.Airline = strings.ToUpper(strings.TrimSpace(r.Airline))
}

func (s *ReservationService) validate(ctx context.Context, r *entity.Reservation) error {
	normalizeKeys(r)

	switch {
	case r.PNR == "":
		return fmt.Errorf("%w: pnr is required", ErrInvalidReservation)
	case r.Airline == "":
		return fmt.Errorf("%w: airline is required", ErrInvalidReservation)
	case !r.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrInvalidReservation, r.Status)
	case r.Size < 0:
		return fmt.Errorf("%w: size must not be negative", ErrInvalidReservation)
	case r.Fare < 0 || r.Taxes < 0 || r.Markup < 0:
		return fmt.Errorf("%w: fare, taxes and markup must not be negative", ErrInvalidReservation)
	}

	if _, err := utils.ParseDay(r.DepDate, s.loc); err != nil {
		return fmt.Errorf("%w: depDate: %v", ErrInvalidReservation, err)
	}

	if _, err := s.airlines.GetByCode(ctx, r.Airline); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrUnknownAirline, r.Airline)
		}
		return fmt.Errorf("failed to look up airline: %w", err)
	}
	return nil
}

// audit failures are logged; the mutation has already happened
func (s *ReservationService) audit(ctx context.Context, viewer entity.Viewer, action string, r *entity.Reservation, details string, changes []entity.FieldChange) {
	entry := &entity.AuditLogEntry{
		ID:        uuid.NewString(),
		Timestamp: s.clock().UTC(),
		UserID:    viewer.UserID,
		Username:  viewer.Username,
		Action:    action,
		EntityID:  r.ID,
		EntityPNR: r.PNR,
		Details:   details,
		Changes:   changes,
	}
	if err := s.auditLogs.Append(ctx, entry); err != nil {
		s.logger.Error("Failed to write audit log", "action", action, "entityId", r.ID, "error", err)
	}
}

func (s *ReservationService) publish(ctx context.Context, routingKey string, r *entity.Reservation) {
	if err := s.publisher.Publish(ctx, routingKey, r); err != nil {
		s.logger.Warn("Failed to publish reservation event", "routingKey", routingKey, "id", r.ID, "error", err)
	}
}
