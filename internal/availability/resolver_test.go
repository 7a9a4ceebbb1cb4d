package availability

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/matchpoint/court-reservation/internal/model"
	"github.com/matchpoint/court-reservation/internal/repository"
	"github.com/matchpoint/court-reservation/internal/timerange"
)

// ── mock collaborators ──

type mockCourtStore struct {
	courts map[uint64]model.Court
	err    error
}

func (m *mockCourtStore) GetByID(_ context.Context, id uint64) (model.Court, error) {
	if m.err != nil {
		return model.Court{}, m.err
	}
	c, ok := m.courts[id]
	if !ok {
		return model.Court{}, repository.ErrCourtNotFound
	}
	return c, nil
}

type mockCatalog struct {
	slots map[uint64][]model.TemplateSlot
	err   error
}

func (m *mockCatalog) ListByCourt(_ context.Context, courtID uint64) ([]model.TemplateSlot, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.slots[courtID], nil
}

type mockRegistry struct {
	periods []model.MaintenancePeriod
	err     error
}

func (m *mockRegistry) IsUnderMaintenance(_ context.Context, courtID uint64, date time.Time) (bool, error) {
	if m.err != nil {
		return false, m.err
	}
	for _, p := range m.periods {
		if p.CourtID == courtID && p.Covers(date) {
			return true, nil
		}
	}
	return false, nil
}

// mockLedger is an in-memory booking ledger with the same contract as
// the SQL implementation: CreateIfFree is an atomic check-then-insert
// guarded by a mutex, so concurrent overlapping attempts see at most
// one winner.
type mockLedger struct {
	mu       sync.Mutex
	nextID   uint64
	bookings []model.Booking
	err      error
}

func (m *mockLedger) ListForCourtOnDate(_ context.Context, courtID uint64, date time.Time) ([]model.Booking, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	day := timerange.Day(date)
	out := make([]model.Booking, 0)
	for _, b := range m.bookings {
		if b.CourtID == courtID && b.IsActive() && b.Range().Overlaps(day) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *mockLedger) CreateIfFree(_ context.Context, userID, courtID uint64, start, end time.Time) (model.Booking, error) {
	if m.err != nil {
		return model.Booking{}, m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	rg := timerange.New(start, end)
	for _, b := range m.bookings {
		if b.CourtID == courtID && b.IsActive() && b.Range().Overlaps(rg) {
			return model.Booking{}, repository.ErrConflict
		}
	}
	m.nextID++
	b := model.Booking{
		ID: m.nextID, UserID: userID, CourtID: courtID,
		StartTime: start, EndTime: end, Status: model.StatusPending,
	}
	m.bookings = append(m.bookings, b)
	return b, nil
}

func (m *mockLedger) cancel(id uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.bookings {
		if m.bookings[i].ID == id {
			m.bookings[i].Status = model.StatusCancelled
		}
	}
}

// ── fixtures ──

const courtID = 1

var day = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func newFixture() (*Resolver, *mockCourtStore, *mockRegistry, *mockLedger) {
	courts := &mockCourtStore{courts: map[uint64]model.Court{
		courtID: {ID: courtID, Name: "C1", IsActive: true},
	}}
	catalog := &mockCatalog{slots: map[uint64][]model.TemplateSlot{
		courtID: {
			{ID: 1, CourtID: courtID, StartTime: "09:00:00", EndTime: "10:00:00"},
			{ID: 2, CourtID: courtID, StartTime: "10:00:00", EndTime: "11:00:00"},
		},
	}}
	registry := &mockRegistry{}
	ledger := &mockLedger{}
	return NewResolver(courts, catalog, registry, ledger), courts, registry, ledger
}

func at(hour int) time.Time { return day.Add(time.Duration(hour) * time.Hour) }

// ── tests ──

func TestAvailableSlots_EmptyLedger(t *testing.T) {
	r, _, _, _ := newFixture()
	slots, err := r.AvailableSlots(context.Background(), courtID, day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected both template slots, got %d", len(slots))
	}
	if slots[0].ID != 1 || slots[1].ID != 2 {
		t.Fatalf("catalog order not preserved: %+v", slots)
	}
}

func TestAvailableSlots_BookedSlotRemoved(t *testing.T) {
	r, _, _, ledger := newFixture()
	if _, err := ledger.CreateIfFree(context.Background(), 7, courtID, at(9), at(10)); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	slots, err := r.AvailableSlots(context.Background(), courtID, day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 1 || slots[0].ID != 2 {
		t.Fatalf("expected only the 10:00-11:00 slot, got %+v", slots)
	}
}

func TestAvailableSlots_PartialOverlapBlocksSlot(t *testing.T) {
	r, _, _, ledger := newFixture()
	// 09:30-10:30 straddles both template slots; both must disappear.
	if _, err := ledger.CreateIfFree(context.Background(), 7, courtID, at(9).Add(30*time.Minute), at(10).Add(30*time.Minute)); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	slots, err := r.AvailableSlots(context.Background(), courtID, day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("expected no free slots, got %+v", slots)
	}
}

func TestAvailableSlots_MaintenancePrecedence(t *testing.T) {
	r, _, registry, _ := newFixture()
	registry.periods = []model.MaintenancePeriod{{CourtID: courtID, StartDate: day, EndDate: day}}
	slots, err := r.AvailableSlots(context.Background(), courtID, day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("maintenance must yield an empty result, got %+v", slots)
	}
	// the day after the window is open again
	slots, err = r.AvailableSlots(context.Background(), courtID, day.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 2 {
		t.Fatalf("expected slots after maintenance window, got %d", len(slots))
	}
}

func TestAvailableSlots_InactiveCourtPrecedence(t *testing.T) {
	r, courts, _, ledger := newFixture()
	courts.courts[courtID] = model.Court{ID: courtID, IsActive: false}
	slots, err := r.AvailableSlots(context.Background(), courtID, day)
	if err != nil {
		t.Fatalf("AvailableSlots: %v", err)
	}
	if len(slots) != 0 {
		t.Fatalf("inactive court must yield an empty result, got %+v", slots)
	}
	if len(ledger.bookings) != 0 {
		t.Fatal("ledger must not be touched for an inactive court")
	}
}

func TestAvailableSlots_UnknownCourt(t *testing.T) {
	r, _, _, _ := newFixture()
	if _, err := r.AvailableSlots(context.Background(), 99, day); !errors.Is(err, repository.ErrCourtNotFound) {
		t.Fatalf("expected ErrCourtNotFound, got %v", err)
	}
}

func TestAvailableSlots_LedgerOutageIsNotBookedOut(t *testing.T) {
	r, _, _, ledger := newFixture()
	ledger.err = errors.New("connection refused")
	_, err := r.AvailableSlots(context.Background(), courtID, day)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestAvailableSlots_RegistryOutage(t *testing.T) {
	r, _, registry, _ := newFixture()
	registry.err = errors.New("connection refused")
	if _, err := r.AvailableSlots(context.Background(), courtID, day); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCreateBooking_Succeeds(t *testing.T) {
	r, _, _, _ := newFixture()
	b, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if b.Status != model.StatusPending {
		t.Fatalf("new booking status = %s, want PENDING", b.Status)
	}
}

func TestCreateBooking_ConflictOnRepeat(t *testing.T) {
	r, _, _, _ := newFixture()
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	_, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10))
	if !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected ErrConflict on identical range, got %v", err)
	}
}

func TestCreateBooking_AdjacentRangesBothSucceed(t *testing.T) {
	r, _, _, _ := newFixture()
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10)); err != nil {
		t.Fatalf("first booking: %v", err)
	}
	if _, err := r.CreateBooking(context.Background(), 8, courtID, at(10), at(11)); err != nil {
		t.Fatalf("adjacent booking must not conflict: %v", err)
	}
}

func TestCreateBooking_InvalidRange(t *testing.T) {
	r, _, _, _ := newFixture()
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(10), at(9)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for inverted range, got %v", err)
	}
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(9)); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for zero-length range, got %v", err)
	}
}

func TestCreateBooking_InactiveCourt(t *testing.T) {
	r, courts, _, _ := newFixture()
	courts.courts[courtID] = model.Court{ID: courtID, IsActive: false}
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10)); !errors.Is(err, ErrCourtInactive) {
		t.Fatalf("expected ErrCourtInactive, got %v", err)
	}
}

func TestCreateBooking_MaintenanceRejected(t *testing.T) {
	r, _, registry, ledger := newFixture()
	registry.periods = []model.MaintenancePeriod{{CourtID: courtID, StartDate: day, EndDate: day}}
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10)); !errors.Is(err, ErrUnderMaintenance) {
		t.Fatalf("expected ErrUnderMaintenance, got %v", err)
	}
	if len(ledger.bookings) != 0 {
		t.Fatal("ledger must not be reached when maintenance blocks the date")
	}
}

func TestCreateBooking_MaintenanceCoversWholeRange(t *testing.T) {
	r, _, registry, _ := newFixture()
	// window starts the day after the booking starts; a range running
	// past midnight into it must still be rejected
	registry.periods = []model.MaintenancePeriod{{
		CourtID:   courtID,
		StartDate: day.Add(24 * time.Hour),
		EndDate:   day.Add(24 * time.Hour),
	}}
	_, err := r.CreateBooking(context.Background(), 7, courtID, at(23), at(25))
	if !errors.Is(err, ErrUnderMaintenance) {
		t.Fatalf("expected ErrUnderMaintenance for range crossing into window, got %v", err)
	}
	// a booking ending exactly at midnight does not touch the next day
	if _, err := r.CreateBooking(context.Background(), 7, courtID, at(23), at(24)); err != nil {
		t.Fatalf("booking ending at midnight must succeed: %v", err)
	}
}

func TestCancellationReopensSlot(t *testing.T) {
	r, _, _, ledger := newFixture()
	b, err := r.CreateBooking(context.Background(), 7, courtID, at(9), at(10))
	if err != nil {
		t.Fatalf("CreateBooking: %v", err)
	}
	if _, err := r.CreateBooking(context.Background(), 8, courtID, at(9), at(10)); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("expected conflict before cancellation, got %v", err)
	}
	ledger.cancel(b.ID)
	if _, err := r.CreateBooking(context.Background(), 8, courtID, at(9), at(10)); err != nil {
		t.Fatalf("cancelled range must be immediately rebookable: %v", err)
	}
}

func TestConcurrentCreate_ExactlyOneWinner(t *testing.T) {
	r, _, _, _ := newFixture()

	const attempts = 16
	var wg sync.WaitGroup
	errs := make([]error, attempts)
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, err := r.CreateBooking(context.Background(), uint64(i+1), courtID, at(9), at(10))
			errs[i] = err
		}(i)
	}
	close(start)
	wg.Wait()

	winners, conflicts := 0, 0
	for _, err := range errs {
		switch {
		case err == nil:
			winners++
		case errors.Is(err, repository.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if winners != 1 {
		t.Fatalf("expected exactly one winner, got %d", winners)
	}
	if conflicts != attempts-1 {
		t.Fatalf("expected %d conflicts, got %d", attempts-1, conflicts)
	}
}

// Full walk through the reference scenario: two slots, book one, lose a
// repeat attempt, then maintenance empties the day.
func TestScenario_BookThenMaintenance(t *testing.T) {
	r, _, registry, _ := newFixture()
	ctx := context.Background()

	slots, err := r.AvailableSlots(ctx, courtID, day)
	if err != nil || len(slots) != 2 {
		t.Fatalf("expected 2 free slots, got %d (err %v)", len(slots), err)
	}

	if _, err := r.CreateBooking(ctx, 7, courtID, at(9), at(10)); err != nil {
		t.Fatalf("booking 09:00-10:00: %v", err)
	}

	slots, err = r.AvailableSlots(ctx, courtID, day)
	if err != nil || len(slots) != 1 || slots[0].StartTime != "10:00:00" {
		t.Fatalf("expected only the 10:00 slot, got %+v (err %v)", slots, err)
	}

	if _, err := r.CreateBooking(ctx, 7, courtID, at(9), at(10)); !errors.Is(err, repository.ErrConflict) {
		t.Fatalf("repeat booking must conflict, got %v", err)
	}

	registry.periods = []model.MaintenancePeriod{{CourtID: courtID, StartDate: day, EndDate: day}}
	slots, err = r.AvailableSlots(ctx, courtID, day)
	if err != nil || len(slots) != 0 {
		t.Fatalf("maintenance must empty the day, got %+v (err %v)", slots, err)
	}
}
