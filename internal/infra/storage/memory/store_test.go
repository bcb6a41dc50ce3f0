package memory

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-SalonBooking/internal/infra/storage/catalog"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

var testDate = time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

func testTicks(professionalID int64) []domain.Tick {
	return []domain.Tick{
		{SalonID: 1, ProfessionalID: professionalID, Date: testDate, StartTime: "09:00", EndTime: "09:05"},
		{SalonID: 1, ProfessionalID: professionalID, Date: testDate, StartTime: "09:05", EndTime: "09:10"},
		{SalonID: 1, ProfessionalID: professionalID, Date: testDate, StartTime: "09:10", EndTime: "09:15"},
	}
}

func TestTimeSlotRepository_BulkCreateSkipsDuplicates(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().TimeSlots()

	inserted, err := repo.BulkCreate(ctx, testTicks(1))
	require.NoError(t, err)
	assert.Equal(t, int64(3), inserted)

	inserted, err = repo.BulkCreate(ctx, testTicks(1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), inserted)

	ticks, err := repo.GetByProfessionalAndDate(ctx, 1, testDate.Add(12*time.Hour))
	require.NoError(t, err)
	assert.Len(t, ticks, 3)
}

func TestTimeSlotRepository_MarkBookedCountsOnlyFreeTicks(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().TimeSlots()
	_, err := repo.BulkCreate(ctx, testTicks(1))
	require.NoError(t, err)

	overlapping, err := repo.GetOverlapping(ctx, 1, testDate, "09:03", "09:10")
	require.NoError(t, err)
	require.Len(t, overlapping, 2)

	affected, err := repo.MarkBooked(ctx, []int64{overlapping[0].ID, overlapping[1].ID}, domain.AppointmentOwner(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	affected, err = repo.MarkBooked(ctx, []int64{overlapping[1].ID, overlapping[1].ID + 1}, domain.AppointmentOwner(2))
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	released, err := repo.ReleaseByOwner(ctx, domain.AppointmentOwner(1))
	require.NoError(t, err)
	assert.Equal(t, int64(2), released)

	released, err = repo.ReleaseByOwner(ctx, domain.AppointmentOwner(1))
	require.NoError(t, err)
	assert.Equal(t, int64(0), released)
}

func TestTransactionManager_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Appointments()
	errBoom := errors.New("boom")

	err := store.TxManager().DoSerializable(ctx, func(txCtx context.Context) error {
		_, err := repo.Create(txCtx, &domain.Appointment{SalonID: 1, Date: testDate, StartTime: "10:00", EndTime: "10:30"})
		require.NoError(t, err)
		_, err = store.TimeSlots().BulkCreate(txCtx, testTicks(1))
		require.NoError(t, err)
		return errBoom
	})
	assert.ErrorIs(t, err, errBoom)

	_, err = repo.GetByID(ctx, 1)
	assert.ErrorIs(t, err, appointment.ErrAppointmentNotFound)

	ticks, err := store.TimeSlots().GetByProfessionalAndDate(ctx, 1, testDate)
	require.NoError(t, err)
	assert.Empty(t, ticks)
}

func TestTransactionManager_RollbackOnPanic(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	assert.Panics(t, func() {
		_ = store.TxManager().Do(ctx, func(txCtx context.Context) error {
			_, _ = store.TimeSlots().BulkCreate(txCtx, testTicks(1))
			panic("unexpected")
		})
	})

	// хранилище разблокировано и откатено
	ticks, err := store.TimeSlots().GetByProfessionalAndDate(ctx, 1, testDate)
	require.NoError(t, err)
	assert.Empty(t, ticks)
}

func TestTransactionManager_Commit(t *testing.T) {
	ctx := context.Background()
	store := NewStore()

	err := store.TxManager().Do(ctx, func(txCtx context.Context) error {
		_, err := store.Appointments().Create(txCtx, &domain.Appointment{SalonID: 1, Date: testDate, Status: domain.StatusPending})
		return err
	})
	require.NoError(t, err)

	got, err := store.Appointments().GetByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)
}

func TestAppointmentRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Appointments()

	created, err := repo.Create(ctx, &domain.Appointment{
		SalonID:        1,
		ProfessionalID: ptr.Ptr(int64(1)),
		Date:           testDate,
		Status:         domain.StatusPending,
	})
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	*got.ProfessionalID = 99
	got.Status = domain.StatusCancelled

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), *again.ProfessionalID)
	assert.Equal(t, domain.StatusPending, again.Status)
}

func TestLoadSeedFile(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "seed.toml")
	content := `
[[services]]
id = 1
salon_id = 1
name = "Haircut"
price = 25.0
duration = "45min"

[[services]]
id = 2
salon_id = 2
name = "Coloring"
price = 80.0
duration = "1h 30min"

[[professionals]]
id = 1
salon_id = 1
name = "Anna"
is_available = true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	store := NewStore()
	n, err := store.LoadSeedFile(path)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	svc, err := store.Catalog().FindServiceByName(ctx, 1, "haircut")
	require.NoError(t, err)
	assert.Equal(t, int64(1), svc.ID)
	assert.Equal(t, 45, svc.DurationMinutes())

	_, err = store.Catalog().GetService(ctx, 1, 2)
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)

	professionals, err := store.Catalog().ListSalonProfessionals(ctx, 1)
	require.NoError(t, err)
	require.Len(t, professionals, 1)
	assert.Equal(t, "Anna", professionals[0].Name)
}

func TestApplySeed_RejectsMissingIDs(t *testing.T) {
	store := NewStore()

	_, err := store.ApplySeed(Seed{Services: []SeedService{{Name: "Haircut", SalonID: 1}}})
	assert.Error(t, err)

	_, err = store.Catalog().FindServiceByName(context.Background(), 1, "Haircut")
	assert.ErrorIs(t, err, catalog.ErrServiceNotFound)
}

func TestLoadSeedFile_Missing(t *testing.T) {
	_, err := NewStore().LoadSeedFile(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}
