package booking_test

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/frailin-studio/booking-api/internal/audit"
	"github.com/frailin-studio/booking-api/internal/cache"
	dbpkg "github.com/frailin-studio/booking-api/internal/db"
	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/httperr"
	infraRepo "github.com/frailin-studio/booking-api/internal/infra/repository"
	"github.com/frailin-studio/booking-api/internal/models"
	"github.com/frailin-studio/booking-api/internal/notify"
	"github.com/frailin-studio/booking-api/internal/timezone"
	"github.com/frailin-studio/booking-api/internal/usecase/booking"
)

// ======================================================
// FIXTURE
// ======================================================

var testDBSeq atomic.Int64

type testEnv struct {
	db   *gorm.DB
	repo *infraRepo.ScheduleGormRepository

	availability *booking.GetAvailability
	create       *booking.CreateAppointment
	cancel       *booking.CancelAppointment
	complete     *booking.CompleteAppointment
	noShow       *booking.MarkNoShow

	barber  models.User
	service models.Service
}

// newTestEnv levanta una base sqlite en memoria con el cableado real
// de los casos de uso y la política de auto-promoción.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:booking_test_%d?mode=memory&cache=shared", testDBSeq.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// sqlite en memoria: una sola conexión evita SQLITE_BUSY y
	// mantiene viva la base durante todo el test
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, dbpkg.Migrate(db))

	repo := infraRepo.NewScheduleGormRepository(db)
	auditDispatcher := audit.NewDispatcher(audit.New(db))
	notifier := notify.NewDispatcher(notify.LogSender{})

	slotCache, err := cache.New(32)
	require.NoError(t, err)

	availabilityUC := booking.NewGetAvailability(repo, slotCache)
	createUC := booking.NewCreateAppointment(repo, auditDispatcher, notifier, slotCache, "Frailin Studio")
	promoteUC := booking.NewPromoteFromWaitlist(repo, createUC, notifier, auditDispatcher, "Frailin Studio")
	cancelUC := booking.NewCancelAppointment(
		repo, auditDispatcher, notifier, slotCache,
		booking.NewPromoteWaitlistPolicy(promoteUC),
	)

	env := &testEnv{
		db:           db,
		repo:         repo,
		availability: availabilityUC,
		create:       createUC,
		cancel:       cancelUC,
		complete:     booking.NewCompleteAppointment(repo, auditDispatcher),
		noShow:       booking.NewMarkNoShow(repo, auditDispatcher),
	}

	env.barber = models.User{
		Name:         "Frailin",
		Email:        "frailin@example.com",
		PasswordHash: "x",
		Phone:        "+573001112233",
		Role:         models.RoleBarber,
		Active:       true,
	}
	require.NoError(t, db.Create(&env.barber).Error)

	env.service = models.Service{
		Name:        "Corte clásico",
		DurationMin: 30,
		Price:       25000,
		Active:      true,
	}
	require.NoError(t, db.Create(&env.service).Error)

	sched := models.BarberSchedule{
		BarberID:           env.barber.ID,
		OpenTime:           "09:00",
		CloseTime:          "19:00",
		SlotGranularityMin: 15,
		DaysOff:            "0", // domingo
	}
	require.NoError(t, db.Create(&sched).Error)

	return env
}

// 2030-03-15 es viernes; 2030-03-17 es domingo (día libre del fixture).
const (
	openDay   = "2030-03-15"
	closedDay = "2030-03-17"
)

func (e *testEnv) book(t *testing.T, date, hhmm, phone string) (*models.Appointment, error) {
	t.Helper()
	return e.create.Execute(context.Background(), booking.CreateAppointmentInput{
		BarberID:    e.barber.ID,
		ServiceID:   e.service.ID,
		ClientName:  "Cliente " + phone,
		ClientPhone: phone,
		Date:        date,
		Time:        hhmm,
	})
}

func slotByTime(av *domain.Availability, hhmm string) (domain.Slot, bool) {
	for _, s := range av.Slots {
		if s.Time == hhmm {
			return s, true
		}
	}
	return domain.Slot{}, false
}

// ======================================================
// BOOKING
// ======================================================

func TestBookingRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	av, err := env.availability.Execute(ctx, booking.AvailabilityInput{
		BarberID:  env.barber.ID,
		ServiceID: env.service.ID,
		Date:      openDay,
	})
	require.NoError(t, err)
	require.False(t, av.DayOff)
	require.False(t, av.Blocked)

	// 09:00–19:00 con paso de 15 y servicio de 30 → 09:00..18:30
	require.Len(t, av.Slots, 39)
	assert.Equal(t, "09:00", av.Slots[0].Time)
	assert.Equal(t, "18:30", av.Slots[len(av.Slots)-1].Time)

	slot, ok := slotByTime(av, "10:00")
	require.True(t, ok)
	assert.True(t, slot.Available)

	ap, err := env.book(t, openDay, "10:00", "+573005550001")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)
	assert.Equal(t, models.BookedByClient, ap.BookedBy)
	assert.NotEmpty(t, ap.Token)

	weekday, hour, minute := timezone.WallClock(ap.StartTime)
	assert.Equal(t, 5, weekday) // viernes
	assert.Equal(t, 10, hour)
	assert.Equal(t, 0, minute)

	av, err = env.availability.Execute(ctx, booking.AvailabilityInput{
		BarberID:  env.barber.ID,
		ServiceID: env.service.ID,
		Date:      openDay,
	})
	require.NoError(t, err)

	// La cita 10:00–10:30 apaga todo candidato que se le cruce.
	for _, hhmm := range []string{"09:45", "10:00", "10:15"} {
		slot, ok := slotByTime(av, hhmm)
		require.True(t, ok, hhmm)
		assert.False(t, slot.Available, hhmm)
	}
	slot, ok = slotByTime(av, "10:30")
	require.True(t, ok)
	assert.True(t, slot.Available)
}

func TestBookingClosedDay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	av, err := env.availability.Execute(ctx, booking.AvailabilityInput{
		BarberID:  env.barber.ID,
		ServiceID: env.service.ID,
		Date:      closedDay,
	})
	require.NoError(t, err)
	assert.True(t, av.DayOff)
	assert.Empty(t, av.Slots)

	_, err = env.book(t, closedDay, "10:00", "+573005550002")
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeClosedDay, be.Code)
}

func TestBookingOutsideHours(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.book(t, openDay, "08:00", "+573005550003")
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeOutsideHours, be.Code)
	assert.Contains(t, be.Message, "09:00")
	assert.Contains(t, be.Message, "19:00")

	// 18:30 es el último candidato que cierra a tiempo; 18:45 no cabe.
	_, err = env.book(t, openDay, "18:45", "+573005550004")
	be, ok = httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeOutsideHours, be.Code)

	_, err = env.book(t, openDay, "18:30", "+573005550005")
	require.NoError(t, err)
}

func TestBookingOverlapRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.book(t, openDay, "10:00", "+573005550006")
	require.NoError(t, err)

	// 10:15 se cruza con la cita 10:00–10:30 aunque no empiece igual
	_, err = env.book(t, openDay, "10:15", "+573005550007")
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeSlotTaken, be.Code)
}

func TestBookingBlockedSlot(t *testing.T) {
	env := newTestEnv(t)

	block := models.BlockedInterval{
		BarberID:  env.barber.ID,
		Date:      openDay,
		StartTime: "12:00",
		EndTime:   "13:00",
		Reason:    "almuerzo",
	}
	require.NoError(t, env.db.Create(&block).Error)

	_, err := env.book(t, openDay, "12:30", "+573005550008")
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, httperr.CodeSlotBlocked, be.Code)

	// El fin del bloqueo es exclusivo: 13:00 ya se puede
	_, err = env.book(t, openDay, "13:00", "+573005550009")
	require.NoError(t, err)
}

func TestBookingAllDayBlock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	block := models.BlockedInterval{
		BarberID:  env.barber.ID,
		Date:      openDay,
		StartTime: "00:00",
		EndTime:   "23:59",
		AllDay:    true,
		Reason:    "diligencia personal",
	}
	require.NoError(t, env.db.Create(&block).Error)

	av, err := env.availability.Execute(ctx, booking.AvailabilityInput{
		BarberID:  env.barber.ID,
		ServiceID: env.service.ID,
		Date:      openDay,
	})
	require.NoError(t, err)
	assert.True(t, av.Blocked)
	assert.False(t, av.DayOff)
	assert.Empty(t, av.Slots)
}

func TestBookingConcurrentSameSlot(t *testing.T) {
	env := newTestEnv(t)

	const workers = 8

	var (
		wg        sync.WaitGroup
		booked    atomic.Int64
		conflicts atomic.Int64
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()

			phone := fmt.Sprintf("+5730055512%02d", i)
			_, err := env.book(t, openDay, "15:00", phone)
			if err == nil {
				booked.Add(1)
				return
			}
			if be, ok := httperr.AsBusiness(err); ok && be.Code == httperr.CodeSlotTaken {
				conflicts.Add(1)
			}
		}(i)
	}
	wg.Wait()

	// Exactamente una de las reservas en disputa gana el cupo.
	assert.Equal(t, int64(1), booked.Load())
	assert.Equal(t, int64(workers-1), conflicts.Load())

	var count int64
	env.db.Model(&models.Appointment{}).
		Where("status = ?", string(domain.StatusConfirmed)).
		Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestBookingUnknownService(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.create.Execute(context.Background(), booking.CreateAppointmentInput{
		BarberID:    env.barber.ID,
		ServiceID:   999,
		ClientName:  "Nadie",
		ClientPhone: "+573005550010",
		Date:        openDay,
		Time:        "10:00",
	})
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "service_not_found", be.Code)
}

// ======================================================
// CANCEL + CASCADE
// ======================================================

func TestCancelPromotesWaitlist(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ap, err := env.book(t, openDay, "14:00", "+573005550011")
	require.NoError(t, err)

	entry := models.WaitlistEntry{
		Date:      openDay,
		ServiceID: env.service.ID,
		Name:      "Pedro",
		Phone:     "+573005550012",
		Status:    string(domain.WaitlistWaiting),
	}
	require.NoError(t, env.db.Create(&entry).Error)

	cancelled, err := env.cancel.ExecuteByID(ctx, env.barber.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCancelled), cancelled.Status)
	require.NotNil(t, cancelled.CancelledAt)

	// La entrada pasó a BOOKED y existe una cita nueva en el mismo cupo
	var reloaded models.WaitlistEntry
	require.NoError(t, env.db.First(&reloaded, entry.ID).Error)
	assert.Equal(t, string(domain.WaitlistBooked), reloaded.Status)
	assert.True(t, reloaded.Notified)

	var promoted models.Appointment
	require.NoError(t, env.db.
		Preload("Client").
		Where("status = ? AND start_time = ?", string(domain.StatusConfirmed), ap.StartTime).
		First(&promoted).Error)
	assert.Equal(t, models.BookedByBarber, promoted.BookedBy)
	assert.Equal(t, "Pedro", promoted.Client.Name)
	assert.Equal(t, env.service.ID, promoted.ServiceID)
}

func TestCancelPrefersSameService(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	other := models.Service{Name: "Barba", DurationMin: 15, Active: true}
	require.NoError(t, env.db.Create(&other).Error)

	ap, err := env.book(t, openDay, "14:00", "+573005550013")
	require.NoError(t, err)

	// El más antiguo pidió otro servicio; gana el que pidió el mismo
	first := models.WaitlistEntry{
		Date: openDay, ServiceID: other.ID,
		Name: "Ana", Phone: "+573005550014",
		Status: string(domain.WaitlistWaiting),
	}
	require.NoError(t, env.db.Create(&first).Error)

	second := models.WaitlistEntry{
		Date: openDay, ServiceID: env.service.ID,
		Name: "Luis", Phone: "+573005550015",
		Status: string(domain.WaitlistWaiting),
	}
	require.NoError(t, env.db.Create(&second).Error)

	_, err = env.cancel.ExecuteByID(ctx, env.barber.ID, ap.ID)
	require.NoError(t, err)

	var reloadedFirst, reloadedSecond models.WaitlistEntry
	require.NoError(t, env.db.First(&reloadedFirst, first.ID).Error)
	require.NoError(t, env.db.First(&reloadedSecond, second.ID).Error)

	assert.Equal(t, string(domain.WaitlistWaiting), reloadedFirst.Status)
	assert.Equal(t, string(domain.WaitlistBooked), reloadedSecond.Status)
}

func TestCancelByTokenFreesSlot(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ap, err := env.book(t, openDay, "11:00", "+573005550016")
	require.NoError(t, err)

	_, err = env.cancel.ExecuteByToken(ctx, ap.Token)
	require.NoError(t, err)

	av, err := env.availability.Execute(ctx, booking.AvailabilityInput{
		BarberID:  env.barber.ID,
		ServiceID: env.service.ID,
		Date:      openDay,
	})
	require.NoError(t, err)

	slot, ok := slotByTime(av, "11:00")
	require.True(t, ok)
	assert.True(t, slot.Available)
}

func TestMutationsScopedToOwningBarber(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ap, err := env.book(t, openDay, "17:00", "+573005550018")
	require.NoError(t, err)

	intruder := models.User{
		Name:         "Otro",
		Email:        "otro@example.com",
		PasswordHash: "x",
		Role:         models.RoleBarber,
		Active:       true,
	}
	require.NoError(t, env.db.Create(&intruder).Error)

	// La cita de un barbero es invisible para las mutaciones de otro
	_, err = env.cancel.ExecuteByID(ctx, intruder.ID, ap.ID)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "appointment_not_found", be.Code)

	_, err = env.complete.Execute(ctx, intruder.ID, ap.ID)
	be, ok = httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "appointment_not_found", be.Code)

	_, err = env.noShow.Execute(ctx, intruder.ID, ap.ID)
	be, ok = httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "appointment_not_found", be.Code)

	var reloaded models.Appointment
	require.NoError(t, env.db.First(&reloaded, ap.ID).Error)
	assert.Equal(t, string(domain.StatusConfirmed), reloaded.Status)

	// El dueño sí puede cerrar su propia cita
	done, err := env.complete.Execute(ctx, env.barber.ID, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), done.Status)
}

func TestCancelTwiceRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	ap, err := env.book(t, openDay, "16:00", "+573005550017")
	require.NoError(t, err)

	_, err = env.cancel.ExecuteByID(ctx, env.barber.ID, ap.ID)
	require.NoError(t, err)

	_, err = env.cancel.ExecuteByID(ctx, env.barber.ID, ap.ID)
	be, ok := httperr.AsBusiness(err)
	require.True(t, ok)
	assert.Equal(t, "invalid_state", be.Code)
}
