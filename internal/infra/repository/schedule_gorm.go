package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "github.com/frailin-studio/booking-api/internal/domain/schedule"
	"github.com/frailin-studio/booking-api/internal/models"
)

type ScheduleGormRepository struct {
	db *gorm.DB
}

func NewScheduleGormRepository(db *gorm.DB) *ScheduleGormRepository {
	return &ScheduleGormRepository{db: db}
}

// --------------------------------------------------
// Barber / Service
// --------------------------------------------------

func (r *ScheduleGormRepository) GetBarber(
	ctx context.Context,
	barberID uint,
) (*models.User, error) {

	var barber models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", barberID).
		First(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (r *ScheduleGormRepository) GetService(
	ctx context.Context,
	serviceID uint,
) (*models.Service, error) {

	var service models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND active = true", serviceID).
		First(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Schedule config
// --------------------------------------------------

func (r *ScheduleGormRepository) GetSchedule(
	ctx context.Context,
	barberID uint,
) (*models.BarberSchedule, error) {

	var sched models.BarberSchedule
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		First(&sched).Error; err != nil {
		return nil, err
	}
	return &sched, nil
}

func (r *ScheduleGormRepository) ListOverrides(
	ctx context.Context,
	barberID uint,
) ([]models.ScheduleOverride, error) {

	var overrides []models.ScheduleOverride
	if err := r.db.WithContext(ctx).
		Where("barber_id = ?", barberID).
		Order("weekday ASC").
		Find(&overrides).Error; err != nil {
		return nil, err
	}
	return overrides, nil
}

// --------------------------------------------------
// Client
// --------------------------------------------------

// GetOrCreateClient es idempotente por teléfono: nunca duplica un
// cliente. Completa el email si el existente no lo tenía.
func (r *ScheduleGormRepository) GetOrCreateClient(
	ctx context.Context,
	name string,
	phone string,
	email string,
) (*models.Client, error) {

	var client models.Client
	err := r.db.WithContext(ctx).
		Where("phone = ?", phone).
		First(&client).Error

	if err == nil {
		if client.Email == "" && email != "" {
			client.Email = email
			if err := r.db.WithContext(ctx).Save(&client).Error; err != nil {
				return nil, err
			}
		}
		return &client, nil
	}

	client = models.Client{
		Name:  name,
		Phone: phone,
		Email: email,
	}

	if err := r.db.WithContext(ctx).Create(&client).Error; err != nil {
		return nil, err
	}

	return &client, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

func (r *ScheduleGormRepository) ListActiveAppointments(
	ctx context.Context,
	barberID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Appointment, error) {

	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND status IN ? AND start_time >= ? AND start_time < ?",
			barberID, domain.ActiveStatuses(), dayStart, dayEnd,
		).
		Order("start_time ASC").
		Find(&apps).Error; err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *ScheduleGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *ScheduleGormRepository) GetAppointmentForBarber(
	ctx context.Context,
	appointmentID uint,
	barberID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("id = ? AND barber_id = ?", appointmentID, barberID).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) GetAppointmentByToken(
	ctx context.Context,
	token string,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Service").
		Where("token = ?", token).
		First(&ap).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *ScheduleGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

// --------------------------------------------------
// Blocked intervals
// --------------------------------------------------

func (r *ScheduleGormRepository) ListBlockedIntervals(
	ctx context.Context,
	barberID uint,
	date string,
) ([]models.BlockedInterval, error) {

	var blocks []models.BlockedInterval
	if err := r.db.WithContext(ctx).
		Where("barber_id = ? AND date = ?", barberID, date).
		Order("start_time ASC").
		Find(&blocks).Error; err != nil {
		return nil, err
	}
	return blocks, nil
}

// --------------------------------------------------
// Waitlist
// --------------------------------------------------

func (r *ScheduleGormRepository) ListWaitingEntries(
	ctx context.Context,
	date string,
) ([]models.WaitlistEntry, error) {

	var entries []models.WaitlistEntry
	if err := r.db.WithContext(ctx).
		Where("date = ? AND status = ?", date, string(domain.WaitlistWaiting)).
		Order("created_at ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *ScheduleGormRepository) UpdateWaitlistEntry(
	ctx context.Context,
	entry *models.WaitlistEntry,
) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Compile-time check
var _ domain.Repository = (*ScheduleGormRepository)(nil)
