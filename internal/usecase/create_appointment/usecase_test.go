package create_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/pkg/ptr"
)

// Тестовые дублёры

type fakeAppointmentRepo struct {
	existing []*domain.Appointment
	created  *domain.Appointment
	nextID   int64
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	appointment.ID = f.nextID
	f.created = appointment
	return appointment, nil
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	return f.existing, nil
}

type fakeRuleRepo struct {
	rules []*domain.PricingRule
}

func (f *fakeRuleRepo) GetActiveByBusinessID(ctx context.Context, businessID int64) ([]*domain.PricingRule, error) {
	return f.rules, nil
}

type fakeBusinessClient struct {
	business    *businessservice.Business
	service     *businessservice.Service
	businessErr error
	serviceErr  error
}

func (f *fakeBusinessClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.businessErr != nil {
		return nil, f.businessErr
	}
	return f.business, nil
}

func (f *fakeBusinessClient) GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error) {
	if f.serviceErr != nil {
		return nil, f.serviceErr
	}
	return f.service, nil
}

// fakeTxManager выполняет функцию без реальной транзакции
type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTimeProvider struct {
	now time.Time
}

func (p fixedTimeProvider) Now() time.Time {
	return p.now
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Фикстуры

// 15 октября 2025 - среда
var (
	wednesday = time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)
	// Запрос делается накануне утром
	tuesdayMorning = time.Date(2025, 10, 14, 9, 0, 0, 0, time.UTC)
)

func openBusiness() *businessservice.Business {
	day := businessservice.DaySchedule{
		IsOpen:    true,
		OpenTime:  ptr.Ptr("10:00"),
		CloseTime: ptr.Ptr("20:00"),
	}
	return &businessservice.Business{
		ID:         1,
		Name:       "Barberia El Barrio",
		ManagerIDs: []int64{100},
		WorkingHours: businessservice.WeekSchedule{
			Monday:    day,
			Tuesday:   day,
			Wednesday: day,
			Thursday:  day,
			Friday:    day,
		},
	}
}

func haircut() *businessservice.Service {
	return &businessservice.Service{
		ID:              10,
		BusinessID:      1,
		Name:            "Corte de pelo",
		BasePrice:       500,
		DurationMinutes: 30,
		IsActive:        true,
	}
}

func newTestUseCase(repo *fakeAppointmentRepo, ruleRepo *fakeRuleRepo, client *fakeBusinessClient) *UseCase {
	uc := NewUseCase(repo, ruleRepo, client, fakeTxManager{}, nopLogger{})
	uc.timeProvider = fixedTimeProvider{now: tuesdayMorning}
	return uc
}

func validRequest() *Request {
	return &Request{
		UserID:     5,
		BusinessID: 1,
		ServiceID:  10,
		Date:       wednesday,
		StartTime:  "12:00",
	}
}

func TestExecute_CreatesAppointmentWithDiscountedPrice(t *testing.T) {
	repo := &fakeAppointmentRepo{nextID: 77}
	rules := &fakeRuleRepo{rules: []*domain.PricingRule{
		{
			ID:              7,
			BusinessID:      1,
			Name:            "Happy hour",
			DaysOfWeek:      []int{3},
			TimeStart:       "10:00",
			TimeEnd:         "14:00",
			DiscountType:    domain.DiscountPercentage,
			DiscountPercent: 20,
			Priority:        1,
			IsActive:        true,
		},
	}}
	uc := newTestUseCase(repo, rules, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, int64(77), resp.ID)
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, 500.0, resp.OriginalPrice)
	assert.Equal(t, 400.0, resp.FinalPrice)
	require.NotNil(t, resp.AppliedRuleID)
	assert.Equal(t, int64(7), *resp.AppliedRuleID)
	assert.Equal(t, 30, resp.DurationMinutes)

	// Ценовое решение денормализовано в созданную запись
	require.NotNil(t, repo.created)
	assert.Equal(t, 400.0, repo.created.FinalPrice)
	assert.Equal(t, "Corte de pelo", repo.created.ServiceName)
}

func TestExecute_NoRules_KeepsBasePrice(t *testing.T) {
	repo := &fakeAppointmentRepo{nextID: 1}
	uc := newTestUseCase(repo, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	resp, err := uc.Execute(context.Background(), validRequest())

	require.NoError(t, err)
	assert.Equal(t, 500.0, resp.FinalPrice)
	assert.Nil(t, resp.AppliedRuleID)
}

func TestExecute_SlotTaken(t *testing.T) {
	repo := &fakeAppointmentRepo{
		nextID: 1,
		existing: []*domain.Appointment{
			{StartTime: "11:45", DurationMinutes: 30, Status: domain.StatusConfirmed},
		},
	}
	uc := newTestUseCase(repo, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_TouchingAppointmentDoesNotBlock(t *testing.T) {
	// Запись 11:30-12:00 граничит со слотом 12:00-12:30 - места хватает
	repo := &fakeAppointmentRepo{
		nextID: 1,
		existing: []*domain.Appointment{
			{StartTime: "11:30", DurationMinutes: 30, Status: domain.StatusConfirmed},
		},
	}
	uc := newTestUseCase(repo, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
}

func TestExecute_CancelledAppointmentDoesNotBlock(t *testing.T) {
	repo := &fakeAppointmentRepo{
		nextID: 1,
		existing: []*domain.Appointment{
			{StartTime: "12:00", DurationMinutes: 30, Status: domain.StatusCancelledByClient},
		},
	}
	uc := newTestUseCase(repo, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.NoError(t, err)
}

func TestExecute_BusinessClosed(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	req := validRequest()
	// 19 октября 2025 - воскресенье, бизнес закрыт
	req.Date = time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrBusinessClosed)
}

func TestExecute_SlotOutsideWorkingHours(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	req := validRequest()
	req.StartTime = "19:45" // конец 20:15 позже закрытия

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidTimeSlot)
}

func TestExecute_PastDate(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	req := validRequest()
	req.Date = time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_TooLateToBookToday(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})
	// Сейчас среда 11:30, запись на 12:00 нарушает часовой интервал
	uc.timeProvider = fixedTimeProvider{now: time.Date(2025, 10, 15, 11, 30, 0, 0, time.UTC)}

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrTooLateToBook)
}

func TestExecute_ServiceNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{
		business:   openBusiness(),
		serviceErr: businessservice.ErrServiceNotFound,
	})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestExecute_BusinessNotFound(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{
		businessErr: businessservice.ErrBusinessNotFound,
	})

	_, err := uc.Execute(context.Background(), validRequest())

	assert.ErrorIs(t, err, ErrBusinessNotFound)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&fakeAppointmentRepo{nextID: 1}, &fakeRuleRepo{}, &fakeBusinessClient{business: openBusiness(), service: haircut()})

	req := validRequest()
	req.StartTime = "12:60"

	_, err := uc.Execute(context.Background(), req)

	assert.ErrorIs(t, err, ErrInvalidInput)
}
