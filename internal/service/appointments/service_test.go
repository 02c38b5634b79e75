package appointments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	appointmentRepo "github.com/barrio-app/Barrio-PricingService/internal/infra/storage/appointment"
	"github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/internal/service/appointments/models"
)

// Тестовые дублёры

type fakeAppointmentRepo struct {
	appointments map[int64]*domain.Appointment

	cancelledID     int64
	cancelledStatus domain.AppointmentStatus
	cancelledReason string

	updatedID     int64
	updatedStatus domain.AppointmentStatus
}

func newFakeAppointmentRepo(appointments ...*domain.Appointment) *fakeAppointmentRepo {
	repo := &fakeAppointmentRepo{appointments: make(map[int64]*domain.Appointment)}
	for _, a := range appointments {
		repo.appointments[a.ID] = a
	}
	return repo
}

func (f *fakeAppointmentRepo) Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error) {
	f.appointments[appointment.ID] = appointment
	return appointment, nil
}

func (f *fakeAppointmentRepo) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	appointment, ok := f.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appointment, nil
}

func (f *fakeAppointmentRepo) GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range f.appointments {
		if a.UserID != userID {
			continue
		}
		if status != nil && a.Status != *status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) GetByBusinessWithFilter(ctx context.Context, filter domain.BusinessAppointmentsFilter) ([]*domain.Appointment, error) {
	var result []*domain.Appointment
	for _, a := range f.appointments {
		if a.BusinessID != filter.BusinessID {
			continue
		}
		if !filter.IncludeInactive && !a.IsActive() {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		result = append(result, a)
	}
	return result, nil
}

func (f *fakeAppointmentRepo) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	if _, ok := f.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.updatedID = id
	f.updatedStatus = status
	f.appointments[id].Status = status
	return nil
}

func (f *fakeAppointmentRepo) Cancel(ctx context.Context, id int64, status domain.AppointmentStatus, reason string) error {
	if _, ok := f.appointments[id]; !ok {
		return appointmentRepo.ErrAppointmentNotFound
	}
	f.cancelledID = id
	f.cancelledStatus = status
	f.cancelledReason = reason
	f.appointments[id].Status = status
	return nil
}

type fakeBusinessClient struct {
	business *businessservice.Business
	err      error
}

func (f *fakeBusinessClient) GetBusiness(ctx context.Context, businessID int64) (*businessservice.Business, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.business, nil
}

func (f *fakeBusinessClient) GetService(ctx context.Context, businessID, serviceID int64) (*businessservice.Service, error) {
	return nil, businessservice.ErrServiceNotFound
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

// Фикстуры

const (
	clientID  = int64(7)
	managerID = int64(100)
)

func barbershop() *businessservice.Business {
	return &businessservice.Business{
		ID:         1,
		Name:       "Barbería El Vecino",
		ManagerIDs: []int64{managerID},
	}
}

func confirmedAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:              55,
		UserID:          clientID,
		BusinessID:      1,
		ServiceID:       10,
		AppointmentDate: time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:       "12:00",
		DurationMinutes: 30,
		Status:          domain.StatusConfirmed,
		ServiceName:     "Corte de pelo",
		OriginalPrice:   500,
		FinalPrice:      400,
	}
}

func newService(repo *fakeAppointmentRepo, client *fakeBusinessClient) *Service {
	return NewService(repo, client, nopLogger{})
}

// GetByID

func TestGetByID_Owner_Succeeds(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	resp, err := svc.GetByID(context.Background(), 55, clientID)

	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.ID)
	assert.Equal(t, "Corte de pelo", resp.ServiceName)
	assert.Equal(t, 400.0, resp.FinalPrice)
}

func TestGetByID_Manager_Succeeds(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	resp, err := svc.GetByID(context.Background(), 55, managerID)

	require.NoError(t, err)
	assert.Equal(t, int64(55), resp.ID)
}

func TestGetByID_Stranger_AccessDenied(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	_, err := svc.GetByID(context.Background(), 55, 999)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newService(newFakeAppointmentRepo(), &fakeBusinessClient{business: barbershop()})

	_, err := svc.GetByID(context.Background(), 404, clientID)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

// Cancel

func TestCancel_ByOwner_CancelledByClient(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	err := svc.Cancel(context.Background(), 55, &models.CancelAppointmentRequest{
		UserID:             clientID,
		CancellationReason: "планы изменились",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(55), repo.cancelledID)
	assert.Equal(t, domain.StatusCancelledByClient, repo.cancelledStatus)
	assert.Equal(t, "планы изменились", repo.cancelledReason)
}

func TestCancel_ByManager_CancelledByBusiness(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	err := svc.Cancel(context.Background(), 55, &models.CancelAppointmentRequest{
		UserID: managerID,
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByBusiness, repo.cancelledStatus)
}

func TestCancel_ByStranger_AccessDenied(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	err := svc.Cancel(context.Background(), 55, &models.CancelAppointmentRequest{
		UserID: 999,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Zero(t, repo.cancelledID)
}

func TestCancel_CompletedAppointment_CannotCancel(t *testing.T) {
	appointment := confirmedAppointment()
	appointment.Status = domain.StatusCompleted

	repo := newFakeAppointmentRepo(appointment)
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	err := svc.Cancel(context.Background(), 55, &models.CancelAppointmentRequest{
		UserID: clientID,
	})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

// GetUserAppointments

func TestGetUserAppointments_FiltersByStatus(t *testing.T) {
	cancelled := confirmedAppointment()
	cancelled.ID = 56
	cancelled.Status = domain.StatusCancelledByClient

	repo := newFakeAppointmentRepo(confirmedAppointment(), cancelled)
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	status := "confirmed"
	resp, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: clientID,
		Status: &status,
	})

	require.NoError(t, err)
	require.Len(t, resp.Appointments, 1)
	assert.Equal(t, "confirmed", resp.Appointments[0].Status)
}

func TestGetUserAppointments_InvalidStatus(t *testing.T) {
	svc := newService(newFakeAppointmentRepo(), &fakeBusinessClient{business: barbershop()})

	status := "bogus"
	_, err := svc.GetUserAppointments(context.Background(), &models.GetUserAppointmentsRequest{
		UserID: clientID,
		Status: &status,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

// GetBusinessAppointments

func TestGetBusinessAppointments_ManagerOnly(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	_, err := svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     999,
		BusinessID: 1,
	})

	assert.ErrorIs(t, err, ErrAccessDenied)

	resp, err := svc.GetBusinessAppointments(context.Background(), &models.GetBusinessAppointmentsRequest{
		UserID:     managerID,
		BusinessID: 1,
	})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}

// UpdateStatus

func TestUpdateStatus_ByManager_Succeeds(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: "completed",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, repo.updatedStatus)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	repo := newFakeAppointmentRepo(confirmedAppointment())
	svc := newService(repo, &fakeBusinessClient{business: barbershop()})

	err := svc.UpdateStatus(context.Background(), 55, &models.UpdateStatusRequest{
		UserID: managerID,
		Status: "bogus",
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}
