package create_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/barrio-app/Barrio-PricingService/internal/domain"
	businessClient "github.com/barrio-app/Barrio-PricingService/internal/integrations/businessservice"
	"github.com/barrio-app/Barrio-PricingService/pkg/types"
)

// UseCase use case для создания записи на услугу
type UseCase struct {
	appointmentRepo AppointmentRepository
	ruleRepo        RuleRepository
	businessClient  BusinessServiceClient
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	ruleRepo RuleRepository,
	businessClient BusinessServiceClient,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		ruleRepo:        ruleRepo,
		businessClient:  businessClient,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания записи
// Использует сериализуемую транзакцию для предотвращения гонки данных:
// проверка занятости слота и вставка записи выполняются атомарно.
// Цена фиксируется в момент записи и денормализуется в неё - последующие
// изменения правил на сохранённые записи не влияют.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateAppointment: user=%d, business=%d, service=%d, date=%s, time=%s",
		req.UserID, req.BusinessID, req.ServiceID, req.Date.Format(domain.DateFormat), req.StartTime)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateAppointment: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем бизнес с расписанием работы
	business, err := uc.businessClient.GetBusiness(ctx, req.BusinessID)
	if err != nil {
		if errors.Is(err, businessClient.ErrBusinessNotFound) {
			uc.logger.Warn("CreateAppointment: business id=%d not found", req.BusinessID)
			return nil, ErrBusinessNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get business id=%d: %v", req.BusinessID, err)
		return nil, fmt.Errorf("%w: failed to get business: %v", ErrInternal, err)
	}

	// 4. Получаем услугу
	service, err := uc.businessClient.GetService(ctx, req.BusinessID, req.ServiceID)
	if err != nil {
		if errors.Is(err, businessClient.ErrServiceNotFound) {
			uc.logger.Warn("CreateAppointment: service id=%d not found", req.ServiceID)
			return nil, ErrServiceNotFound
		}
		uc.logger.Error("CreateAppointment: failed to get service id=%d: %v", req.ServiceID, err)
		return nil, fmt.Errorf("%w: failed to get service: %v", ErrInternal, err)
	}

	if !service.IsActive {
		uc.logger.Warn("CreateAppointment: service id=%d is inactive", req.ServiceID)
		return nil, ErrServiceInactive
	}

	duration := service.DurationMinutes
	if duration <= 0 {
		duration = domain.DefaultSlotDurationMinutes
	}

	// 5. Проверяем дату и рабочие часы
	if err := validateDate(req.Date, now); err != nil {
		uc.logger.Warn("CreateAppointment: date validation failed: %v", err)
		return nil, err
	}

	schedule := business.ScheduleForWeekday(req.Date.Weekday())
	if !schedule.IsOpen {
		uc.logger.Warn("CreateAppointment: business is closed on %s", req.Date.Format(domain.DateFormat))
		return nil, ErrBusinessClosed
	}

	// Слот должен целиком помещаться в рабочие часы
	slotEnd, err := req.StartTime.AddMinutes(duration)
	if err != nil {
		uc.logger.Warn("CreateAppointment: slot end is out of day bounds: %v", err)
		return nil, ErrInvalidTimeSlot
	}
	slot := types.TimeSlot{Start: req.StartTime, End: slotEnd}

	if err := validateWithinWorkingHours(schedule, slot); err != nil {
		uc.logger.Warn("CreateAppointment: working hours validation failed: %v", err)
		return nil, err
	}

	// 6. Проверяем минимальное время до начала записи
	if err := validateNotice(req.Date, req.StartTime, now, domain.DefaultMinBookingNoticeMinutes); err != nil {
		uc.logger.Warn("CreateAppointment: notice validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var result *domain.Appointment

	// 7. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 7.1. Получаем все активные записи на эту дату с блокировкой (FOR UPDATE)
		filter := domain.BusinessAppointmentsFilter{
			BusinessID:      req.BusinessID,
			StartDate:       &req.Date,
			EndDate:         &req.Date,
			IncludeInactive: false, // Только активные записи
		}

		appointments, err := uc.appointmentRepo.GetByBusinessWithFilter(txCtx, filter)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get appointments: %v", err)
			return fmt.Errorf("%w: failed to get appointments: %v", ErrInternal, err)
		}

		// 7.2. Проверяем доступность слота
		overlappingCount := countOverlappingAppointments(slot, appointments)
		if overlappingCount >= domain.DefaultMaxConcurrentBookings {
			uc.logger.Warn("CreateAppointment: slot not available, %d/%d spots taken",
				overlappingCount, domain.DefaultMaxConcurrentBookings)
			return ErrSlotNotAvailable
		}

		// 7.3. Рассчитываем цену по действующим правилам
		rules, err := uc.ruleRepo.GetActiveByBusinessID(txCtx, req.BusinessID)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to get rules: %v", err)
			return fmt.Errorf("%w: failed to get rules: %v", ErrInternal, err)
		}

		applicable := make([]*domain.PricingRule, 0, len(rules))
		for _, rule := range rules {
			if rule.AppliesToService(req.ServiceID) {
				applicable = append(applicable, rule)
			}
		}

		computed := domain.ComputePrice(service.BasePrice, applicable, req.Date, req.StartTime)

		if computed.HasDiscount() {
			uc.logger.Info("CreateAppointment: applied rule id=%d, price %.2f -> %.2f",
				*computed.AppliedRuleID, computed.OriginalPrice, computed.DiscountedPrice)
		}

		// 7.4. Создаем запись с денормализацией ценового решения
		appointment := &domain.Appointment{
			UserID:          req.UserID,
			BusinessID:      req.BusinessID,
			ServiceID:       req.ServiceID,
			AppointmentDate: req.Date,
			StartTime:       req.StartTime,
			DurationMinutes: duration,
			Status:          domain.StatusConfirmed,
			// Денормализация услуги и цены
			ServiceName:     service.Name,
			OriginalPrice:   computed.OriginalPrice,
			FinalPrice:      computed.DiscountedPrice,
			AppliedRuleID:   computed.AppliedRuleID,
			AppliedRuleName: computed.RuleName,
			Notes:           req.Notes,
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("CreateAppointment: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("CreateAppointment: successfully created appointment id=%d", result.ID)

	return &Response{
		ID:              result.ID,
		UserID:          result.UserID,
		BusinessID:      result.BusinessID,
		ServiceID:       result.ServiceID,
		AppointmentDate: result.AppointmentDate,
		StartTime:       result.StartTime,
		DurationMinutes: result.DurationMinutes,
		Status:          string(result.Status),
		ServiceName:     result.ServiceName,
		OriginalPrice:   result.OriginalPrice,
		FinalPrice:      result.FinalPrice,
		AppliedRuleID:   result.AppliedRuleID,
		AppliedRuleName: result.AppliedRuleName,
		Notes:           result.Notes,
		CreatedAt:       result.CreatedAt,
		UpdatedAt:       result.UpdatedAt,
	}, nil
}
