package usecase

import (
	"context"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/repository"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

// materializeWindow bounds how far ahead the scheduler creates
// occurrences for recurring series.
const materializeWindow = 90 * 24 * time.Hour

// maxOccurrences caps expansion per series per run, so a misconfigured
// interval cannot flood the instances table.
const maxOccurrences = 500

type EventUsecase struct {
	EventRepository *repository.EventRepository
	UserRepository  *repository.UserRepository
	DB              *pgxpool.Pool
	Log             *zap.Logger
	Config          *koanf.Koanf
}

func NewEventUsecase(eventRepository *repository.EventRepository, userRepository *repository.UserRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf) *EventUsecase {
	return &EventUsecase{
		EventRepository: eventRepository,
		UserRepository:  userRepository,
		DB:              db,
		Log:             zap,
		Config:          koanf,
	}
}

func (usecase *EventUsecase) requireAdmin(ctx *fiber.Ctx, userId uuid.UUID) error {
	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctx.Context(), userId)
	if err != nil {
		return err
	}

	if !capabilities.Admin {
		return &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to manage events",
			Param:   "userId",
		}
	}

	return nil
}

func (usecase *EventUsecase) validateSeriesPayload(payload model.EventSeriesCreateRequest) (time.Time, *time.Time, error) {
	var start time.Time
	var until *time.Time

	if payload.Title == "" {
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Title is required to not be empty",
			Param:   "title",
		}
	} else if len(payload.Title) > 120 {
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Title must be at most 120 characters",
			Param:   "title",
		}
	}

	start, err := time.Parse(time.RFC3339, payload.StartDatetime)
	if err != nil {
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Start datetime must be a valid RFC3339 timestamp",
			Param:   "startDatetime",
		}
	}

	if payload.DurationMinutes < 1 {
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Duration must be at least 1 minute",
			Param:   "durationMinutes",
		}
	}

	switch model.RecurrenceFreq(payload.Freq) {
	case model.RecurrenceNone, model.RecurrenceDaily, model.RecurrenceWeekly, model.RecurrenceMonthly:
	default:
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Freq must be one of none, daily, weekly, monthly",
			Param:   "freq",
		}
	}

	if model.RecurrenceFreq(payload.Freq) != model.RecurrenceNone && payload.Interval < 1 {
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Interval must be at least 1",
			Param:   "interval",
		}
	}

	if payload.Capacity != nil && *payload.Capacity < 1 {
		return start, until, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Capacity must be at least 1",
			Param:   "capacity",
		}
	}

	if payload.Until != nil {
		parsed, err := time.Parse(time.RFC3339, *payload.Until)
		if err != nil {
			return start, until, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Until must be a valid RFC3339 timestamp",
				Param:   "until",
			}
		}
		if parsed.Before(start) {
			return start, until, &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Until must not be before the start datetime",
				Param:   "until",
			}
		}
		until = &parsed
	}

	return start, until, nil
}

func (usecase *EventUsecase) CreateSeries(ctx *fiber.Ctx, adminId uuid.UUID, payload model.EventSeriesCreateRequest) (model.EventSeries, error) {
	ctxContext := ctx.Context()
	series := model.EventSeries{}

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return series, err
	}

	start, until, err := usecase.validateSeriesPayload(payload)
	if err != nil {
		return series, err
	}

	now := time.Now().UTC()
	series = model.EventSeries{
		Id:              uuid.New(),
		Title:           payload.Title,
		Description:     payload.Description,
		Location:        payload.Location,
		StartDatetime:   start,
		DurationMinutes: payload.DurationMinutes,
		MembersOnly:     payload.MembersOnly,
		Capacity:        payload.Capacity,
		Freq:            model.RecurrenceFreq(payload.Freq),
		Interval:        payload.Interval,
		Until:           until,
		CreateDatetime:  now,
		UpdateDatetime:  now,
		CreateUserId:    adminId,
		UpdateUserId:    adminId,
	}

	err = usecase.EventRepository.CreateSeries(ctxContext, series)
	if err != nil {
		return series, err
	}

	// The first occurrence exists as soon as the series does. Later ones
	// come from the scheduler.
	err = usecase.materializeSeries(ctxContext, series, now, now.Add(materializeWindow))
	if err != nil {
		return series, err
	}

	return series, nil
}

func (usecase *EventUsecase) UpdateSeries(ctx *fiber.Ctx, adminId uuid.UUID, seriesId uuid.UUID, payload model.EventSeriesCreateRequest) (model.EventSeries, error) {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return model.EventSeries{}, err
	}

	series, err := usecase.EventRepository.GetSeries(ctxContext, seriesId)
	if err != nil {
		return series, err
	}

	start, until, err := usecase.validateSeriesPayload(payload)
	if err != nil {
		return series, err
	}

	series.Title = payload.Title
	series.Description = payload.Description
	series.Location = payload.Location
	series.StartDatetime = start
	series.DurationMinutes = payload.DurationMinutes
	series.MembersOnly = payload.MembersOnly
	series.Capacity = payload.Capacity
	series.Freq = model.RecurrenceFreq(payload.Freq)
	series.Interval = payload.Interval
	series.Until = until
	series.UpdateDatetime = time.Now().UTC()
	series.UpdateUserId = adminId

	err = usecase.EventRepository.UpdateSeries(ctxContext, series)
	if err != nil {
		return series, err
	}

	return series, nil
}

func (usecase *EventUsecase) DeleteSeries(ctx *fiber.Ctx, adminId uuid.UUID, seriesId uuid.UUID) error {
	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return err
	}

	_, err = usecase.EventRepository.GetSeries(ctx.Context(), seriesId)
	if err != nil {
		return err
	}

	return usecase.EventRepository.DeleteSeries(ctx.Context(), seriesId)
}

func (usecase *EventUsecase) ListSeries(ctx *fiber.Ctx, adminId uuid.UUID) ([]model.EventSeries, error) {
	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return nil, err
	}

	return usecase.EventRepository.ListSeries(ctx.Context())
}

func (usecase *EventUsecase) ListUpcoming(ctx *fiber.Ctx, userId uuid.UUID) ([]model.EventInstanceResponse, error) {
	return usecase.EventRepository.ListUpcomingInstances(ctx.Context(), time.Now().UTC(), userId)
}

func (usecase *EventUsecase) OverrideInstance(ctx *fiber.Ctx, adminId uuid.UUID, instanceId uuid.UUID, payload model.EventInstanceOverrideRequest) (model.EventInstance, error) {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return model.EventInstance{}, err
	}

	instance, err := usecase.EventRepository.GetInstance(ctxContext, instanceId)
	if err != nil {
		return instance, err
	}

	if payload.Capacity != nil && *payload.Capacity < 1 {
		return instance, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Capacity must be at least 1",
			Param:   "capacity",
		}
	}

	if payload.Cancelled != nil {
		instance.Cancelled = *payload.Cancelled
	}
	if payload.MembersOnly != nil {
		instance.MembersOnlyOverride = payload.MembersOnly
	}
	if payload.Capacity != nil {
		instance.CapacityOverride = payload.Capacity
	}
	instance.UpdateDatetime = time.Now().UTC()

	err = usecase.EventRepository.UpdateInstanceOverrides(ctxContext, instance)
	if err != nil {
		return instance, err
	}

	return instance, nil
}

// Register enforces the members-only and capacity gates. The instance
// row is locked for the transaction before counting, so two concurrent
// signups cannot both read the same count and take the last seat.
func (usecase *EventUsecase) Register(ctx *fiber.Ctx, userId uuid.UUID, instanceId uuid.UUID) error {
	ctxContext := ctx.Context()

	instance, err := usecase.EventRepository.GetInstance(ctxContext, instanceId)
	if err != nil {
		return err
	}

	if instance.Cancelled {
		return &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Event is cancelled",
			Param:   "instanceId",
		}
	}

	series, err := usecase.EventRepository.GetSeries(ctxContext, instance.SeriesId)
	if err != nil {
		return err
	}

	membersOnly := series.MembersOnly
	if instance.MembersOnlyOverride != nil {
		membersOnly = *instance.MembersOnlyOverride
	}

	if membersOnly {
		isMember, err := usecase.UserRepository.GetMembershipFlag(ctxContext, userId)
		if err != nil {
			return err
		}
		if !isMember {
			return &model.ValidationError{
				Code:    constant.ERR_FORBIDDEN_ERROR,
				Message: "Event is open to members only",
				Param:   "instanceId",
			}
		}
	}

	capacity := series.Capacity
	if instance.CapacityOverride != nil {
		capacity = instance.CapacityOverride
	}

	// start transaction
	tx, err := usecase.DB.Begin(ctxContext)
	if err != nil {
		return err
	}

	defer tx.Rollback(ctxContext)

	if capacity != nil {
		err = usecase.EventRepository.LockInstance(ctxContext, tx, instanceId)
		if err != nil {
			return err
		}

		count, err := usecase.EventRepository.CountRegistrations(ctxContext, tx, instanceId)
		if err != nil {
			return err
		}
		if count >= *capacity {
			return &model.ValidationError{
				Code:    constant.ERR_VALIDATION_CODE,
				Message: "Event is at capacity",
				Param:   "instanceId",
			}
		}
	}

	registration := model.EventRegistration{
		Id:             uuid.New(),
		InstanceId:     instanceId,
		UserId:         userId,
		CreateDatetime: time.Now().UTC(),
	}

	err = usecase.EventRepository.InsertRegistration(ctxContext, tx, registration)
	if err != nil {
		return err
	}

	err = tx.Commit(ctxContext)
	if err != nil {
		return err
	}

	return nil
}

func (usecase *EventUsecase) CancelRegistration(ctx *fiber.Ctx, userId uuid.UUID, instanceId uuid.UUID) error {
	err := usecase.EventRepository.DeleteRegistration(ctx.Context(), instanceId, userId)
	if err != nil {
		return err
	}

	return nil
}

// MaterializeInstances expands every active recurring series over the
// coming window. The scheduler calls this on a plain context, outside any
// request.
func (usecase *EventUsecase) MaterializeInstances(ctx context.Context) error {
	now := time.Now().UTC()

	series, err := usecase.EventRepository.ListActiveSeries(ctx, now)
	if err != nil {
		return err
	}

	for _, s := range series {
		err = usecase.materializeSeries(ctx, s, now, now.Add(materializeWindow))
		if err != nil {
			return err
		}
	}

	return nil
}

func (usecase *EventUsecase) materializeSeries(ctx context.Context, series model.EventSeries, from time.Time, to time.Time) error {
	duration := time.Duration(series.DurationMinutes) * time.Minute
	now := time.Now().UTC()

	for _, start := range expandOccurrences(series, from, to) {
		instance := model.EventInstance{
			Id:             uuid.New(),
			SeriesId:       series.Id,
			StartDatetime:  start,
			EndDatetime:    start.Add(duration),
			CreateDatetime: now,
			UpdateDatetime: now,
		}

		err := usecase.EventRepository.InsertInstanceIfAbsent(ctx, instance)
		if err != nil {
			return err
		}
	}

	return nil
}

// expandOccurrences lists the series occurrences falling inside
// [from, to), honoring the until bound. A one-off series yields at most
// its single start time.
func expandOccurrences(series model.EventSeries, from time.Time, to time.Time) []time.Time {
	occurrences := []time.Time{}

	if series.Freq == model.RecurrenceNone {
		if !series.StartDatetime.Before(from) && series.StartDatetime.Before(to) {
			occurrences = append(occurrences, series.StartDatetime)
		}
		return occurrences
	}

	interval := series.Interval
	if interval < 1 {
		interval = 1
	}

	// Occurrences behind the window must not eat into the cap, or a
	// long-lived series stops producing instances altogether.
	current := fastForward(series.StartDatetime, from, series.Freq, interval)
	for i := 0; i < maxOccurrences; i++ {
		if !current.Before(to) {
			break
		}
		if series.Until != nil && current.After(*series.Until) {
			break
		}
		if !current.Before(from) {
			occurrences = append(occurrences, current)
		}

		switch series.Freq {
		case model.RecurrenceDaily:
			current = current.AddDate(0, 0, interval)
		case model.RecurrenceWeekly:
			current = current.AddDate(0, 0, 7*interval)
		case model.RecurrenceMonthly:
			current = current.AddDate(0, interval, 0)
		default:
			return occurrences
		}
	}

	return occurrences
}

// fastForward jumps to the first occurrence of the series not before
// from. Daily and weekly steps have a fixed day length so the jump is
// arithmetic; monthly stays incremental to keep the month-end
// normalization identical to the regular advance.
func fastForward(start time.Time, from time.Time, freq model.RecurrenceFreq, interval int) time.Time {
	current := start
	if !current.Before(from) {
		return current
	}

	switch freq {
	case model.RecurrenceDaily, model.RecurrenceWeekly:
		stepDays := interval
		if freq == model.RecurrenceWeekly {
			stepDays = 7 * interval
		}
		behind := int(from.Sub(current).Hours()) / 24 / stepDays
		if behind > 0 {
			current = current.AddDate(0, 0, behind*stepDays)
		}
		for current.Before(from) {
			current = current.AddDate(0, 0, stepDays)
		}
	case model.RecurrenceMonthly:
		for current.Before(from) {
			current = current.AddDate(0, interval, 0)
		}
	}

	return current
}
