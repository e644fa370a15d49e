package repository

import (
	"context"
	"errors"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/google/uuid"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type EventRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewEventRepository(zap *zap.Logger, db *pgxpool.Pool) *EventRepository {
	return &EventRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *EventRepository) CreateSeries(ctx context.Context, series model.EventSeries) error {
	query := `INSERT INTO event_series (id, title, description, location, start_datetime, duration_minutes, members_only, capacity, freq, recur_interval, until, create_datetime, update_datetime, create_user_id, update_user_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)`

	_, err := repository.DB.Exec(ctx, query, series.Id, series.Title, series.Description, series.Location, series.StartDatetime, series.DurationMinutes, series.MembersOnly, series.Capacity, series.Freq, series.Interval, series.Until, series.CreateDatetime, series.UpdateDatetime, series.CreateUserId, series.UpdateUserId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *EventRepository) GetSeries(ctx context.Context, seriesId uuid.UUID) (model.EventSeries, error) {
	query := "SELECT id,title,description,location,start_datetime,duration_minutes,members_only,capacity,freq,recur_interval,until,create_datetime,update_datetime,create_user_id,update_user_id FROM event_series WHERE id=$1 LIMIT 1"

	series := model.EventSeries{}
	err := repository.DB.QueryRow(ctx, query, seriesId).Scan(&series.Id, &series.Title, &series.Description, &series.Location, &series.StartDatetime, &series.DurationMinutes, &series.MembersOnly, &series.Capacity, &series.Freq, &series.Interval, &series.Until, &series.CreateDatetime, &series.UpdateDatetime, &series.CreateUserId, &series.UpdateUserId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return series, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Event series not found",
				Param:   "seriesId",
			}
		}
		return series, err
	}

	return series, nil
}

func (repository *EventRepository) ListSeries(ctx context.Context) ([]model.EventSeries, error) {
	query := "SELECT id,title,description,location,start_datetime,duration_minutes,members_only,capacity,freq,recur_interval,until,create_datetime,update_datetime,create_user_id,update_user_id FROM event_series ORDER BY start_datetime"

	rows, err := repository.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.EventSeries{}
	for rows.Next() {
		series := model.EventSeries{}
		err := rows.Scan(&series.Id, &series.Title, &series.Description, &series.Location, &series.StartDatetime, &series.DurationMinutes, &series.MembersOnly, &series.Capacity, &series.Freq, &series.Interval, &series.Until, &series.CreateDatetime, &series.UpdateDatetime, &series.CreateUserId, &series.UpdateUserId)
		if err != nil {
			return nil, err
		}
		list = append(list, series)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (repository *EventRepository) UpdateSeries(ctx context.Context, series model.EventSeries) error {
	query := `UPDATE event_series
			SET title = $1, description = $2, location = $3, start_datetime = $4, duration_minutes = $5, members_only = $6, capacity = $7, freq = $8, recur_interval = $9, until = $10, update_datetime = $11, update_user_id = $12
			WHERE id = $13`

	_, err := repository.DB.Exec(ctx, query, series.Title, series.Description, series.Location, series.StartDatetime, series.DurationMinutes, series.MembersOnly, series.Capacity, series.Freq, series.Interval, series.Until, series.UpdateDatetime, series.UpdateUserId, series.Id)
	if err != nil {
		return err
	}

	return nil
}

func (repository *EventRepository) DeleteSeries(ctx context.Context, seriesId uuid.UUID) error {
	query := "DELETE FROM event_series WHERE id=$1"

	_, err := repository.DB.Exec(ctx, query, seriesId)
	if err != nil {
		return err
	}

	return nil
}

// InsertInstanceIfAbsent materializes one occurrence. The unique index on
// (series_id, start_datetime) makes the materializer idempotent, so the
// scheduler can rerun over the same window without duplicating rows.
func (repository *EventRepository) InsertInstanceIfAbsent(ctx context.Context, instance model.EventInstance) error {
	query := `INSERT INTO event_instances (id, series_id, start_datetime, end_datetime, cancelled, members_only_override, capacity_override, create_datetime, update_datetime)
			VALUES ($1,$2,$3,$4,false,NULL,NULL,$5,$6)
			ON CONFLICT (series_id, start_datetime) DO NOTHING`

	_, err := repository.DB.Exec(ctx, query, instance.Id, instance.SeriesId, instance.StartDatetime, instance.EndDatetime, instance.CreateDatetime, instance.UpdateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *EventRepository) GetInstance(ctx context.Context, instanceId uuid.UUID) (model.EventInstance, error) {
	query := "SELECT id,series_id,start_datetime,end_datetime,cancelled,members_only_override,capacity_override,create_datetime,update_datetime FROM event_instances WHERE id=$1 LIMIT 1"

	instance := model.EventInstance{}
	err := repository.DB.QueryRow(ctx, query, instanceId).Scan(&instance.Id, &instance.SeriesId, &instance.StartDatetime, &instance.EndDatetime, &instance.Cancelled, &instance.MembersOnlyOverride, &instance.CapacityOverride, &instance.CreateDatetime, &instance.UpdateDatetime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return instance, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Event instance not found",
				Param:   "instanceId",
			}
		}
		return instance, err
	}

	return instance, nil
}

func (repository *EventRepository) UpdateInstanceOverrides(ctx context.Context, instance model.EventInstance) error {
	query := "UPDATE event_instances SET cancelled = $1, members_only_override = $2, capacity_override = $3, update_datetime = $4 WHERE id = $5"

	_, err := repository.DB.Exec(ctx, query, instance.Cancelled, instance.MembersOnlyOverride, instance.CapacityOverride, instance.UpdateDatetime, instance.Id)
	if err != nil {
		return err
	}

	return nil
}

// ListUpcomingInstances joins series data and the caller's registration in
// one query. registeredCount is computed per row; fine at congregation
// scale.
func (repository *EventRepository) ListUpcomingInstances(ctx context.Context, from time.Time, userId uuid.UUID) ([]model.EventInstanceResponse, error) {
	query := `SELECT A.id,A.series_id,B.title,B.description,B.location,A.start_datetime,A.end_datetime,A.cancelled,
			COALESCE(A.members_only_override, B.members_only),
			COALESCE(A.capacity_override, B.capacity),
			(SELECT COUNT(*) FROM event_registrations R WHERE R.instance_id = A.id),
			EXISTS (SELECT 1 FROM event_registrations R WHERE R.instance_id = A.id AND R.user_id = $2)
			FROM event_instances A
			JOIN event_series B ON A.series_id = B.id
			WHERE A.start_datetime >= $1
			ORDER BY A.start_datetime`

	rows, err := repository.DB.Query(ctx, query, from, userId)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.EventInstanceResponse{}
	for rows.Next() {
		item := model.EventInstanceResponse{}
		err := rows.Scan(&item.Id, &item.SeriesId, &item.Title, &item.Description, &item.Location, &item.StartDatetime, &item.EndDatetime, &item.Cancelled, &item.MembersOnly, &item.Capacity, &item.RegisteredCount, &item.Registered)
		if err != nil {
			return nil, err
		}
		list = append(list, item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

// LockInstance takes a row lock on the instance for the lifetime of the
// transaction, serializing concurrent registrations against it.
func (repository *EventRepository) LockInstance(ctx context.Context, tx pgx.Tx, instanceId uuid.UUID) error {
	query := "SELECT id FROM event_instances WHERE id=$1 FOR UPDATE"

	var id uuid.UUID
	err := tx.QueryRow(ctx, query, instanceId).Scan(&id)
	if err != nil {
		return err
	}

	return nil
}

func (repository *EventRepository) CountRegistrations(ctx context.Context, tx pgx.Tx, instanceId uuid.UUID) (int, error) {
	query := "SELECT COUNT(*) FROM event_registrations WHERE instance_id=$1"

	var count int
	err := tx.QueryRow(ctx, query, instanceId).Scan(&count)
	if err != nil {
		return count, err
	}

	return count, nil
}

func (repository *EventRepository) InsertRegistration(ctx context.Context, tx pgx.Tx, registration model.EventRegistration) error {
	query := `INSERT INTO event_registrations (id, instance_id, user_id, create_datetime)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (instance_id, user_id) DO NOTHING`

	_, err := tx.Exec(ctx, query, registration.Id, registration.InstanceId, registration.UserId, registration.CreateDatetime)
	if err != nil {
		return err
	}

	return nil
}

func (repository *EventRepository) DeleteRegistration(ctx context.Context, instanceId uuid.UUID, userId uuid.UUID) error {
	query := "DELETE FROM event_registrations WHERE instance_id=$1 AND user_id=$2"

	_, err := repository.DB.Exec(ctx, query, instanceId, userId)
	if err != nil {
		return err
	}

	return nil
}

// ListActiveSeries returns series whose recurrence can still produce
// occurrences at or after the given time. Used by the scheduler.
func (repository *EventRepository) ListActiveSeries(ctx context.Context, now time.Time) ([]model.EventSeries, error) {
	query := `SELECT id,title,description,location,start_datetime,duration_minutes,members_only,capacity,freq,recur_interval,until,create_datetime,update_datetime,create_user_id,update_user_id
			FROM event_series
			WHERE freq <> 'none' AND (until IS NULL OR until >= $1)`

	rows, err := repository.DB.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.EventSeries{}
	for rows.Next() {
		series := model.EventSeries{}
		err := rows.Scan(&series.Id, &series.Title, &series.Description, &series.Location, &series.StartDatetime, &series.DurationMinutes, &series.MembersOnly, &series.Capacity, &series.Freq, &series.Interval, &series.Until, &series.CreateDatetime, &series.UpdateDatetime, &series.CreateUserId, &series.UpdateUserId)
		if err != nil {
			return nil, err
		}
		list = append(list, series)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}
