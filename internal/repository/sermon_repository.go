package repository

import (
	"bytes"
	"context"
	"errors"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type SermonRepository struct {
	Log      *zap.Logger
	DB       *pgxpool.Pool
	DBObject *minio.Client
}

func NewSermonRepository(zap *zap.Logger, db *pgxpool.Pool, minio *minio.Client) *SermonRepository {
	return &SermonRepository{
		Log:      zap,
		DB:       db,
		DBObject: minio,
	}
}

func (repository *SermonRepository) Create(ctx context.Context, sermon model.Sermon) error {
	query := `INSERT INTO sermons (id, title, speaker, passage, description, media_url, thumbnail_object_key, delivered_on, create_datetime, update_datetime, create_user_id, update_user_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`

	_, err := repository.DB.Exec(ctx, query, sermon.Id, sermon.Title, sermon.Speaker, sermon.Passage, sermon.Description, sermon.MediaURL, sermon.ThumbnailObjectKey, sermon.DeliveredOn, sermon.CreateDatetime, sermon.UpdateDatetime, sermon.CreateUserId, sermon.UpdateUserId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *SermonRepository) Get(ctx context.Context, sermonId uuid.UUID) (model.Sermon, error) {
	query := "SELECT id,title,speaker,passage,description,media_url,thumbnail_object_key,delivered_on,create_datetime,update_datetime,create_user_id,update_user_id FROM sermons WHERE id=$1 LIMIT 1"

	sermon := model.Sermon{}
	err := repository.DB.QueryRow(ctx, query, sermonId).Scan(&sermon.Id, &sermon.Title, &sermon.Speaker, &sermon.Passage, &sermon.Description, &sermon.MediaURL, &sermon.ThumbnailObjectKey, &sermon.DeliveredOn, &sermon.CreateDatetime, &sermon.UpdateDatetime, &sermon.CreateUserId, &sermon.UpdateUserId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return sermon, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Sermon not found",
				Param:   "sermonId",
			}
		}
		return sermon, err
	}

	return sermon, nil
}

func (repository *SermonRepository) List(ctx context.Context, limit int, offset int) ([]model.Sermon, error) {
	query := "SELECT id,title,speaker,passage,description,media_url,thumbnail_object_key,delivered_on,create_datetime,update_datetime,create_user_id,update_user_id FROM sermons ORDER BY delivered_on DESC LIMIT $1 OFFSET $2"

	rows, err := repository.DB.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []model.Sermon{}
	for rows.Next() {
		sermon := model.Sermon{}
		err := rows.Scan(&sermon.Id, &sermon.Title, &sermon.Speaker, &sermon.Passage, &sermon.Description, &sermon.MediaURL, &sermon.ThumbnailObjectKey, &sermon.DeliveredOn, &sermon.CreateDatetime, &sermon.UpdateDatetime, &sermon.CreateUserId, &sermon.UpdateUserId)
		if err != nil {
			return nil, err
		}
		list = append(list, sermon)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return list, nil
}

func (repository *SermonRepository) Update(ctx context.Context, sermon model.Sermon) error {
	query := `UPDATE sermons
			SET title = $1, speaker = $2, passage = $3, description = $4, media_url = $5, delivered_on = $6, update_datetime = $7, update_user_id = $8
			WHERE id = $9`

	_, err := repository.DB.Exec(ctx, query, sermon.Title, sermon.Speaker, sermon.Passage, sermon.Description, sermon.MediaURL, sermon.DeliveredOn, sermon.UpdateDatetime, sermon.UpdateUserId, sermon.Id)
	if err != nil {
		return err
	}

	return nil
}

func (repository *SermonRepository) SetThumbnail(ctx context.Context, sermonId uuid.UUID, objectKey string, updateUserId uuid.UUID) error {
	query := "UPDATE sermons SET thumbnail_object_key = $1, update_datetime = now(), update_user_id = $2 WHERE id = $3"

	_, err := repository.DB.Exec(ctx, query, objectKey, updateUserId, sermonId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *SermonRepository) Delete(ctx context.Context, sermonId uuid.UUID) error {
	query := "DELETE FROM sermons WHERE id=$1"

	_, err := repository.DB.Exec(ctx, query, sermonId)
	if err != nil {
		return err
	}

	return nil
}

// Minio - Object storage
func (repository *SermonRepository) UploadThumbnail(ctx context.Context, bucketName string, objectKey string, imageFile *bytes.Reader, imageSize int64) error {
	_, err := repository.DBObject.PutObject(ctx, bucketName, objectKey, imageFile, imageSize,
		minio.PutObjectOptions{
			ContentType:  "image/webp",
			CacheControl: "public, max-age=31536000, immutable",
		})
	if err != nil {
		return err
	}

	return nil
}

func (repository *SermonRepository) DeleteThumbnail(ctx context.Context, bucketName string, objectKey string) error {
	err := repository.DBObject.RemoveObject(ctx, bucketName, objectKey, minio.RemoveObjectOptions{})
	if err != nil {
		return err
	}

	return nil
}
