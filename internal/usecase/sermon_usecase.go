package usecase

import (
	"fmt"
	"time"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"
	"github.com/congregateapp/congregate/internal/repository"
	"github.com/congregateapp/congregate/internal/util"
	"github.com/google/uuid"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/knadh/koanf/v2"
	"go.uber.org/zap"
)

type SermonUsecase struct {
	SermonRepository *repository.SermonRepository
	UserRepository   *repository.UserRepository
	DB               *pgxpool.Pool
	Log              *zap.Logger
	Config           *koanf.Koanf
}

func NewSermonUsecase(sermonRepository *repository.SermonRepository, userRepository *repository.UserRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf) *SermonUsecase {
	return &SermonUsecase{
		SermonRepository: sermonRepository,
		UserRepository:   userRepository,
		DB:               db,
		Log:              zap,
		Config:           koanf,
	}
}

func (usecase *SermonUsecase) requireAdmin(ctx *fiber.Ctx, userId uuid.UUID) error {
	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctx.Context(), userId)
	if err != nil {
		return err
	}

	if !capabilities.Admin {
		return &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to manage sermons",
			Param:   "userId",
		}
	}

	return nil
}

func (usecase *SermonUsecase) validatePayload(payload model.SermonUpsertRequest) (time.Time, error) {
	var deliveredOn time.Time

	if payload.Title == "" {
		return deliveredOn, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Title is required to not be empty",
			Param:   "title",
		}
	} else if len(payload.Title) > 160 {
		return deliveredOn, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Title must be at most 160 characters",
			Param:   "title",
		}
	}

	if payload.Speaker == "" {
		return deliveredOn, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Speaker is required to not be empty",
			Param:   "speaker",
		}
	}

	deliveredOn, err := time.Parse("2006-01-02", payload.DeliveredOn)
	if err != nil {
		return deliveredOn, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Delivered on must be a date in YYYY-MM-DD format",
			Param:   "deliveredOn",
		}
	}

	return deliveredOn, nil
}

func (usecase *SermonUsecase) toResponse(sermon model.Sermon) model.SermonResponse {
	response := model.SermonResponse{
		Id:          sermon.Id,
		Title:       sermon.Title,
		Speaker:     sermon.Speaker,
		Passage:     sermon.Passage,
		Description: sermon.Description,
		MediaURL:    sermon.MediaURL,
		DeliveredOn: sermon.DeliveredOn,
	}

	if sermon.ThumbnailObjectKey != nil {
		MINIO_URL := usecase.Config.String("MINIO_URL")
		MINIO_BUCKET_NAME := usecase.Config.String("MINIO_BUCKET_NAME")
		MINIO_HTTP := usecase.Config.String("MINIO_HTTP")

		url := fmt.Sprintf("%s%s/%s/%s", MINIO_HTTP, MINIO_URL, MINIO_BUCKET_NAME, *sermon.ThumbnailObjectKey)
		response.ThumbnailURL = &url
	}

	return response
}

func (usecase *SermonUsecase) Create(ctx *fiber.Ctx, adminId uuid.UUID, payload model.SermonUpsertRequest) (model.SermonResponse, error) {
	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	deliveredOn, err := usecase.validatePayload(payload)
	if err != nil {
		return model.SermonResponse{}, err
	}

	now := time.Now().UTC()
	sermon := model.Sermon{
		Id:             uuid.New(),
		Title:          payload.Title,
		Speaker:        payload.Speaker,
		Passage:        payload.Passage,
		Description:    payload.Description,
		MediaURL:       payload.MediaURL,
		DeliveredOn:    deliveredOn,
		CreateDatetime: now,
		UpdateDatetime: now,
		CreateUserId:   adminId,
		UpdateUserId:   adminId,
	}

	err = usecase.SermonRepository.Create(ctx.Context(), sermon)
	if err != nil {
		return model.SermonResponse{}, err
	}

	return usecase.toResponse(sermon), nil
}

func (usecase *SermonUsecase) Get(ctx *fiber.Ctx, sermonId uuid.UUID) (model.SermonResponse, error) {
	sermon, err := usecase.SermonRepository.Get(ctx.Context(), sermonId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	return usecase.toResponse(sermon), nil
}

func (usecase *SermonUsecase) List(ctx *fiber.Ctx, page int, limit int) ([]model.SermonResponse, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	sermons, err := usecase.SermonRepository.List(ctx.Context(), limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	responses := []model.SermonResponse{}
	for _, sermon := range sermons {
		responses = append(responses, usecase.toResponse(sermon))
	}

	return responses, nil
}

func (usecase *SermonUsecase) Update(ctx *fiber.Ctx, adminId uuid.UUID, sermonId uuid.UUID, payload model.SermonUpsertRequest) (model.SermonResponse, error) {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	sermon, err := usecase.SermonRepository.Get(ctxContext, sermonId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	deliveredOn, err := usecase.validatePayload(payload)
	if err != nil {
		return model.SermonResponse{}, err
	}

	sermon.Title = payload.Title
	sermon.Speaker = payload.Speaker
	sermon.Passage = payload.Passage
	sermon.Description = payload.Description
	sermon.MediaURL = payload.MediaURL
	sermon.DeliveredOn = deliveredOn
	sermon.UpdateDatetime = time.Now().UTC()
	sermon.UpdateUserId = adminId

	err = usecase.SermonRepository.Update(ctxContext, sermon)
	if err != nil {
		return model.SermonResponse{}, err
	}

	return usecase.toResponse(sermon), nil
}

func (usecase *SermonUsecase) Delete(ctx *fiber.Ctx, adminId uuid.UUID, sermonId uuid.UUID) error {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return err
	}

	sermon, err := usecase.SermonRepository.Get(ctxContext, sermonId)
	if err != nil {
		return err
	}

	if sermon.ThumbnailObjectKey != nil {
		bucketName := usecase.Config.String("MINIO_BUCKET_NAME")
		err = usecase.SermonRepository.DeleteThumbnail(ctxContext, bucketName, *sermon.ThumbnailObjectKey)
		if err != nil {
			return err
		}
	}

	return usecase.SermonRepository.Delete(ctxContext, sermonId)
}

// UploadThumbnail converts the uploaded image to webp and stores it under
// a fresh object key, replacing any previous thumbnail.
func (usecase *SermonUsecase) UploadThumbnail(ctx *fiber.Ctx, adminId uuid.UUID, sermonId uuid.UUID) (model.SermonResponse, error) {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	sermon, err := usecase.SermonRepository.Get(ctxContext, sermonId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	fieldName := "thumbnail"
	fileHeader, err := ctx.FormFile(fieldName)
	if err != nil {
		return model.SermonResponse{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Thumbnail is required to not be empty",
			Param:   fieldName,
		}
	}

	imageFile, imageSize, err := util.ValidateImage(fileHeader, fieldName)
	if err != nil {
		return model.SermonResponse{}, err
	}

	bucketName := usecase.Config.String("MINIO_BUCKET_NAME")
	objectKey := fmt.Sprintf("sermon/thumbnail/%s.webp", uuid.New())

	err = usecase.SermonRepository.UploadThumbnail(ctxContext, bucketName, objectKey, imageFile, imageSize)
	if err != nil {
		return model.SermonResponse{}, err
	}

	if sermon.ThumbnailObjectKey != nil {
		err = usecase.SermonRepository.DeleteThumbnail(ctxContext, bucketName, *sermon.ThumbnailObjectKey)
		if err != nil {
			return model.SermonResponse{}, err
		}
	}

	err = usecase.SermonRepository.SetThumbnail(ctxContext, sermonId, objectKey, adminId)
	if err != nil {
		return model.SermonResponse{}, err
	}

	sermon.ThumbnailObjectKey = &objectKey

	return usecase.toResponse(sermon), nil
}
