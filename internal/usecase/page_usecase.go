package usecase

import (
	"time"

	"github.com/bytedance/sonic"
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

type PageUsecase struct {
	PageRepository *repository.PageRepository
	UserRepository *repository.UserRepository
	DB             *pgxpool.Pool
	Log            *zap.Logger
	Config         *koanf.Koanf
}

func NewPageUsecase(pageRepository *repository.PageRepository, userRepository *repository.UserRepository, db *pgxpool.Pool, zap *zap.Logger, koanf *koanf.Koanf) *PageUsecase {
	return &PageUsecase{
		PageRepository: pageRepository,
		UserRepository: userRepository,
		DB:             db,
		Log:            zap,
		Config:         koanf,
	}
}

func (usecase *PageUsecase) requireAdmin(ctx *fiber.Ctx, userId uuid.UUID) error {
	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctx.Context(), userId)
	if err != nil {
		return err
	}

	if !capabilities.Admin {
		return &model.ValidationError{
			Code:    constant.ERR_FORBIDDEN_ERROR,
			Message: "You are not allowed to manage pages",
			Param:   "userId",
		}
	}

	return nil
}

// isAdmin tolerates uuid.Nil so public reads can share the same paths.
func (usecase *PageUsecase) isAdmin(ctx *fiber.Ctx, userId uuid.UUID) (bool, error) {
	if userId == uuid.Nil {
		return false, nil
	}

	capabilities, err := usecase.UserRepository.GetUserCapabilities(ctx.Context(), userId)
	if err != nil {
		return false, err
	}

	return capabilities.Admin, nil
}

func toPageResponse(page model.SitePage) model.SitePageResponse {
	return model.SitePageResponse{
		Id:             page.Id,
		Slug:           page.Slug,
		Title:          page.Title,
		Published:      page.Published,
		Sections:       page.Sections,
		UpdateDatetime: page.UpdateDatetime,
	}
}

// validSections checks the section document is well-formed JSON without
// interpreting it. The builder owns the schema.
func validSections(raw sonic.NoCopyRawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var probe interface{}
	return sonic.Unmarshal(raw, &probe) == nil
}

// SavePage creates or replaces a page keyed by slug. An empty slug is
// derived from the title.
func (usecase *PageUsecase) SavePage(ctx *fiber.Ctx, adminId uuid.UUID, payload model.SitePageUpsertRequest) (model.SitePageResponse, error) {
	ctxContext := ctx.Context()
	response := model.SitePageResponse{}

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return response, err
	}

	if payload.Title == "" {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Title is required to not be empty",
			Param:   "title",
		}
	}

	slug := payload.Slug
	if slug == "" {
		slug = util.GenerateSlug(payload.Title)
	}
	if slug == "" {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Slug could not be derived from the title",
			Param:   "slug",
		}
	}

	if !validSections(payload.Sections) {
		return response, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Sections must be a valid JSON document",
			Param:   "sections",
		}
	}

	now := time.Now().UTC()
	page := model.SitePage{
		Id:             uuid.New(),
		Slug:           slug,
		Title:          payload.Title,
		Published:      payload.Published,
		Sections:       payload.Sections,
		CreateDatetime: now,
		UpdateDatetime: now,
		CreateUserId:   adminId,
		UpdateUserId:   adminId,
	}

	err = usecase.PageRepository.UpsertPage(ctxContext, page)
	if err != nil {
		return response, err
	}

	saved, err := usecase.PageRepository.GetPageBySlug(ctxContext, slug)
	if err != nil {
		return response, err
	}

	return toPageResponse(saved), nil
}

// GetPage serves one page. Unpublished pages are only visible to admins.
func (usecase *PageUsecase) GetPage(ctx *fiber.Ctx, userId uuid.UUID, slug string) (model.SitePageResponse, error) {
	ctxContext := ctx.Context()

	page, err := usecase.PageRepository.GetPageBySlug(ctxContext, slug)
	if err != nil {
		return model.SitePageResponse{}, err
	}

	if !page.Published {
		admin, err := usecase.isAdmin(ctx, userId)
		if err != nil {
			return model.SitePageResponse{}, err
		}
		if !admin {
			return model.SitePageResponse{}, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Page not found",
				Param:   "slug",
			}
		}
	}

	return toPageResponse(page), nil
}

func (usecase *PageUsecase) ListPages(ctx *fiber.Ctx, userId uuid.UUID) ([]model.SitePageResponse, error) {
	ctxContext := ctx.Context()

	admin, err := usecase.isAdmin(ctx, userId)
	if err != nil {
		return nil, err
	}

	pages, err := usecase.PageRepository.ListPages(ctxContext, !admin)
	if err != nil {
		return nil, err
	}

	responses := []model.SitePageResponse{}
	for _, page := range pages {
		responses = append(responses, toPageResponse(page))
	}

	return responses, nil
}

func (usecase *PageUsecase) DeletePage(ctx *fiber.Ctx, adminId uuid.UUID, slug string) error {
	ctxContext := ctx.Context()

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return err
	}

	_, err = usecase.PageRepository.GetPageBySlug(ctxContext, slug)
	if err != nil {
		return err
	}

	return usecase.PageRepository.DeletePage(ctxContext, slug)
}

func (usecase *PageUsecase) SaveFragment(ctx *fiber.Ctx, adminId uuid.UUID, name string, payload model.SiteFragmentUpdateRequest) (model.SiteFragment, error) {
	ctxContext := ctx.Context()
	fragment := model.SiteFragment{}

	err := usecase.requireAdmin(ctx, adminId)
	if err != nil {
		return fragment, err
	}

	if name != model.FragmentHeader && name != model.FragmentFooter {
		return fragment, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Fragment name must be either header or footer",
			Param:   "name",
		}
	}

	if !validSections(payload.Content) {
		return fragment, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Content must be a valid JSON document",
			Param:   "content",
		}
	}

	fragment = model.SiteFragment{
		Name:           name,
		Content:        payload.Content,
		UpdateDatetime: time.Now().UTC(),
		UpdateUserId:   adminId,
	}

	err = usecase.PageRepository.UpsertFragment(ctxContext, fragment)
	if err != nil {
		return fragment, err
	}

	return fragment, nil
}

func (usecase *PageUsecase) GetFragment(ctx *fiber.Ctx, name string) (model.SiteFragment, error) {
	if name != model.FragmentHeader && name != model.FragmentFooter {
		return model.SiteFragment{}, &model.ValidationError{
			Code:    constant.ERR_VALIDATION_CODE,
			Message: "Fragment name must be either header or footer",
			Param:   "name",
		}
	}

	return usecase.PageRepository.GetFragment(ctx.Context(), name)
}
