package repository

import (
	"context"
	"errors"

	"github.com/congregateapp/congregate/internal/constant"
	"github.com/congregateapp/congregate/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type PageRepository struct {
	Log *zap.Logger
	DB  *pgxpool.Pool
}

func NewPageRepository(zap *zap.Logger, db *pgxpool.Pool) *PageRepository {
	return &PageRepository{
		Log: zap,
		DB:  db,
	}
}

func (repository *PageRepository) UpsertPage(ctx context.Context, page model.SitePage) error {
	query := `INSERT INTO site_pages (id, slug, title, published, sections, create_datetime, update_datetime, create_user_id, update_user_id)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
			ON CONFLICT (slug) DO UPDATE
			SET title = EXCLUDED.title,
				published = EXCLUDED.published,
				sections = EXCLUDED.sections,
				update_datetime = EXCLUDED.update_datetime,
				update_user_id = EXCLUDED.update_user_id`

	_, err := repository.DB.Exec(ctx, query, page.Id, page.Slug, page.Title, page.Published, []byte(page.Sections), page.CreateDatetime, page.UpdateDatetime, page.CreateUserId, page.UpdateUserId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *PageRepository) GetPageBySlug(ctx context.Context, slug string) (model.SitePage, error) {
	query := "SELECT id,slug,title,published,sections,create_datetime,update_datetime,create_user_id,update_user_id FROM site_pages WHERE slug=$1 LIMIT 1"

	page := model.SitePage{}
	var sections []byte
	err := repository.DB.QueryRow(ctx, query, slug).Scan(&page.Id, &page.Slug, &page.Title, &page.Published, &sections, &page.CreateDatetime, &page.UpdateDatetime, &page.CreateUserId, &page.UpdateUserId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return page, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Page not found",
				Param:   "slug",
			}
		}
		return page, err
	}
	page.Sections = sections

	return page, nil
}

func (repository *PageRepository) ListPages(ctx context.Context, publishedOnly bool) ([]model.SitePage, error) {
	query := "SELECT id,slug,title,published,sections,create_datetime,update_datetime,create_user_id,update_user_id FROM site_pages"
	if publishedOnly {
		query += " WHERE published = true"
	}
	query += " ORDER BY slug"

	rows, err := repository.DB.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	pages := []model.SitePage{}
	for rows.Next() {
		page := model.SitePage{}
		var sections []byte
		err := rows.Scan(&page.Id, &page.Slug, &page.Title, &page.Published, &sections, &page.CreateDatetime, &page.UpdateDatetime, &page.CreateUserId, &page.UpdateUserId)
		if err != nil {
			return nil, err
		}
		page.Sections = sections
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return pages, nil
}

func (repository *PageRepository) DeletePage(ctx context.Context, slug string) error {
	query := "DELETE FROM site_pages WHERE slug=$1"

	_, err := repository.DB.Exec(ctx, query, slug)
	if err != nil {
		return err
	}

	return nil
}

func (repository *PageRepository) UpsertFragment(ctx context.Context, fragment model.SiteFragment) error {
	query := `INSERT INTO site_fragments (name, content, update_datetime, update_user_id)
			VALUES ($1,$2,$3,$4)
			ON CONFLICT (name) DO UPDATE
			SET content = EXCLUDED.content,
				update_datetime = EXCLUDED.update_datetime,
				update_user_id = EXCLUDED.update_user_id`

	_, err := repository.DB.Exec(ctx, query, fragment.Name, []byte(fragment.Content), fragment.UpdateDatetime, fragment.UpdateUserId)
	if err != nil {
		return err
	}

	return nil
}

func (repository *PageRepository) GetFragment(ctx context.Context, name string) (model.SiteFragment, error) {
	query := "SELECT name,content,update_datetime,update_user_id FROM site_fragments WHERE name=$1 LIMIT 1"

	fragment := model.SiteFragment{}
	var content []byte
	err := repository.DB.QueryRow(ctx, query, name).Scan(&fragment.Name, &content, &fragment.UpdateDatetime, &fragment.UpdateUserId)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fragment, &model.ValidationError{
				Code:    constant.ERR_NOT_FOUND_ERROR,
				Message: "Fragment not found",
				Param:   "name",
			}
		}
		return fragment, err
	}
	fragment.Content = content

	return fragment, nil
}
