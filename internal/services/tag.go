package services

import (
	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	types "github.com/yungbote/mealpersona-backend/internal/domain"
	"github.com/yungbote/mealpersona-backend/internal/platform/dbctx"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type TagGroup struct {
	Category types.TagCategory `json:"category"`
	Tags     []*types.Tag      `json:"tags"`
}

type TagService interface {
	// Catalogue returns every tag grouped by category, in category order.
	// Empty categories are included so clients can render fixed sections.
	Catalogue(dbc dbctx.Context) ([]TagGroup, error)
}

type tagService struct {
	log     *logger.Logger
	tagRepo repos.TagRepo
}

func NewTagService(log *logger.Logger, tagRepo repos.TagRepo) TagService {
	return &tagService{
		log:     log.With("service", "TagService"),
		tagRepo: tagRepo,
	}
}

func (ts *tagService) Catalogue(dbc dbctx.Context) ([]TagGroup, error) {
	tags, err := ts.tagRepo.List(dbc)
	if err != nil {
		return nil, err
	}
	byCategory := make(map[types.TagCategory][]*types.Tag, len(types.TagCategories))
	for _, t := range tags {
		byCategory[t.Category] = append(byCategory[t.Category], t)
	}
	out := make([]TagGroup, 0, len(types.TagCategories))
	for _, cat := range types.TagCategories {
		group := byCategory[cat]
		if group == nil {
			group = []*types.Tag{}
		}
		out = append(out, TagGroup{Category: cat, Tags: group})
	}
	return out, nil
}
