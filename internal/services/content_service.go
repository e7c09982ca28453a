package services

import (
	"context"
	"errors"
	"strings"

	"castboard_backend/internal/auth"
	"castboard_backend/internal/logger"
	"castboard_backend/internal/models"
	"castboard_backend/internal/repositories"
	"castboard_backend/internal/services/dto"
	"castboard_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type ContentService interface {
	GetContent(ctx context.Context, db *gorm.DB, kind models.ContentKind) (*dto.ContentResponse, error)
	// PutContent создает документ, если его нет. created=true в этом случае.
	PutContent(ctx context.Context, db *gorm.DB, actor auth.Actor, kind models.ContentKind, req *dto.ContentRequest) (resp *dto.ContentResponse, created bool, err error)

	SubmitQuery(ctx context.Context, db *gorm.DB, req *dto.ContactQueryRequest) (*dto.ContactQueryResponse, error)
	ListQueries(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.ListResponse[dto.ContactQueryResponse], error)
	GetQuery(ctx context.Context, db *gorm.DB, queryID uint) (*dto.ContactQueryResponse, error)

	PostThought(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.ThoughtRequest) (*dto.ThoughtResponse, error)
	ListThoughts(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.ListResponse[dto.ThoughtResponse], error)
}

type contentService struct {
	contentRepo repositories.ContentRepository
	userRepo    repositories.UserRepository
}

func NewContentService(contentRepo repositories.ContentRepository, userRepo repositories.UserRepository) ContentService {
	return &contentService{
		contentRepo: contentRepo,
		userRepo:    userRepo,
	}
}

func (s *contentService) GetContent(ctx context.Context, db *gorm.DB, kind models.ContentKind) (*dto.ContentResponse, error) {
	content, err := s.contentRepo.FindByKind(db, kind)
	if err != nil {
		return nil, handleContentError(err)
	}
	return toContentResponse(content), nil
}

func (s *contentService) PutContent(ctx context.Context, db *gorm.DB, actor auth.Actor, kind models.ContentKind, req *dto.ContentRequest) (*dto.ContentResponse, bool, error) {
	if !actor.IsSuperuser {
		return nil, false, apperrors.ErrInsufficientPermissions
	}

	tx := db.Begin()
	if tx.Error != nil {
		return nil, false, apperrors.InternalError(tx.Error)
	}
	defer tx.Rollback()

	created := false
	content, err := s.contentRepo.FindByKind(tx, kind)
	switch {
	case errors.Is(err, repositories.ErrContentNotFound):
		content = &models.Content{Kind: kind, Description: req.Description}
		if err := s.contentRepo.Create(tx, content); err != nil {
			return nil, false, apperrors.ErrConflict(err, "content", "Content was created concurrently. Please retry.")
		}
		created = true
	case err != nil:
		return nil, false, handleContentError(err)
	default:
		if err := s.contentRepo.UpdateDescription(tx, content, req.Description); err != nil {
			return nil, false, apperrors.InternalError(err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return nil, false, apperrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "content saved", "kind", kind, "created", created)
	return toContentResponse(content), created, nil
}

func (s *contentService) SubmitQuery(ctx context.Context, db *gorm.DB, req *dto.ContactQueryRequest) (*dto.ContactQueryResponse, error) {
	query := &models.ContactQuery{
		Name:    strings.TrimSpace(req.Name),
		Email:   normalizeEmail(req.Email),
		Message: req.Message,
	}
	if err := s.contentRepo.CreateQuery(db, query); err != nil {
		return nil, apperrors.InternalError(err)
	}
	logger.CtxInfo(ctx, "contact query submitted", "query_id", query.ID)
	return toContactQueryResponse(query), nil
}

func (s *contentService) ListQueries(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.ListResponse[dto.ContactQueryResponse], error) {
	queries, total, err := s.contentRepo.ListQueries(db, repositories.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]dto.ContactQueryResponse, 0, len(queries))
	for i := range queries {
		items = append(items, *toContactQueryResponse(&queries[i]))
	}
	return dto.NewListResponse(items, total, page, pageSize), nil
}

func (s *contentService) GetQuery(ctx context.Context, db *gorm.DB, queryID uint) (*dto.ContactQueryResponse, error) {
	query, err := s.contentRepo.FindQueryByID(db, queryID)
	if err != nil {
		return nil, handleContentError(err)
	}
	return toContactQueryResponse(query), nil
}

func (s *contentService) PostThought(ctx context.Context, db *gorm.DB, actor auth.Actor, req *dto.ThoughtRequest) (*dto.ThoughtResponse, error) {
	user, err := s.userRepo.FindByID(db, actor.UserID)
	if err != nil {
		return nil, handleUserError(err)
	}

	thought := &models.Thought{
		UserID:   user.ID,
		Thoughts: strings.TrimSpace(req.Thoughts),
	}
	if thought.Thoughts == "" {
		return nil, apperrors.FieldError("thoughts", "This field may not be blank.")
	}
	if err := s.contentRepo.CreateThought(db, thought); err != nil {
		return nil, apperrors.InternalError(err)
	}
	thought.User = user

	logger.CtxInfo(ctx, "thought posted", "thought_id", thought.ID)
	return toThoughtResponse(thought), nil
}

func (s *contentService) ListThoughts(ctx context.Context, db *gorm.DB, page, pageSize int) (*dto.ListResponse[dto.ThoughtResponse], error) {
	thoughts, total, err := s.contentRepo.ListThoughts(db, repositories.Pagination{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	items := make([]dto.ThoughtResponse, 0, len(thoughts))
	for i := range thoughts {
		items = append(items, *toThoughtResponse(&thoughts[i]))
	}
	return dto.NewListResponse(items, total, page, pageSize), nil
}

func toContentResponse(c *models.Content) *dto.ContentResponse {
	return &dto.ContentResponse{
		ID:          c.ID,
		Description: c.Description,
		LastUpdated: c.LastUpdated,
	}
}

func toContactQueryResponse(q *models.ContactQuery) *dto.ContactQueryResponse {
	return &dto.ContactQueryResponse{
		ID:        q.ID,
		Name:      q.Name,
		Email:     q.Email,
		Message:   q.Message,
		CreatedAt: q.CreatedAt,
	}
}

// toThoughtResponse - автор показывается по username, без него по email.
func toThoughtResponse(t *models.Thought) *dto.ThoughtResponse {
	resp := &dto.ThoughtResponse{
		ID:        t.ID,
		Thoughts:  t.Thoughts,
		CreatedAt: t.CreatedAt,
	}
	if t.User != nil {
		resp.User = t.User.UsernameValue()
		if resp.User == "" {
			resp.User = t.User.Email
		}
	}
	return resp
}
