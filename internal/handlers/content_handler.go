package handlers

import (
	"net/http"

	"castboard_backend/internal/middleware"
	"castboard_backend/internal/models"
	"castboard_backend/internal/services"
	"castboard_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ContentHandler struct {
	*BaseHandler
	contentService services.ContentService
}

func NewContentHandler(base *BaseHandler, contentService services.ContentService) *ContentHandler {
	return &ContentHandler{
		BaseHandler:    base,
		contentService: contentService,
	}
}

var contentPaths = map[string]models.ContentKind{
	"/privacy-policy":   models.ContentPrivacyPolicy,
	"/about-us":         models.ContentAboutUs,
	"/terms-conditions": models.ContentTermsConditions,
}

// RegisterRoutes - документы читают все, меняет только суперпользователь.
func (h *ContentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	for path, kind := range contentPaths {
		rg.GET(path, h.GetContent(kind))
		rg.PUT(path, h.RequireAuth(), middleware.RequireSuperuser(), h.PutContent(kind, false))
		rg.PATCH(path, h.RequireAuth(), middleware.RequireSuperuser(), h.PutContent(kind, true))
	}

	queries := rg.Group("/submit/query")
	{
		queries.POST("", h.SubmitQuery)
		queries.GET("", h.ListQueries)
		queries.GET("/:queryId", h.GetQuery)
	}

	thoughts := rg.Group("/thoughts")
	thoughts.Use(h.RequireAuth())
	{
		thoughts.GET("", h.ListThoughts)
		thoughts.POST("", h.PostThought)
	}
}

func (h *ContentHandler) GetContent(kind models.ContentKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		content, err := h.contentService.GetContent(c.Request.Context(), h.GetDB(c), kind)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}
		respond(c, http.StatusOK, "Content retrieved successfully.", content)
	}
}

// PutContent обслуживает PUT и PATCH: документ создается, если его нет.
func (h *ContentHandler) PutContent(kind models.ContentKind, partial bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := h.GetActor(c)
		if !ok {
			return
		}

		var req dto.ContentRequest
		if !h.BindAndValidate_JSON(c, &req) {
			return
		}

		content, created, err := h.contentService.PutContent(c.Request.Context(), h.GetDB(c), actor, kind, &req)
		if err != nil {
			h.HandleServiceError(c, err)
			return
		}

		switch {
		case created:
			respond(c, http.StatusCreated, "Content created successfully.", content)
		case partial:
			respond(c, http.StatusOK, "Content partially updated successfully.", content)
		default:
			respond(c, http.StatusOK, "Content updated successfully.", content)
		}
	}
}

func (h *ContentHandler) SubmitQuery(c *gin.Context) {
	var req dto.ContactQueryRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	query, err := h.contentService.SubmitQuery(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "User query submitted successfully!", query)
}

func (h *ContentHandler) ListQueries(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	queries, err := h.contentService.ListQueries(c.Request.Context(), h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "All queries retrieved successfully.", queries)
}

func (h *ContentHandler) GetQuery(c *gin.Context) {
	queryID, err := ParseParamUint(c, "queryId")
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	query, err := h.contentService.GetQuery(c.Request.Context(), h.GetDB(c), queryID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Query retrieved successfully.", query)
}

func (h *ContentHandler) ListThoughts(c *gin.Context) {
	page, pageSize := ParsePagination(c)

	thoughts, err := h.contentService.ListThoughts(c.Request.Context(), h.GetDB(c), page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusOK, "Retrieved successfully!", thoughts)
}

func (h *ContentHandler) PostThought(c *gin.Context) {
	actor, ok := h.GetActor(c)
	if !ok {
		return
	}

	var req dto.ThoughtRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	thought, err := h.contentService.PostThought(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	respond(c, http.StatusCreated, "Created successfully!", thought)
}
