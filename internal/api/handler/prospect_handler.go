package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/realtyflow/crm-system/internal/api/metrics"
	"github.com/realtyflow/crm-system/internal/core/ports"
)

// ProspectHandler handles HTTP requests for prospect operations.
type ProspectHandler struct {
	service ports.ProspectService
}

func NewProspectHandler(service ports.ProspectService) *ProspectHandler {
	return &ProspectHandler{service: service}
}

// Create handles POST /v1/prospects.
//
// @Summary      Create a new prospect
// @Tags         prospects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createProspectRequest  true  "Prospect details"
// @Success      201   {object}  prospectResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/prospects [post]
func (h *ProspectHandler) Create(c echo.Context) error {
	var req createProspectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	_, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	p, err := h.service.CreateProspect(c.Request().Context(), ports.CreateProspectInput{
		AgentID:        userID,
		Name:           req.Name,
		Email:          req.Email,
		Phone:          req.Phone,
		Status:         req.Status,
		IsHotLead:      req.IsHotLead,
		Exclusive:      req.Exclusive,
		Budget:         req.Budget,
		EstimatedPrice: req.EstimatedPrice,
		Timeline:       req.Timeline,
		LastContactAt:  req.LastContactAt,
		Source:         req.Source,
		ConsentGiven:   req.ConsentGiven,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		return err
	}

	source := req.Source
	if source == "" {
		source = "unknown"
	}
	metrics.ProspectsCreatedTotal.WithLabelValues(source).Inc()

	return c.JSON(http.StatusCreated, toProspectResponse(p))
}

// Get handles GET /v1/prospects/:id.
//
// @Summary      Get a prospect by id
// @Tags         prospects
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Prospect id"
// @Success      200  {object}  prospectResponse
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /v1/prospects/{id} [get]
func (h *ProspectHandler) Get(c echo.Context) error {
	role, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	p, err := h.service.GetProspect(c.Request().Context(), ports.GetProspectInput{
		ID:      c.Param("id"),
		Role:    role,
		AgentID: userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProspectResponse(p))
}

// List handles GET /v1/prospects, sorted by score descending.
//
// @Summary      List prospects ordered by priority score
// @Tags         prospects
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Filter by pipeline status"
// @Param        source  query     string  false  "Filter by acquisition source"
// @Param        page    query     int     false  "Page (1-based)"
// @Param        limit   query     int     false  "Page size (max 100)"
// @Success      200     {object}  listProspectsResponse
// @Failure      401     {object}  map[string]string
// @Router       /v1/prospects [get]
func (h *ProspectHandler) List(c echo.Context) error {
	role, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	result, err := h.service.ListProspects(c.Request().Context(), ports.ListProspectsInput{
		Role:    role,
		AgentID: userID,
		Status:  c.QueryParam("status"),
		Source:  c.QueryParam("source"),
		Page:    page,
		Limit:   limit,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listProspectsResponse{
		Items:      toListResponse(result.Items),
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Update handles PATCH /v1/prospects/:id. Applied changes re-trigger scoring.
//
// @Summary      Update a prospect
// @Tags         prospects
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Prospect id"
// @Param        body  body      updateProspectRequest  true  "Fields to update"
// @Success      200   {object}  prospectResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /v1/prospects/{id} [patch]
func (h *ProspectHandler) Update(c echo.Context) error {
	var req updateProspectRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	role, userID, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	p, err := h.service.UpdateProspect(c.Request().Context(), actorFromClaims(role, userID), ports.UpdateProspectInput{
		ID:             c.Param("id"),
		Status:         req.Status,
		IsHotLead:      req.IsHotLead,
		Exclusive:      req.Exclusive,
		Budget:         req.Budget,
		EstimatedPrice: req.EstimatedPrice,
		Timeline:       req.Timeline,
		LastContactAt:  req.LastContactAt,
		Source:         req.Source,
		ConsentGiven:   req.ConsentGiven,
		CommissionRate: req.CommissionRate,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toProspectResponse(p))
}
