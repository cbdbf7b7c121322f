package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"go.ngs.io/wavegreen/internal/domain"
	"go.ngs.io/wavegreen/internal/usecase"
)

// Handler handles HTTP requests for Green's function evaluations.
type Handler struct {
	evaluationUC *usecase.EvaluationUseCase
}

// NewHandler creates a new HTTP handler.
func NewHandler(evaluationUC *usecase.EvaluationUseCase) *Handler {
	return &Handler{
		evaluationUC: evaluationUC,
	}
}

// GetEvaluate handles GET /v1/green/evaluate for a single field/source pair.
func (h *Handler) GetEvaluate(c *gin.Context) {
	// Parse query parameters.
	kStr := c.Query("k")
	depthStr := c.Query("depth")
	fieldStr := c.Query("field")
	sourceStr := c.Query("source")
	areaStr := c.Query("area")

	if kStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "k parameter is required"})
		return
	}
	k, err := strconv.ParseFloat(kStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid wavenumber: %v", err)})
		return
	}

	// Depth defaults to infinite.
	var depth float64
	if depthStr != "" && depthStr != "infinite" {
		depth, err = strconv.ParseFloat(depthStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid depth: %v", err)})
			return
		}
	}

	field, err := parsePoint(fieldStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid field point: %v", err)})
		return
	}
	source, err := parsePoint(sourceStr)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid source point: %v", err)})
		return
	}

	// Parse area (default: 1).
	area := 1.0
	if areaStr != "" {
		area, err = strconv.ParseFloat(areaStr, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid area: %v", err)})
			return
		}
	}

	req := usecase.EvaluationRequest{
		Wavenumber: k,
		Depth:      depth,
		Pairs:      []domain.PointPair{{Field: field, Source: source, Area: area}},
	}
	h.execute(c, req)
}

// BatchRequest is the body of POST /v1/green/batch.
type BatchRequest struct {
	Wavenumber float64     `json:"wavenumber"`
	Depth      *float64    `json:"depth,omitempty"` // Absent or null means infinite depth.
	Pairs      []PairInput `json:"pairs"`
}

// PairInput is one field/source pair of a batch request.
type PairInput struct {
	Field  domain.Vec3 `json:"field"`
	Source domain.Vec3 `json:"source"`
	Area   *float64    `json:"area,omitempty"` // Defaults to 1.
}

// PostBatch handles POST /v1/green/batch.
func (h *Handler) PostBatch(c *gin.Context) {
	var body BatchRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid request body: %v", err)})
		return
	}

	req := usecase.EvaluationRequest{
		Wavenumber: body.Wavenumber,
		Pairs:      make([]domain.PointPair, len(body.Pairs)),
	}
	if body.Depth != nil {
		req.Depth = *body.Depth
	}
	for i, p := range body.Pairs {
		area := 1.0
		if p.Area != nil {
			area = *p.Area
		}
		req.Pairs[i] = domain.PointPair{Field: p.Field, Source: p.Source, Area: area}
	}

	h.execute(c, req)
}

func (h *Handler) execute(c *gin.Context, req usecase.EvaluationRequest) {
	// Execute use case.
	response, err := h.evaluationUC.Execute(c.Request.Context(), req)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, usecase.ErrNonFinite) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetTabulation handles GET /v1/tabulation.
func (h *Handler) GetTabulation(c *gin.Context) {
	c.JSON(http.StatusOK, h.evaluationUC.GetTablesInfo())
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// parsePoint parses "x,y,z".
func parsePoint(s string) (domain.Vec3, error) {
	if s == "" {
		return domain.Vec3{}, fmt.Errorf("expected x,y,z")
	}
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return domain.Vec3{}, fmt.Errorf("expected 3 coordinates, got %d", len(parts))
	}
	var p domain.Vec3
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return domain.Vec3{}, err
		}
		p[i] = v
	}
	return p, nil
}
