package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"privlens/internal/domain"
	"privlens/internal/export"
	"privlens/internal/middleware"
	"privlens/internal/service"
)

// PolicyHandler handles policy analysis endpoints.
type PolicyHandler struct {
	analysisService service.AnalysisService
	maxUploadBytes  int64
}

// NewPolicyHandler creates a new PolicyHandler.
func NewPolicyHandler(analysisService service.AnalysisService, maxUploadBytes int64) *PolicyHandler {
	return &PolicyHandler{analysisService: analysisService, maxUploadBytes: maxUploadBytes}
}

// Analyze handles POST /api/v1/policies/analyze
// @Summary Analyze a privacy policy
// @Description Segment, analyze, score, style, and quiz a policy supplied as text
// @Tags policies
// @Accept json
// @Produce json
// @Param body body AnalyzeRequest true "Policy text and company details"
// @Success 201 {object} Response{data=service.AnalysisResponse} "Analysis result"
// @Failure 400 {object} ErrorResponseBody "Invalid input"
// @Router /policies/analyze [post]
func (h *PolicyHandler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	resp, err := h.analysisService.Analyze(c.Request.Context(), domain.DocumentInput{
		PolicyContent: req.PolicyContent,
		CompanyName:   req.CompanyName,
		CompanyURL:    req.CompanyURL,
		ContactEmail:  req.ContactEmail,
		PolicyTitle:   req.PolicyTitle,
		Version:       req.Version,
		EffectiveDate: req.EffectiveDate,
		MaxChunkSize:  req.MaxChunkSize,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, resp)
}

// Upload handles POST /api/v1/policies/analyze/upload
// @Summary Analyze an uploaded privacy policy
// @Description Extract text from a PDF, HTML, or plain text file and analyze it
// @Tags policies
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Policy document (pdf, html, htm, txt, md)"
// @Param company_name formData string true "Company name"
// @Param company_url formData string false "Company URL"
// @Param contact_email formData string false "Privacy contact email"
// @Param policy_title formData string false "Policy title"
// @Param version formData string false "Policy version"
// @Param effective_date formData string false "Policy effective date"
// @Param max_chunk_size formData int false "Chunk budget in bytes for this document (500-20000)"
// @Success 201 {object} Response{data=service.AnalysisResponse} "Analysis result"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "No text could be extracted"
// @Router /policies/analyze/upload [post]
func (h *PolicyHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		RespondError(c, http.StatusBadRequest, "MISSING_FILE", "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.maxUploadBytes > 0 && header.Size > h.maxUploadBytes {
		HandleError(c, domain.ErrFileTooLarge)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.GetLogger(c).Warn("policyHandler.Upload: reading upload", zap.String("filename", header.Filename), zap.Error(err))
		RespondError(c, http.StatusBadRequest, "UNREADABLE_FILE", "uploaded file could not be read")
		return
	}

	maxChunkSize := 0
	if v := c.PostForm("max_chunk_size"); v != "" {
		maxChunkSize, err = strconv.Atoi(v)
		if err != nil {
			RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "max_chunk_size must be an integer")
			return
		}
	}

	resp, err := h.analysisService.AnalyzeFile(c.Request.Context(), &service.AnalyzeFileInput{
		Filename:      header.Filename,
		Data:          data,
		CompanyName:   c.PostForm("company_name"),
		CompanyURL:    c.PostForm("company_url"),
		ContactEmail:  c.PostForm("contact_email"),
		PolicyTitle:   c.PostForm("policy_title"),
		Version:       c.PostForm("version"),
		EffectiveDate: c.PostForm("effective_date"),
		MaxChunkSize:  maxChunkSize,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, resp)
}

// List handles GET /api/v1/policies
// @Summary List analyses
// @Description List stored analysis records, newest first
// @Tags policies
// @Produce json
// @Param offset query int false "Offset for pagination" default(0)
// @Param limit query int false "Limit for pagination (max 100)" default(20)
// @Success 200 {object} Response{data=[]domain.AnalysisRecord,meta=PagMeta} "List of analyses"
// @Router /policies [get]
func (h *PolicyHandler) List(c *gin.Context) {
	offset, limit := parsePagination(c)

	records, total, err := h.analysisService.List(c.Request.Context(), offset, limit)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondPaginated(c, records, PagMeta{Total: total, Offset: offset, Limit: limit})
}

// GetByID handles GET /api/v1/policies/:id
// @Summary Get an analysis
// @Tags policies
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} Response{data=service.AnalysisResponse} "Analysis result"
// @Failure 404 {object} ErrorResponseBody "Analysis not found"
// @Router /policies/{id} [get]
func (h *PolicyHandler) GetByID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	resp, err := h.analysisService.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, resp)
}

// Export handles GET /api/v1/policies/:id/export
// @Summary Export an analysis report
// @Description Download per-section scores as CSV or XLSX
// @Tags policies
// @Produce text/csv
// @Param id path string true "Analysis ID"
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file "Report file"
// @Failure 400 {object} ErrorResponseBody "Unsupported format"
// @Failure 404 {object} ErrorResponseBody "Analysis not found"
// @Router /policies/{id}/export [get]
func (h *PolicyHandler) Export(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	out, err := h.analysisService.Export(c.Request.Context(), id, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", out.Filename))
	c.Data(http.StatusOK, out.ContentType, out.Data)
}

// Models handles GET /api/v1/policies/models
// @Summary Reasoning configuration
// @Description Configured providers, models, and the per-kind tier policy
// @Tags policies
// @Produce json
// @Success 200 {object} Response{data=service.ModelInfo}
// @Router /policies/models [get]
func (h *PolicyHandler) Models(c *gin.Context) {
	RespondOK(c, h.analysisService.Models())
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid analysis ID")
		return uuid.Nil, false
	}
	return id, true
}
