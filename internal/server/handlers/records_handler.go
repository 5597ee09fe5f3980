package handlers

import (
	"errors"
	"math/rand"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/amcjunkshop/scrapledger/internal/catalog"
	"github.com/amcjunkshop/scrapledger/internal/domain/models"
	"github.com/amcjunkshop/scrapledger/internal/invoice"
	"github.com/amcjunkshop/scrapledger/internal/report"
	recordssvc "github.com/amcjunkshop/scrapledger/internal/service/records"
	reportingsvc "github.com/amcjunkshop/scrapledger/internal/service/reporting"
)

// RecordsHandler handles the entry, reporting and export HTTP surface.
type RecordsHandler struct {
	records     *recordssvc.Service
	reporting   *reportingsvc.Service
	catalog     *catalog.Catalog
	company     string
	defaultLang string
	logger      *zap.Logger

	// rand.Rand is not safe for concurrent use; invoice requests share one.
	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRecordsHandler constructs the HTTP handler adapter.
func NewRecordsHandler(records *recordssvc.Service, reporting *reportingsvc.Service, cat *catalog.Catalog, company, defaultLang string, logger *zap.Logger) *RecordsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cat == nil {
		cat = &catalog.Catalog{}
	}
	return &RecordsHandler{
		records:     records,
		reporting:   reporting,
		catalog:     cat,
		company:     company,
		defaultLang: defaultLang,
		rng:         rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:      logger,
	}
}

type saveRequest struct {
	Lines          []models.LineItem `json:"lines" binding:"required"`
	Date           string            `json:"date"`
	Code           string            `json:"code"`
	AllowZeroTotal bool              `json:"allowZeroTotal"`
}

// Save persists a new record built from the submitted entry rows.
func (h *RecordsHandler) Save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid save payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.records.Save(c.Request.Context(), req.Lines, recordssvc.SaveOptions{
		Date:           req.Date,
		Code:           req.Code,
		AllowZeroTotal: req.AllowZeroTotal,
	})
	switch {
	case err == nil:
		c.JSON(http.StatusCreated, rec)
	case errors.Is(err, recordssvc.ErrInvalidCode):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, recordssvc.ErrZeroTotal):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error(), "confirmRequired": true})
	case errors.Is(err, recordssvc.ErrDuplicateSubmission), errors.Is(err, recordssvc.ErrSaveInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("failed saving record", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to save record"})
	}
}

// Query answers a filtered, sorted, paginated report request.
func (h *RecordsHandler) Query(c *gin.Context) {
	page := 1
	if raw := c.Query("page"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			page = n
		}
	}

	result := h.reporting.Run(reportingsvc.Query{
		Filter: filterFromQuery(c),
		Sort:   sortFromQuery(c),
		Page:   page,
	})
	c.JSON(http.StatusOK, result)
}

// Delete removes a whole record by id.
func (h *RecordsHandler) Delete(c *gin.Context) {
	if err := h.records.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed deleting record", zap.String("record_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to delete record"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Export streams the full filtered and sorted set as CSV or XLSX.
func (h *RecordsHandler) Export(c *gin.Context) {
	filter := filterFromQuery(c)
	sort := sortFromQuery(c)
	now := time.Now()

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, name := h.reporting.ExportCSV(filter, sort, now)
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
	case "xlsx":
		data, name, err := h.reporting.ExportXLSX(filter, sort, now)
		if err != nil {
			h.logger.Error("failed building xlsx export", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "unable to build export"})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or xlsx"})
	}
}

type invoiceRequest struct {
	Lines []models.LineItem `json:"lines" binding:"required"`
	Date  string            `json:"date"`
}

// Invoice renders a printable proof-copy receipt for the submitted rows.
func (h *RecordsHandler) Invoice(c *gin.Context) {
	var req invoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid invoice payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	now := time.Now()
	date := req.Date
	if date == "" {
		date = now.Format("2006-01-02")
	}

	h.rngMu.Lock()
	number := invoice.NewNumber(h.rng)
	h.rngMu.Unlock()

	text := invoice.Render(invoice.Params{
		Company: h.company,
		Date:    date,
		Time:    now.Format("15:04"),
		Number:  number,
		Lines:   req.Lines,
	})
	c.String(http.StatusOK, text)
}

// Advice returns an AI spending summary in the requested language.
func (h *RecordsHandler) Advice(c *gin.Context) {
	lang := c.DefaultQuery("lang", h.defaultLang)

	advice, err := h.reporting.Advice(c.Request.Context(), lang)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"advice": advice})
	case errors.Is(err, reportingsvc.ErrAdviceDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("failed generating advice", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to generate advice"})
	}
}

type categorizeRequest struct {
	Description string `json:"description" binding:"required"`
}

// Categorize suggests a category tag for a free-form record description.
func (h *RecordsHandler) Categorize(c *gin.Context) {
	var req categorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid categorize payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	cat, err := h.reporting.SuggestCategory(c.Request.Context(), req.Description)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"category": cat})
	case errors.Is(err, reportingsvc.ErrAdviceDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		h.logger.Error("failed suggesting category", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "unable to suggest a category"})
	}
}

// Catalog lists the configured materials for entry-page prefill.
func (h *RecordsHandler) Catalog(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalog)
}

func filterFromQuery(c *gin.Context) report.Filter {
	return report.Filter{
		DateStart: c.Query("start"),
		DateEnd:   c.Query("end"),
		Material:  c.Query("material"),
	}
}

func sortFromQuery(c *gin.Context) report.SortState {
	if c.Query("sort") == "" {
		return report.DefaultSort()
	}
	return report.SortState{
		Key:       report.ParseSortKey(c.Query("sort")),
		Ascending: c.Query("dir") == "asc",
	}
}
