package v1

import (
	"net/http"

	"github.com/billflow/billflow/internal/api/dto"
	ierr "github.com/billflow/billflow/internal/errors"
	"github.com/billflow/billflow/internal/logger"
	"github.com/billflow/billflow/internal/service"
	"github.com/billflow/billflow/internal/types"
	"github.com/gin-gonic/gin"
)

type CreditNoteHandler struct {
	service service.CreditNoteService
	log     *logger.Logger
}

func NewCreditNoteHandler(service service.CreditNoteService, log *logger.Logger) *CreditNoteHandler {
	return &CreditNoteHandler{service: service, log: log}
}

// @Summary Create a credit note
// @Description Create an open credit note against an invoice
// @Tags CreditNotes
// @Accept json
// @Produce json
// @Param credit_note body dto.CreateCreditNoteRequest true "Credit note data"
// @Success 201 {object} dto.CreditNoteResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /credit-notes [post]
func (h *CreditNoteHandler) CreateCreditNote(c *gin.Context) {
	var req dto.CreateCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.Error("Failed to bind JSON", "error", err)
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateCreditNote(c.Request.Context(), &req)
	if err != nil {
		h.log.Error("Failed to create credit note", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a credit note by ID
// @Description Get a credit note by ID
// @Tags CreditNotes
// @Produce json
// @Param id path string true "Credit Note ID"
// @Success 200 {object} dto.CreditNoteResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /credit-notes/{id} [get]
func (h *CreditNoteHandler) GetCreditNote(c *gin.Context) {
	resp, err := h.service.GetCreditNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Failed to get credit note", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List credit notes
// @Description List credit notes with optional filtering
// @Tags CreditNotes
// @Produce json
// @Param customer_id query string false "Filter by customer"
// @Param invoice_id query string false "Filter by invoice"
// @Param credit_note_status query string false "Filter by status"
// @Param search query string false "Search by number or description"
// @Success 200 {object} dto.ListCreditNotesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /credit-notes [get]
func (h *CreditNoteHandler) ListCreditNotes(c *gin.Context) {
	filter := types.NewCreditNoteFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid query parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListCreditNotes(c.Request.Context(), filter)
	if err != nil {
		h.log.Error("Failed to list credit notes", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Apply a credit note
// @Description Apply an open credit note to its invoice
// @Tags CreditNotes
// @Produce json
// @Param id path string true "Credit Note ID"
// @Success 200 {object} dto.CreditNoteResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /credit-notes/{id}/apply [post]
func (h *CreditNoteHandler) ApplyCreditNote(c *gin.Context) {
	resp, err := h.service.ApplyCreditNote(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.Error("Failed to apply credit note", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Void a credit note
// @Description Void an open credit note with a reason
// @Tags CreditNotes
// @Accept json
// @Produce json
// @Param id path string true "Credit Note ID"
// @Param void body dto.VoidCreditNoteRequest true "Void reason"
// @Success 200 {object} dto.CreditNoteResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /credit-notes/{id}/void [post]
func (h *CreditNoteHandler) VoidCreditNote(c *gin.Context) {
	var req dto.VoidCreditNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.VoidCreditNote(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.log.Error("Failed to void credit note", "error", err)
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
