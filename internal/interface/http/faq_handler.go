package http

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zwinglabs/support-chat/internal/domain/faq"
)

// UploadPDF handles POST /api/ai/upload-pdf. Accepts one or more PDF files
// and ingests the FAQ pairs extracted from them.
func (h *Handler) UploadPDF(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "no file uploaded", err))
		return
	}
	files := form.File["file"]
	if len(files) == 0 {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "no file uploaded", nil))
		return
	}

	docs := make([]faq.Document, 0, len(files))
	for _, fileHeader := range files {
		file, err := fileHeader.Open()
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "failed to read upload", err))
			return
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			abortWithError(c, NewHTTPError(http.StatusInternalServerError, "internal_error", "failed to read file", err))
			return
		}
		docs = append(docs, faq.Document{Name: fileHeader.Filename, Data: data})
	}

	result, err := h.faqSvc.Ingest(c.Request.Context(), docs)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	message := "FAQs extracted and stored successfully!"
	if result.AllDuplicates() {
		message = "No new FAQs were added (duplicates found)."
	}
	respond(c, http.StatusOK, message, result.Inserted)
}

type aiChatPayload struct {
	Query string `json:"query"`
}

// AIChat handles POST /api/ai/chat.
func (h *Handler) AIChat(c *gin.Context) {
	var req aiChatPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "query is required", err))
		return
	}
	result, err := h.faqSvc.Query(c.Request.Context(), req.Query)
	if err != nil {
		abortDomainError(c, err)
		return
	}

	answer := result.Answer
	message := "Success"
	if result.Matched == nil && answer == "" {
		answer = h.faqCfg.FallbackMessage
	}
	if result.Matched == nil {
		message = "No relevant FAQ found!"
	}
	respond(c, http.StatusOK, message, gin.H{
		"response":          answer,
		"related_questions": result.Related,
	})
}

// ListFAQs handles GET /api/ai/faqs.
func (h *Handler) ListFAQs(c *gin.Context) {
	records, err := h.faqSvc.ListAll(c.Request.Context())
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "faqs fetched successfully", records)
}

// Trending handles GET /api/ai/trending.
func (h *Handler) Trending(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			abortWithError(c, NewHTTPError(http.StatusBadRequest, "invalid_input", "limit must be a positive integer", err))
			return
		}
		limit = parsed
	}
	queries, err := h.faqSvc.Trending(c.Request.Context(), limit)
	if err != nil {
		abortDomainError(c, err)
		return
	}
	respond(c, http.StatusOK, "trending queries fetched successfully", queries)
}
