// Package handlers implements the HTTP request handlers.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	codegraph "github.com/Sacxy/codegraph"
	"github.com/Sacxy/codegraph/pkg/server/dto"
)

// QueryHandler handles question answering and retrieval requests
type QueryHandler struct {
	client codegraph.CodeGraph
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(client codegraph.CodeGraph) *QueryHandler {
	return &QueryHandler{client: client}
}

// Answer handles POST /api/v1/query. The pipeline never errors; even a
// failed run returns a result object with the error flag set.
func (h *QueryHandler) Answer(c *gin.Context) {
	var request dto.QueryRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	result := h.client.Answer(c.Request.Context(), request.Query)
	c.JSON(http.StatusOK, result)
}

// Retrieve handles POST /api/v1/retrieve, returning the scored
// subgraph without answer generation.
func (h *QueryHandler) Retrieve(c *gin.Context) {
	var request dto.RetrieveRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}
	if err := request.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "invalid request",
			Message: err.Error(),
			Code:    http.StatusBadRequest,
		})
		return
	}

	retrieval, err := h.client.Retrieve(c.Request.Context(), request.Query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{
			Error:   "retrieval failed",
			Message: err.Error(),
			Code:    http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, dto.Result{Success: true, Data: retrieval})
}
