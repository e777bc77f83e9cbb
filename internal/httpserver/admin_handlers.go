package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"retail-console/internal/repository/audit"
	"retail-console/internal/upstream"
)

func (h *handlers) listManagers(c *gin.Context) {
	sess := currentSession(c)
	managers, err := h.deps.Upstream.ListManagers(c.Request.Context(), sess.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"managers": managers})
}

func (h *handlers) searchManager(c *gin.Context) {
	email := strings.TrimSpace(c.Query("email"))
	if email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "email query parameter is required"})
		return
	}

	sess := currentSession(c)
	manager, err := h.deps.Upstream.SearchManager(c.Request.Context(), sess.Token, email)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"manager": manager})
}

type createManagerRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *handlers) createManager(c *gin.Context) {
	var req createManagerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "name, email and password are required"})
		return
	}

	sess := currentSession(c)
	message, err := h.deps.Upstream.CreateManager(c.Request.Context(), sess.Token, req.Name, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	h.record(c, audit.Entry{Actor: sess.Email, Action: "manager.create", Entity: req.Email})
	c.JSON(http.StatusCreated, gin.H{"message": message})
}

func (h *handlers) deleteManager(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid manager id"})
		return
	}

	sess := currentSession(c)
	message, err := h.deps.Upstream.DeleteManager(c.Request.Context(), sess.Token, id)
	if err != nil {
		respondError(c, err)
		return
	}

	h.record(c, audit.Entry{Actor: sess.Email, Action: "manager.delete", Entity: c.Param("id")})
	c.JSON(http.StatusOK, gin.H{"message": message})
}

type productRequest struct {
	ProductName   string  `json:"productName" binding:"required"`
	Price         float64 `json:"price" binding:"required"`
	StockQuantity int     `json:"stockQuantity"`
	Category      string  `json:"category"`
	ExpiryDate    string  `json:"expiryDate"`
	ImageURL      string  `json:"imageUrl"`
}

func (r productRequest) input() upstream.ProductInput {
	return upstream.ProductInput{
		ProductName: r.ProductName,
		Price:       r.Price,
		Quantity:    r.StockQuantity,
		Category:    r.Category,
		ExpiryDate:  r.ExpiryDate,
		ImageURL:    r.ImageURL,
	}
}

func (h *handlers) createProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productName and price are required"})
		return
	}

	sess := currentSession(c)
	product, err := h.deps.Upstream.CreateProduct(c.Request.Context(), sess.Token, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshCatalog(c)
	h.record(c, audit.Entry{Actor: sess.Email, Action: "product.create", Entity: req.ProductName})
	c.JSON(http.StatusCreated, product)
}

func (h *handlers) updateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productName and price are required"})
		return
	}

	sess := currentSession(c)
	product, err := h.deps.Upstream.UpdateProduct(c.Request.Context(), sess.Token, id, req.input())
	if err != nil {
		respondError(c, err)
		return
	}

	h.refreshCatalog(c)
	h.record(c, audit.Entry{Actor: sess.Email, Action: "product.update", Entity: c.Param("id")})
	c.JSON(http.StatusOK, product)
}

func (h *handlers) deleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	sess := currentSession(c)
	if err := h.deps.Upstream.DeleteProduct(c.Request.Context(), sess.Token, id); err != nil {
		respondError(c, err)
		return
	}

	h.refreshCatalog(c)
	h.record(c, audit.Entry{Actor: sess.Email, Action: "product.delete", Entity: c.Param("id")})
	c.Status(http.StatusNoContent)
}

func (h *handlers) listAudit(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	entries, err := h.deps.Audit.ListRecent(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": entries})
}

// record writes an audit entry; failures are logged, never surfaced.
func (h *handlers) record(c *gin.Context, e audit.Entry) {
	if err := h.deps.Audit.Insert(c.Request.Context(), e); err != nil {
		h.logger.Printf("audit %s: %v", e.Action, err)
	}
}

func (h *handlers) refreshCatalog(c *gin.Context) {
	sess := currentSession(c)
	if _, err := h.deps.Catalog.Refresh(c.Request.Context(), sess.Token); err != nil {
		h.logger.Printf("catalog refresh: %v", err)
	}
}
