package httpserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"retail-console/internal/domain"
	cartsvc "retail-console/internal/service/cart"
)

func (h *handlers) listProducts(c *gin.Context) {
	sess := currentSession(c)

	var (
		products []domain.Product
		err      error
	)
	if c.Query("refresh") != "" {
		products, err = h.deps.Catalog.Refresh(c.Request.Context(), sess.Token)
	} else {
		products, err = h.deps.Catalog.Products(c.Request.Context(), sess.Token)
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *handlers) createCart(c *gin.Context) {
	sess := currentSession(c)
	d := h.deskFor(sess)

	created, err := d.cart.Create(c.Request.Context(), sess.Token)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.deps.Sessions.SetCartID(c.Request.Context(), sess.ID, created.ID); err != nil {
		h.logger.Printf("persist cart id: %v", err)
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) getCart(c *gin.Context) {
	sess := currentSession(c)
	d := h.deskFor(sess)

	current, err := d.cart.Refresh(c.Request.Context(), sess.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	if current == nil {
		// Benign: the cart was consumed by checkout or never created.
		if err := h.deps.Sessions.SetCartID(c.Request.Context(), sess.ID, 0); err != nil {
			h.logger.Printf("clear cart id: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"cart": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": current})
}

type cartItemRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
}

func (h *handlers) addCartItem(c *gin.Context) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "productId and quantity are required"})
		return
	}

	sess := currentSession(c)
	d := h.deskFor(sess)
	updated, err := d.cart.AddItem(c.Request.Context(), sess.Token, req.ProductID, req.Quantity)
	h.respondCart(c, updated, err)
}

type quantityRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h *handlers) updateCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "quantity is required"})
		return
	}

	sess := currentSession(c)
	d := h.deskFor(sess)
	updated, err := d.cart.UpdateQuantity(c.Request.Context(), sess.Token, productID, req.Quantity)
	h.respondCart(c, updated, err)
}

func (h *handlers) removeCartItem(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Param("productId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid product id"})
		return
	}

	sess := currentSession(c)
	d := h.deskFor(sess)
	updated, err := d.cart.RemoveItem(c.Request.Context(), sess.Token, productID)
	h.respondCart(c, updated, err)
}

func (h *handlers) clearCart(c *gin.Context) {
	sess := currentSession(c)
	d := h.deskFor(sess)

	if err := d.cart.Clear(c.Request.Context(), sess.Token); err != nil {
		respondError(c, err)
		return
	}
	if err := h.deps.Sessions.SetCartID(c.Request.Context(), sess.ID, 0); err != nil {
		h.logger.Printf("clear cart id: %v", err)
	}
	c.Status(http.StatusNoContent)
}

// respondCart handles the mutate-then-refetch result shared by the item
// handlers. A stale refresh is reported as a warning on an otherwise
// successful mutation.
func (h *handlers) respondCart(c *gin.Context, updated *domain.Cart, err error) {
	if errors.Is(err, cartsvc.ErrStaleRefresh) {
		c.JSON(http.StatusOK, gin.H{"cart": updated, "warning": err.Error()})
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cart": updated})
}

type checkoutRequest struct {
	PhoneNumber   string `json:"phoneNumber"`
	PaymentMethod string `json:"paymentMethod" binding:"required"`
}

func (h *handlers) startCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "paymentMethod is required"})
		return
	}

	sess := currentSession(c)
	d := h.deskFor(sess)

	snapshot, err := d.checkout.Checkout(c.Request.Context(), sess.Token, req.PhoneNumber, domain.PaymentMethod(req.PaymentMethod))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, snapshot)
}

func (h *handlers) checkoutStatus(c *gin.Context) {
	sess := currentSession(c)
	d := h.deskFor(sess)
	c.JSON(http.StatusOK, d.checkout.Status())
}

func (h *handlers) cancelCheckout(c *gin.Context) {
	sess := currentSession(c)
	d := h.deskFor(sess)

	snapshot, err := d.checkout.Cancel()
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"message": err.Error(), "session": snapshot})
		return
	}
	c.JSON(http.StatusOK, snapshot)
}
