package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/craftora/pkg/models"
)

func (g *Gateway) getCart(c *gin.Context) {
	items := g.orders.Cart(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": g.orders.CartTotal(c.Request.Context()),
	})
}

type addToCartRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// addToCart resolves the product in the published catalog and merges it
// into the cart.
func (g *Gateway) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var product *models.Product
	for _, p := range g.catalog.Published(c.Request.Context()) {
		if p.ID == req.ProductID {
			product = &p
			break
		}
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
		return
	}

	err := g.orders.AddToCart(c.Request.Context(), models.CartItem{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
		Image:     product.ImageURL,
		ArtisanID: product.ArtisanID,
	})
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": g.orders.Cart(c.Request.Context())})
}

func (g *Gateway) removeFromCart(c *gin.Context) {
	if err := g.orders.RemoveFromCart(c.Request.Context(), c.Param("name")); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": g.orders.Cart(c.Request.Context())})
}

func (g *Gateway) checkout(c *gin.Context) {
	placed, err := g.orders.Checkout(c.Request.Context())
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"orders": placed, "total": len(placed)})
}

func (g *Gateway) myOrders(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleArtisan)
	if !ok {
		return
	}
	mine := g.orders.ForArtisan(c.Request.Context(), sess.ID)
	c.JSON(http.StatusOK, gin.H{"orders": mine, "total": len(mine)})
}

type statusRequest struct {
	Status string `json:"status"`
}

func (g *Gateway) updateOrderStatus(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleArtisan)
	if !ok {
		return
	}
	var req statusRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := g.orders.UpdateStatus(c.Request.Context(), sess.ID, c.Param("id"), models.OrderStatus(req.Status))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (g *Gateway) allOrders(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleAdmin); !ok {
		return
	}
	all := g.orders.All(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"orders": all, "total": len(all)})
}

func (g *Gateway) orderStats(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleAdmin); !ok {
		return
	}
	c.JSON(http.StatusOK, g.orders.ComputeStats(c.Request.Context()))
}

func (g *Gateway) productFeedback(c *gin.Context) {
	entries := g.feedback.ForProduct(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, gin.H{"feedbacks": entries, "total": len(entries)})
}

type feedbackRequest struct {
	Text string `json:"text"`
}

func (g *Gateway) addFeedback(c *gin.Context) {
	var req feedbackRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := g.feedback.Add(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

func (g *Gateway) allFeedback(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleAdmin); !ok {
		return
	}
	entries := g.feedback.All(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"feedbacks": entries, "total": len(entries)})
}

func (g *Gateway) deleteFeedback(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleAdmin); !ok {
		return
	}
	if err := g.feedback.Delete(c.Request.Context(), c.Param("id")); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
