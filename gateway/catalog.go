package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/craftora/pkg/catalog"
	"github.com/example/craftora/pkg/models"
)

func (g *Gateway) listPublished(c *gin.Context) {
	products := g.catalog.Published(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

type productRequest struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"imageUrl"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
}

func (g *Gateway) submitProduct(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleArtisan)
	if !ok {
		return
	}
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := g.catalog.Submit(c.Request.Context(), sess.ID, catalog.SubmitInput{
		Name:        req.Name,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	})
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (g *Gateway) myProducts(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleArtisan)
	if !ok {
		return
	}
	products := g.catalog.ForArtisan(c.Request.Context(), sess.ID)
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (g *Gateway) editProduct(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleArtisan)
	if !ok {
		return
	}
	var req productRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := g.catalog.Edit(c.Request.Context(), sess.ID, c.Param("id"),
		models.ProductStatus(req.Status), catalog.SubmitInput{
			Name:        req.Name,
			Price:       req.Price,
			ImageURL:    req.ImageURL,
			Description: req.Description,
		})
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (g *Gateway) deleteProduct(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleArtisan)
	if !ok {
		return
	}
	status := models.ProductStatus(c.Query("status"))
	if err := g.catalog.Delete(c.Request.Context(), sess.ID, c.Param("id"), status); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) pendingProducts(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleConsultant); !ok {
		return
	}
	products := g.catalog.Pending(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (g *Gateway) approveProduct(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleConsultant)
	if !ok {
		return
	}
	product, err := g.catalog.Approve(c.Request.Context(), sess.ID, c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, product)
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

func (g *Gateway) rejectProduct(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleConsultant)
	if !ok {
		return
	}
	var req rejectRequest
	_ = c.BindJSON(&req) // reason is optional

	if err := g.catalog.Reject(c.Request.Context(), sess.ID, c.Param("id"), req.Reason); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) rejectedProducts(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleConsultant, models.RoleAdmin); !ok {
		return
	}
	products := g.catalog.Rejected(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (g *Gateway) artisanRequests(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleConsultant); !ok {
		return
	}
	requests := g.catalog.Requests(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"requests": requests, "total": len(requests)})
}

func (g *Gateway) approveArtisan(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleConsultant)
	if !ok {
		return
	}
	artisan, err := g.catalog.ApproveArtisan(c.Request.Context(), sess.ID, c.Param("id"))
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, artisan)
}

func (g *Gateway) rejectArtisan(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleConsultant)
	if !ok {
		return
	}
	var req rejectRequest
	_ = c.BindJSON(&req)

	if err := g.catalog.RejectArtisan(c.Request.Context(), sess.ID, c.Param("id"), req.Reason); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) rejectedArtisans(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleConsultant, models.RoleAdmin); !ok {
		return
	}
	requests := g.catalog.RejectedArtisans(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"requests": requests, "total": len(requests)})
}

type translateRequest struct {
	Text   string `json:"text"`
	Source string `json:"source"`
	Target string `json:"target"`
}

func (g *Gateway) translateText(c *gin.Context) {
	var req translateRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Target == "" {
		req.Target = "en"
	}

	translated, _ := g.translator.Translate(c.Request.Context(), req.Text, req.Source, req.Target)
	c.JSON(http.StatusOK, gin.H{"translatedText": translated})
}
