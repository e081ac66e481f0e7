package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/example/craftora/pkg/identity"
	"github.com/example/craftora/pkg/models"
)

func (g *Gateway) newCaptcha(c *gin.Context) {
	ch := g.identity.NewChallenge()
	c.JSON(http.StatusOK, gin.H{"id": ch.ID, "question": ch.Question})
}

type loginRequest struct {
	Username      string `json:"username"`
	Phone         string `json:"phone"`
	Password      string `json:"password"`
	CaptchaID     string `json:"captchaId"`
	CaptchaAnswer string `json:"captchaAnswer"`
}

func (g *Gateway) login(c *gin.Context) {
	var req loginRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess, err := g.identity.Login(c.Request.Context(), identity.LoginInput{
		Username:      req.Username,
		Phone:         req.Phone,
		Password:      req.Password,
		CaptchaID:     req.CaptchaID,
		CaptchaAnswer: req.CaptchaAnswer,
	})
	if err == identity.ErrCaptcha {
		// a failed captcha always regenerates the challenge
		ch := g.identity.NewChallenge()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   err.Error(),
			"captcha": gin.H{"id": ch.ID, "question": ch.Question},
		})
		return
	}
	if err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sess)
}

func (g *Gateway) logout(c *gin.Context) {
	if err := g.identity.Logout(c.Request.Context()); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) session(c *gin.Context) {
	sess, ok := g.identity.CurrentSession(c.Request.Context())
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no session"})
		return
	}
	c.JSON(http.StatusOK, sess)
}

type signupRequest struct {
	Role     string `json:"role"`
	Username string `json:"username"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

func (g *Gateway) signup(c *gin.Context) {
	var req signupRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch models.Role(req.Role) {
	case models.RoleArtisan:
		request, err := g.identity.SignupArtisan(c.Request.Context(), req.Username, req.Password, req.Phone)
		if err != nil {
			g.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"id":      request.ID,
			"status":  request.Status,
			"message": "Signup request submitted for consultant review",
		})
	case models.RoleCustomer, "":
		cust, err := g.identity.SignupCustomer(c.Request.Context(), req.Username, req.Password, req.Phone)
		if err != nil {
			g.fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"id": cust.ID, "username": cust.Username})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown signup role"})
	}
}

func (g *Gateway) listCustomers(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleAdmin); !ok {
		return
	}
	customers := g.identity.ListCustomers(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
}

func (g *Gateway) deleteCustomer(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	if err := g.identity.DeleteCustomer(c.Request.Context(), sess.ID, c.Param("id")); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (g *Gateway) listArtisans(c *gin.Context) {
	if _, ok := g.requireRole(c, models.RoleAdmin); !ok {
		return
	}
	artisans := g.identity.ListArtisans(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"artisans": artisans, "total": len(artisans)})
}

func (g *Gateway) deleteArtisan(c *gin.Context) {
	sess, ok := g.requireRole(c, models.RoleAdmin)
	if !ok {
		return
	}
	if err := g.identity.DeleteArtisan(c.Request.Context(), sess.ID, c.Param("id")); err != nil {
		g.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
