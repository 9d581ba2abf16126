package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/promodeagro/packer-workflow/internal/auth"
	"github.com/promodeagro/packer-workflow/internal/notifications"
	"github.com/promodeagro/packer-workflow/internal/packers"
	"github.com/promodeagro/packer-workflow/internal/validation"
)

func registerAuthRoutes(r *gin.Engine, v *validatorv10.Validate, store *auth.Store) {
	r.POST("/auth/login", func(c *gin.Context) {
		var req validation.LoginRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		identity, err := store.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid_credentials"})
				return
			}
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, identity)
	})
}

func registerProfileRoutes(r *gin.Engine, v *validatorv10.Validate, store *packers.Store) {
	r.GET("/profile/:id", func(c *gin.Context) {
		packer, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, packer)
	})

	r.PUT("/profile/:id", func(c *gin.Context) {
		var req validation.UpdatePackerRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		packer, err := store.Update(c.Request.Context(), c.Param("id"), req.Username, req.Email)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, packer)
	})
}

func registerNotificationRoutes(r *gin.Engine, store *notifications.Store) {
	r.GET("/notifications", func(c *gin.Context) {
		limit := int32(50)
		if raw := c.Query("limit"); raw != "" {
			if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= 200 {
				limit = int32(n)
			}
		}
		list, err := store.ListByUser(c.Request.Context(), c.Query("userId"), limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"notifications": list})
	})
}
