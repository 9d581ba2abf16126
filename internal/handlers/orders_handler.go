package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/promodeagro/packer-workflow/internal/auth"
	"github.com/promodeagro/packer-workflow/internal/aws"
	"github.com/promodeagro/packer-workflow/internal/errs"
	"github.com/promodeagro/packer-workflow/internal/notifications"
	"github.com/promodeagro/packer-workflow/internal/orders"
	"github.com/promodeagro/packer-workflow/internal/packers"
	"github.com/promodeagro/packer-workflow/internal/validation"
	"github.com/promodeagro/packer-workflow/internal/workflow"
)

const (
	defaultPageSize     = 20
	maxPageSize         = 100
	defaultBulkMaxItems = 100
)

// HandlerConfig groups dependencies for the packer API handlers.
type HandlerConfig struct {
	DynamoDBClient     aws.DynamoDBAPI
	SQSClient          aws.SQSAPI
	CloudWatchClient   aws.CloudWatchAPI
	OrdersTable        string
	PackersTable       string
	UsersTable         string
	NotificationsTable string
	QueueURL           string
	MetricsNamespace   string
}

// RegisterRoutes registers the packer API routes.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	ordersStore := orders.NewStore(cfg.DynamoDBClient, cfg.OrdersTable)
	packersStore := packers.NewStore(cfg.DynamoDBClient, cfg.PackersTable)
	authStore := auth.NewStore(cfg.DynamoDBClient, cfg.UsersTable)
	notifStore := notifications.NewStore(cfg.DynamoDBClient, cfg.NotificationsTable)

	var publisher workflow.EventPublisher
	if cfg.SQSClient != nil && cfg.QueueURL != "" {
		publisher = aws.NewPublisher(cfg.SQSClient, cfg.QueueURL)
	}
	var metrics workflow.MetricsEmitter
	if cfg.CloudWatchClient != nil && cfg.MetricsNamespace != "" {
		metrics = aws.NewMetricsEmitter(cfg.CloudWatchClient, cfg.MetricsNamespace)
	}
	engine := workflow.NewEngine(ordersStore, publisher, metrics)

	registerAuthRoutes(r, v, authStore)
	registerProfileRoutes(r, v, packersStore)
	registerNotificationRoutes(r, notifStore)

	// dashboard counts: display only, failures degrade to zero
	r.GET("/orders/counts", func(c *gin.Context) {
		ctx := c.Request.Context()
		unpacked, err := ordersStore.CountByStatus(ctx, orders.StatusUnpacked)
		if err != nil {
			log.Printf("[api] count unpacked failed, defaulting to 0: %v", err)
			unpacked = 0
		}
		packed, err := ordersStore.CountByStatus(ctx, orders.StatusPacked)
		if err != nil {
			log.Printf("[api] count packed failed, defaulting to 0: %v", err)
			packed = 0
		}
		c.JSON(http.StatusOK, gin.H{"unpacked": unpacked, "packed": packed})
	})

	// paged browse over one status partition, newest first
	r.GET("/orders", func(c *gin.Context) {
		status := c.Query("status")
		if status != orders.StatusUnpacked && status != orders.StatusPacked {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_status"})
			return
		}
		limit := parseLimit(c.Query("limit"))
		token, err := orders.DecodeToken(c.Query("cursor"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_cursor"})
			return
		}

		page, next, err := ordersStore.QueryByStatus(c.Request.Context(), status, limit, token)
		if err != nil {
			writeError(c, err)
			return
		}
		nextCursor, err := orders.EncodeToken(next)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"orders": page, "nextCursor": nextCursor})
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		order, err := engine.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, order)
	})

	// one packing pass: record all availability decisions, persist items and
	// summary in a single write
	r.PUT("/orders/:id/items", func(c *gin.Context) {
		var req validation.UpdateItemsRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		ctx := c.Request.Context()
		order, err := engine.GetOrder(ctx, c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		for _, d := range req.Decisions {
			if err := engine.RecordItemAvailability(order, d.Index, d.Availability); err != nil {
				writeError(c, err)
				return
			}
		}
		updated, err := engine.CommitItemAvailability(ctx, order)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	r.POST("/orders/:id/complete", func(c *gin.Context) {
		var req validation.CompleteOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		ctx := c.Request.Context()
		if _, err := packersStore.Get(ctx, req.PackedBy); err != nil {
			if errors.Is(err, errs.ErrNotFound) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "unknown_packer", "packerId": req.PackedBy})
				return
			}
			writeError(c, err)
			return
		}
		updated, err := engine.CompleteOrder(ctx, c.Param("id"), req.PackedBy, req.PhotoURL, req.VideoURL)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})

	r.POST("/orders/complete-all", func(c *gin.Context) {
		var req validation.BulkCompleteRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		maxItems := req.MaxItems
		if maxItems == 0 {
			maxItems = defaultBulkMaxItems
		}
		result, err := engine.CompleteAllUnpacked(c.Request.Context(), req.PackedBy, req.PhotoURL, req.VideoURL, maxItems)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	})
}

func parseLimit(raw string) int32 {
	if raw == "" {
		return defaultPageSize
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return defaultPageSize
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return int32(n)
}

// writeError maps the error taxonomy onto HTTP statuses.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "msg": err.Error()})
	case errors.Is(err, errs.ErrValidation):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "validation_failed", "msg": err.Error()})
	case errors.Is(err, errs.ErrTransientStore):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "store_unavailable", "msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "msg": err.Error()})
	}
}
