package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nexflow/nexflow-server/internal/notify"
	"github.com/nexflow/nexflow-server/internal/orders"
	"github.com/nexflow/nexflow-server/internal/uploads"
	"github.com/nexflow/nexflow-server/internal/validation"
)

// HandlerConfig groups dependencies for the order routes.
type HandlerConfig struct {
	Store      orders.Store
	Dispatcher *notify.Dispatcher
	Uploads    *uploads.Saver
	Log        *zap.Logger
}

// RegisterOrdersRoutes registers the order intake and admin routes.
func RegisterOrdersRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	api := r.Group("/api")

	// Intake: multipart form fields plus up to 5 attachments. Validation
	// failures intentionally surface as 500 like every other failure on
	// this route; the client only ever sees success or a generic error.
	api.POST("/orders", func(c *gin.Context) {
		ctx := c.Request.Context()

		req := validation.ParseOrderForm(c, cfg.Log)
		if err := validation.Validate(v, req); err != nil {
			cfg.Log.Error("order validation failed",
				zap.Any("fields", validation.ErrorsToMap(err)),
				zap.Any("request", c.Request.PostForm))
			internalError(c, err.Error())
			return
		}

		var attached []orders.AttachedFile
		if form, err := c.MultipartForm(); err == nil && form != nil {
			attached, err = cfg.Uploads.SaveAll(form.File["files"])
			if err != nil {
				cfg.Log.Error("attachment upload rejected", zap.Error(err))
				internalError(c, err.Error())
				return
			}
		}

		order, err := cfg.Store.Create(ctx, orders.NewOrder{
			FullName:          req.FullName,
			Email:             req.Email,
			Phone:             req.Phone,
			Company:           req.Company,
			ProjectName:       req.ProjectName,
			AutomationType:    req.AutomationType,
			CustomDescription: req.CustomDescription,
			Integrations:      req.Integrations,
			HasCredentials:    req.HasCredentials,
			AttachedFiles:     attached,
			ExampleLink:       req.ExampleLink,
			DeliverySpeed:     req.DeliverySpeed,
			PriorityNotes:     req.PriorityNotes,
		})
		if err != nil {
			cfg.Log.Error("order creation failed", zap.Error(err),
				zap.Any("request", c.Request.PostForm))
			internalError(c, err.Error())
			return
		}

		// Best effort: a lost notification never fails the order.
		cfg.Dispatcher.OrderCreated(ctx, order)

		c.JSON(http.StatusOK, gin.H{"success": true, "orderId": order.OrderID})
	})

	// Admin list with optional search/status/sort narrowing.
	api.GET("/orders", func(c *gin.Context) {
		all, err := cfg.Store.List(c.Request.Context())
		if err != nil {
			cfg.Log.Error("failed to list orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		filtered := orders.FilterOrders(all, orders.ListQuery{
			Search: c.Query("search"),
			Status: c.Query("status"),
			Sort:   c.Query("sort"),
		})
		c.JSON(http.StatusOK, filtered)
	})

	api.GET("/orders/:id", func(c *gin.Context) {
		order, err := cfg.Store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			cfg.Log.Error("failed to fetch order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	api.GET("/orders/by-order-id/:orderId", func(c *gin.Context) {
		order, err := cfg.Store.GetByOrderID(c.Request.Context(), c.Param("orderId"))
		if err != nil {
			cfg.Log.Error("failed to fetch order by code", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	api.PATCH("/orders/:id", func(c *gin.Context) {
		var req validation.UpdateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid input data",
				"message": err.Error(),
			})
			return
		}
		if err := validation.Validate(v, &req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":  "Invalid input data",
				"fields": validation.ErrorsToMap(err),
			})
			return
		}

		order, err := cfg.Store.Update(c.Request.Context(), c.Param("id"), orders.OrderUpdate{
			Status:     req.Status,
			AdminNotes: req.AdminNotes,
		})
		if err != nil {
			cfg.Log.Error("order update failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update order"})
			return
		}
		if order == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, order)
	})

	api.DELETE("/orders/:id", func(c *gin.Context) {
		ok, err := cfg.Store.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			cfg.Log.Error("order delete failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete order"})
			return
		}
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
}

// internalError writes the generic failure payload for the intake route.
func internalError(c *gin.Context, details string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "Internal Server Error",
		"message": "An unexpected error occurred during order processing. Please check logs for details.",
		"details": details,
	})
}
