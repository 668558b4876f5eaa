package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailops/order-workflow/internal/invoice"
	"github.com/retailops/order-workflow/internal/orders"
	"github.com/retailops/order-workflow/internal/policy"
	"github.com/retailops/order-workflow/internal/validation"
	"github.com/retailops/order-workflow/internal/workflow"
)

// HandlerConfig groups dependencies for the workflow routes.
type HandlerConfig struct {
	Service *workflow.Service
}

// RegisterWorkflowRoutes registers the buyer- and staff-facing API.
func RegisterWorkflowRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()
	svc := cfg.Service

	r.POST("/orders", func(c *gin.Context) {
		var req validation.CreateOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		items := make([]orders.LineItem, 0, len(req.Items))
		for _, it := range req.Items {
			items = append(items, orders.LineItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
			})
		}

		o, err := svc.CreateOrder(c.Request.Context(), workflow.NewOrderInput{
			Items:         items,
			Total:         req.Total,
			ShippingCost:  req.ShippingCost,
			InsuranceCost: req.InsuranceCost,
			PaymentStatus: orders.PaymentStatus(req.PaymentStatus),
			CorrelationID: c.GetHeader("X-Request-Id"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Location", "/orders/"+o.ID)
		c.JSON(http.StatusCreated, o)
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.GET("/orders/:id/eligibility", func(c *gin.Context) {
		el, err := svc.CheckEligibility(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, el)
	})

	r.GET("/orders/:id/invoice", func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, invoice.Build(o, time.Now().UTC()))
	})

	r.GET("/orders/:id/modifications", func(c *gin.Context) {
		o, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		pending, resolved := orders.PartitionRequests(o.Modifications)
		switch c.Query("status") {
		case "pending":
			c.JSON(http.StatusOK, gin.H{"pending": pending})
		case "resolved":
			c.JSON(http.StatusOK, gin.H{"resolved": resolved})
		default:
			c.JSON(http.StatusOK, gin.H{"pending": pending, "resolved": resolved})
		}
	})

	r.POST("/orders/:id/modifications", func(c *gin.Context) {
		var req validation.CreateModificationRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := svc.CreateModificationRequest(c.Request.Context(), c.Param("id"), req.RequestedBy, req.Description)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, o)
	})

	r.POST("/orders/:id/modifications/:requestID/resolve", func(c *gin.Context) {
		var req validation.ResolveModificationRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := svc.ResolveModificationRequest(c.Request.Context(),
			c.Param("id"), c.Param("requestID"), req.Decision, req.ResponseText, req.RespondedBy)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.POST("/orders/:id/cancel", func(c *gin.Context) {
		var req validation.CancelOrderRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := svc.CancelOrder(c.Request.Context(), c.Param("id"), req.Reason)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.POST("/orders/:id/status", func(c *gin.Context) {
		var req validation.TransitionStatusRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := svc.TransitionStatus(c.Request.Context(), c.Param("id"), orders.Status(req.Status))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.PUT("/orders/:id/max-modifications", func(c *gin.Context) {
		var req validation.SetMaxModificationsRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		o, err := svc.SetMaxModifications(c.Request.Context(), c.Param("id"), *req.MaxModificationsAllowed)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, o)
	})

	r.GET("/policy", func(c *gin.Context) {
		cfg, err := svc.GetPolicy(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, cfg)
	})

	r.PUT("/policy", func(c *gin.Context) {
		var req validation.UpdatePolicyRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}
		updated, err := svc.UpdatePolicy(c.Request.Context(), policy.Config{
			DefaultMaxModifications:      *req.DefaultMaxModifications,
			ModificationDeadlineHours:    *req.ModificationDeadlineHours,
			AllowCancellations:           *req.AllowCancellations,
			RequireReasonForCancellation: *req.RequireReasonForCancellation,
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, updated)
	})
}

// writeError maps the workflow error taxonomy onto HTTP statuses. Every
// rejection names the rule that failed so the caller knows what to fix.
func writeError(c *gin.Context, err error) {
	var ne *policy.NotEligibleError
	switch {
	case errors.Is(err, workflow.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "msg": err.Error()})
	case errors.Is(err, workflow.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "order_not_found", "msg": err.Error()})
	case errors.Is(err, orders.ErrRequestNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "request_not_found", "msg": err.Error()})
	case errors.As(err, &ne):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "not_eligible", "reason": string(ne.Reason), "msg": ne.Error()})
	case errors.Is(err, orders.ErrAlreadyResolved):
		c.JSON(http.StatusConflict, gin.H{"error": "already_resolved", "msg": err.Error()})
	case errors.Is(err, orders.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": "invalid_transition", "msg": err.Error()})
	case errors.Is(err, orders.ErrCancellationNotAllowed):
		c.JSON(http.StatusConflict, gin.H{"error": "cancellation_not_allowed", "msg": err.Error()})
	case errors.Is(err, orders.ErrOrderCancelled):
		c.JSON(http.StatusConflict, gin.H{"error": "order_cancelled", "msg": err.Error()})
	case errors.Is(err, workflow.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflict", "msg": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error", "msg": err.Error()})
	}
}
