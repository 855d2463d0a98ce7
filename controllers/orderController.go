package controllers

import (
	"net/http"
	"strconv"

	"github.com/Kariqs/satshop-api/initializers"
	"github.com/Kariqs/satshop-api/services"
	"github.com/gin-gonic/gin"
)

func CreateOrder(ctx *gin.Context) {
	var input services.CreateOrderInput
	if !bindJSON(ctx, &input) {
		return
	}
	if input.UserID == "" || !isAdmin(ctx) {
		input.UserID = currentUserID(ctx)
	}

	order, err := initializers.Services.Orders.CreateOrder(ctx.Request.Context(), input)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusCreated, order)
}

func GetUserOrders(ctx *gin.Context) {
	orders, err := initializers.Services.Orders.GetUserOrders(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, orders)
}

// GetOrder lets a customer read their own order; admins read any.
func GetOrder(ctx *gin.Context) {
	order, err := initializers.Services.Orders.GetOrder(ctx.Request.Context(), ctx.Param("orderId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	if !isAdmin(ctx) && order.UserID != currentUserID(ctx) {
		sendErrorResponse(ctx, http.StatusForbidden, "Access denied")
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func UpdateOrderStatus(ctx *gin.Context) {
	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if !bindJSON(ctx, &body) {
		return
	}

	order, err := initializers.Services.Orders.UpdateStatus(ctx.Request.Context(), ctx.Param("orderId"), body.Status)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

func MarkOrderDelivered(ctx *gin.Context) {
	order, err := initializers.Services.Orders.MarkDelivered(ctx.Request.Context(), ctx.Param("orderId"))
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, order)
}

// ListOrders is the admin order list: ?status=&delivered=&page=&limit=.
func ListOrders(ctx *gin.Context) {
	filter, ok := orderFilter(ctx)
	if !ok {
		return
	}

	page, err := initializers.Services.Orders.ListOrders(ctx.Request.Context(), filter)
	if err != nil {
		sendServiceError(ctx, err)
		return
	}
	sendJSONResponse(ctx, http.StatusOK, page)
}

func orderFilter(ctx *gin.Context) (services.OrderFilter, bool) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "15"))
	filter := services.OrderFilter{Status: ctx.Query("status"), Page: page, Limit: limit}

	if raw := ctx.Query("delivered"); raw != "" {
		delivered, err := strconv.ParseBool(raw)
		if err != nil {
			sendErrorResponse(ctx, http.StatusBadRequest, "Invalid delivered filter")
			return filter, false
		}
		filter.Delivered = &delivered
	}
	return filter, true
}
