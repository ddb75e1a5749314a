package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/splitledger/splitledger/internal/middleware"
	"github.com/splitledger/splitledger/internal/models"
	"github.com/splitledger/splitledger/internal/service"
)

// GroupHandler serves the group ledger and payment workflow endpoints.
type GroupHandler struct {
	groups *service.GroupService
}

// NewGroupHandler creates a new GroupHandler.
func NewGroupHandler(groups *service.GroupService) *GroupHandler {
	return &GroupHandler{groups: groups}
}

// Create handles POST /groups/create with form fields group_name, budget,
// and add_creator (optional, defaults true). The authenticated caller
// becomes the group admin.
func (h *GroupHandler) Create(c *gin.Context) {
	name := c.PostForm("group_name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "group_name is required"})
		return
	}

	budget, err := strconv.ParseFloat(c.PostForm("budget"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "budget must be a number"})
		return
	}

	addCreator := true
	if raw := c.PostForm("add_creator"); raw != "" {
		addCreator, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "add_creator must be a boolean"})
			return
		}
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), name, middleware.Username(c), budget, addCreator)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupExists):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Group already exists"})
		case errors.Is(err, service.ErrInvalidBudget):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create group"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":     fmt.Sprintf("Group '%s' created", name),
		"details": group,
	})
}

// AddUser handles POST /groups/add-user with form fields username and
// group_name. Adding an existing member is a no-op; either way the current
// split is returned.
func (h *GroupHandler) AddUser(c *gin.Context) {
	username := c.PostForm("username")
	groupName := c.PostForm("group_name")

	group, err := h.groups.AddMember(c.Request.Context(), groupName, username)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		case errors.Is(err, service.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":              fmt.Sprintf("User '%s' added", username),
		"split_per_member": group.SplitAmount,
	})
}

// Pay handles POST /groups/:name/pay with form field amount. The
// authenticated caller submits their own share.
func (h *GroupHandler) Pay(c *gin.Context) {
	groupName := c.Param("name")

	amount, err := strconv.ParseFloat(c.PostForm("amount"), 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "amount must be a number"})
		return
	}

	payment, err := h.groups.SubmitPayment(c.Request.Context(), groupName, middleware.Username(c), amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "Not part of this group"})
		case errors.Is(err, service.ErrExceedsShare):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Exceeds threshold amount"})
		case errors.Is(err, service.ErrInvalidAmount):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to submit payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":         "Payment submitted, pending approval",
		"your_status": payment,
	})
}

// Approve handles POST /groups/:name/approve with form fields username and
// action. Only the group admin may decide; action is a closed
// {approve, deny} enum and anything else is a validation error.
func (h *GroupHandler) Approve(c *gin.Context) {
	groupName := c.Param("name")
	target := c.PostForm("username")

	action, ok := models.ParseDecisionAction(c.PostForm("action"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": service.ErrInvalidAction.Error()})
		return
	}

	payment, err := h.groups.DecidePayment(c.Request.Context(), groupName, middleware.Username(c), target, action)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, service.ErrNotAdmin):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only admin can approve payments"})
		case errors.Is(err, service.ErrPaymentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "User not in this group"})
		case errors.Is(err, service.ErrShortPayment):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decide payment"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":     fmt.Sprintf("%s's payment %s", target, payment.Status),
		"details": payment,
	})
}

// Status handles GET /groups/:name/status, visible to current members only.
func (h *GroupHandler) Status(c *gin.Context) {
	groupName := c.Param("name")

	status, err := h.groups.GetStatus(c.Request.Context(), groupName, middleware.Username(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		case errors.Is(err, service.ErrNotMember):
			c.JSON(http.StatusForbidden, gin.H{"error": "You are not part of this group"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get status"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"group":   groupName,
		"details": status,
	})
}

// List handles GET /groups. No authentication, as a documented
// minimal-viable policy.
func (h *GroupHandler) List(c *gin.Context) {
	groups, err := h.groups.ListGroups(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list groups"})
		return
	}

	byName := make(map[string]*models.Group, len(groups))
	for _, group := range groups {
		byName[group.Name] = group
	}
	c.JSON(http.StatusOK, gin.H{"groups": byName})
}
