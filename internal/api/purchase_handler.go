package api

import (
	"coursell/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type PurchaseHandler struct {
	purchaseService service.PurchaseService
	log             *zap.Logger
}

func NewPurchaseHandler(purchaseService service.PurchaseService, log *zap.Logger) *PurchaseHandler {
	return &PurchaseHandler{purchaseService: purchaseService, log: log}
}

// Purchase godoc
// @Summary Buy a published course (simulated payment)
// @Tags Purchase
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} gin.H "message, purchaseId"
// @Failure 404 {object} gin.H "Course not found"
// @Failure 409 {object} gin.H "Course already purchased"
// @Router /purchase/course/{courseId} [post]
func (h *PurchaseHandler) Purchase(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("courseId"), "course ID")
	if !ok {
		return
	}
	userID, _ := principalID(c)

	purchase, err := h.purchaseService.Purchase(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course purchased successfully!", "purchaseId": purchase.ID.Hex()})
}

// MyCourses godoc
// @Summary The user's purchases with their courses, newest first
// @Tags Purchase
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "purchases"
// @Router /purchase/my-courses [get]
func (h *PurchaseHandler) MyCourses(c *gin.Context) {
	userID, _ := principalID(c)
	items, err := h.purchaseService.MyCourses(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}

	out := make([]PurchasedCourseResponse, len(items))
	for i, item := range items {
		out[i] = PurchasedCourseResponse{
			ID:            item.Purchase.ID.Hex(),
			Amount:        item.Purchase.Amount,
			PaymentStatus: item.Purchase.PaymentStatus,
			PurchaseDate:  item.Purchase.PurchaseDate,
		}
		if item.Course != nil {
			course := MapCourseToResponse(item.Course, false)
			out[i].Course = &course
		}
	}
	c.JSON(http.StatusOK, gin.H{"purchases": out})
}

// Access godoc
// @Summary Whether the user owns the course
// @Tags Purchase
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} gin.H "hasAccess, purchase"
// @Router /purchase/course/{courseId}/access [get]
func (h *PurchaseHandler) Access(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("courseId"), "course ID")
	if !ok {
		return
	}
	userID, _ := principalID(c)

	purchase, err := h.purchaseService.Access(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	if purchase == nil {
		c.JSON(http.StatusOK, gin.H{"hasAccess": false, "purchase": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"hasAccess": true, "purchase": MapPurchaseToResponse(purchase)})
}
