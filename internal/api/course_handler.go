package api

import (
	"coursell/backend/internal/domain"
	"coursell/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CourseHandler serves the /api/courses catalog and its admin-gated mutations.
type CourseHandler struct {
	courseService   service.CourseService
	purchaseService service.PurchaseService
	log             *zap.Logger
}

func NewCourseHandler(courseService service.CourseService, purchaseService service.PurchaseService, log *zap.Logger) *CourseHandler {
	return &CourseHandler{courseService: courseService, purchaseService: purchaseService, log: log}
}

// PatchCourseRequest fields are optional; omitted fields stay unchanged.
type PatchCourseRequest struct {
	Title       *string          `json:"title" binding:"omitempty,min=1"`
	Description *string          `json:"description" binding:"omitempty,min=1"`
	Price       *float64         `json:"price" binding:"omitempty,gt=0"`
	ImageLink   *string          `json:"imageLink" binding:"omitempty,url"`
	Published   *bool            `json:"published"`
	Category    *domain.Category `json:"category" binding:"omitempty,oneof=programming design business marketing music other"`
	Level       *domain.Level    `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Content     *string          `json:"content"`
}

type PatchVideoRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1"`
	Description *string `json:"description"`
	VideoURL    *string `json:"videoUrl" binding:"omitempty,url"`
	ObjectKey   *string `json:"objectKey"`
	Duration    *int    `json:"duration" binding:"omitempty,gte=0"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=2000"`
}

// ListCourses godoc
// @Summary Published courses without videos
// @Tags Courses
// @Produce json
// @Success 200 {array} CourseResponse
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.courseService.ListPublished(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, mapCourses(courses, false))
}

// Preview godoc
// @Summary Compact listing of published courses
// @Tags Courses
// @Produce json
// @Success 200 {object} gin.H "message, courses"
// @Router /courses/preview [get]
func (h *CourseHandler) Preview(c *gin.Context) {
	courses, err := h.courseService.Preview(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	out := make([]CoursePreviewResponse, len(courses))
	for i, course := range courses {
		out[i] = CoursePreviewResponse{
			ID:          course.ID.Hex(),
			Title:       course.Title,
			Description: course.Description,
			Price:       course.Price,
			ImageLink:   course.ImageLink,
			Published:   course.Published,
			Creator:     course.Creator,
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "Available courses", "courses": out})
}

// GetCourse godoc
// @Summary A course; videos only for purchasers and its creator
// @Tags Courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} gin.H "course, hasAccess"
// @Failure 400 {object} gin.H "Invalid course ID"
// @Failure 404 {object} gin.H "Course not found"
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}

	course, hasAccess, err := h.courseService.GetForViewer(c.Request.Context(), courseID, viewerFrom(c))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": MapCourseToResponse(course, hasAccess), "hasAccess": hasAccess})
}

// GetContent godoc
// @Summary Gated course content for purchasers
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} gin.H "message, content, videos"
// @Failure 403 {object} gin.H "Purchase required"
// @Router /courses/{id}/content [get]
func (h *CourseHandler) GetContent(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	userID, _ := principalID(c)

	content, videos, err := h.courseService.GetContent(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course content", "content": content, "videos": mapVideos(videos)})
}

// PurchaseStatus godoc
// @Summary Whether the user bought the course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} gin.H "message, purchased"
// @Router /courses/{id}/purchase [get]
func (h *CourseHandler) PurchaseStatus(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	userID, _ := principalID(c)

	purchase, err := h.purchaseService.Access(c.Request.Context(), userID, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	message := "Course not purchased"
	if purchase != nil {
		message = "Course purchased"
	}
	c.JSON(http.StatusOK, gin.H{"message": message, "purchased": purchase != nil})
}

// AddReview godoc
// @Summary Rate a purchased course
// @Tags Courses
// @Accept json
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param review body ReviewRequest true "Review"
// @Success 200 {object} gin.H "message, rating, reviews"
// @Failure 403 {object} gin.H "Purchase required"
// @Router /courses/{id}/reviews [post]
func (h *CourseHandler) AddReview(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	var req ReviewRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, _ := principalID(c)

	course, err := h.courseService.AddReview(c.Request.Context(), userID, courseID, req.Rating, req.Comment)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	resp := MapCourseToResponse(course, false)
	c.JSON(http.StatusOK, gin.H{"message": "Review saved", "rating": resp.Rating, "reviews": resp.Reviews})
}

// === Admin-gated catalog mutations ===

// CreateCourse godoc
// @Summary Create a course (returns the course)
// @Tags Courses
// @Security BearerAuth
// @Param course body CourseRequest true "Course"
// @Success 201 {object} CourseResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c *gin.Context) {
	var req CourseRequest
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := principalID(c)

	course, err := h.courseService.Create(c.Request.Context(), adminID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapCourseToResponse(course, true))
}

// PatchCourse godoc
// @Summary Change the supplied fields of an owned course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param course body PatchCourseRequest true "Fields to change"
// @Success 200 {object} CourseResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) PatchCourse(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	var req PatchCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := principalID(c)

	course, err := h.courseService.Update(c.Request.Context(), adminID, courseID, service.CoursePatch{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageLink:   req.ImageLink,
		Published:   req.Published,
		Category:    req.Category,
		Level:       req.Level,
		Content:     req.Content,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapCourseToResponse(course, true))
}

// DeleteCourse godoc
// @Summary Delete an owned course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Success 200 {object} gin.H "message"
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	adminID, _ := principalID(c)

	if err := h.courseService.Delete(c.Request.Context(), adminID, courseID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted successfully"})
}

// AddVideo godoc
// @Summary Append a video to an owned course
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param video body VideoRequest true "Video"
// @Success 201 {object} CourseResponse
// @Router /courses/{id}/videos [post]
func (h *CourseHandler) AddVideo(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	var req VideoRequest
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := principalID(c)

	course, err := h.courseService.AddVideo(c.Request.Context(), adminID, courseID, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, MapCourseToResponse(course, true))
}

// UpdateVideo godoc
// @Summary Change the supplied fields of a video
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param videoId path string true "Video ID"
// @Param video body PatchVideoRequest true "Fields to change"
// @Success 200 {object} CourseResponse
// @Failure 404 {object} gin.H "Video not found"
// @Router /courses/{id}/videos/{videoId} [put]
func (h *CourseHandler) UpdateVideo(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	videoID, ok := parseObjectID(c, c.Param("videoId"), "video ID")
	if !ok {
		return
	}
	var req PatchVideoRequest
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := principalID(c)

	course, err := h.courseService.UpdateVideo(c.Request.Context(), adminID, courseID, videoID, service.VideoPatch{
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
		ObjectKey:   req.ObjectKey,
		Duration:    req.Duration,
	})
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapCourseToResponse(course, true))
}

// DeleteVideo godoc
// @Summary Remove a video; the rest are renumbered
// @Tags Courses
// @Security BearerAuth
// @Param id path string true "Course ID"
// @Param videoId path string true "Video ID"
// @Success 200 {object} gin.H "message"
// @Router /courses/{id}/videos/{videoId} [delete]
func (h *CourseHandler) DeleteVideo(c *gin.Context) {
	courseID, ok := parseObjectID(c, c.Param("id"), "course ID")
	if !ok {
		return
	}
	videoID, ok := parseObjectID(c, c.Param("videoId"), "video ID")
	if !ok {
		return
	}
	adminID, _ := principalID(c)

	if err := h.courseService.DeleteVideo(c.Request.Context(), adminID, courseID, videoID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Video deleted successfully"})
}
