package api

import (
	"coursell/backend/internal/domain"
	"coursell/backend/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler serves admin accounts and the /api/admin course management routes.
type AdminHandler struct {
	adminService  service.AdminService
	courseService service.CourseService
	log           *zap.Logger
}

func NewAdminHandler(adminService service.AdminService, courseService service.CourseService, log *zap.Logger) *AdminHandler {
	return &AdminHandler{adminService: adminService, courseService: courseService, log: log}
}

type AdminCredentialsRequest struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
}

// CourseRequest is the full course body used by create and full update.
type CourseRequest struct {
	Title       string          `json:"title" binding:"required,min=1"`
	Description string          `json:"description" binding:"required,min=1"`
	Price       float64         `json:"price" binding:"required,gt=0"`
	ImageLink   string          `json:"imageLink" binding:"required,url"`
	Published   *bool           `json:"published"`
	Category    domain.Category `json:"category" binding:"omitempty,oneof=programming design business marketing music other"`
	Level       domain.Level    `json:"level" binding:"omitempty,oneof=beginner intermediate advanced"`
	Content     *string         `json:"content"`
}

type UpdateCourseRequest struct {
	CourseID string `json:"courseId" binding:"required"`
	CourseRequest
}

type VideoRequest struct {
	Title       string `json:"title" binding:"required,min=1"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl" binding:"omitempty,url"`
	ObjectKey   string `json:"objectKey"`
	Duration    int    `json:"duration" binding:"gte=0"`
	Order       int    `json:"order" binding:"gte=0"`
}

type ReplaceVideosRequest struct {
	Videos []VideoRequest `json:"videos" binding:"required,dive"`
}

type UploadRequest struct {
	FileName    string `json:"fileName" binding:"required,max=255"`
	ContentType string `json:"contentType" binding:"required"`
}

func (r CourseRequest) input() service.CourseInput {
	in := service.CourseInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		ImageLink:   r.ImageLink,
		Published:   r.Published,
		Category:    r.Category,
		Level:       r.Level,
	}
	if r.Content != nil {
		in.Content = *r.Content
	}
	return in
}

// patch turns a full body into a patch; optional fields left out keep their value.
func (r CourseRequest) patch() service.CoursePatch {
	p := service.CoursePatch{
		Title:       &r.Title,
		Description: &r.Description,
		Price:       &r.Price,
		ImageLink:   &r.ImageLink,
		Published:   r.Published,
		Content:     r.Content,
	}
	if r.Category != "" {
		p.Category = &r.Category
	}
	if r.Level != "" {
		p.Level = &r.Level
	}
	return p
}

func (r VideoRequest) input() service.VideoInput {
	return service.VideoInput{
		Title:       r.Title,
		Description: r.Description,
		VideoURL:    r.VideoURL,
		ObjectKey:   r.ObjectKey,
		Duration:    r.Duration,
		Order:       r.Order,
	}
}

// Signup godoc
// @Summary Create an admin account
// @Tags Admin
// @Accept json
// @Produce json
// @Param admin body AdminCredentialsRequest true "Credentials"
// @Success 201 {object} gin.H "message, adminId"
// @Failure 409 {object} gin.H "Admin already exists"
// @Router /admin/signup [post]
func (h *AdminHandler) Signup(c *gin.Context) {
	var req AdminCredentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	admin, err := h.adminService.Signup(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Admin signup successful", "adminId": admin.ID.Hex()})
}

// Signin godoc
// @Summary Sign in an admin
// @Tags Admin
// @Accept json
// @Produce json
// @Param admin body AdminCredentialsRequest true "Credentials"
// @Success 200 {object} gin.H "message, token, adminId"
// @Failure 401 {object} gin.H "Invalid credentials"
// @Router /admin/signin [post]
func (h *AdminHandler) Signin(c *gin.Context) {
	var req AdminCredentialsRequest
	if !bindJSON(c, &req) {
		return
	}
	token, admin, err := h.adminService.Signin(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Admin signin successful", "token": token, "adminId": admin.ID.Hex()})
}

// CreateCourse godoc
// @Summary Create a course owned by the calling admin
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body CourseRequest true "Course"
// @Success 201 {object} gin.H "message, courseId"
// @Router /admin/course [post]
func (h *AdminHandler) CreateCourse(c *gin.Context) {
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
	c.JSON(http.StatusCreated, gin.H{"message": "Course created", "courseId": course.ID.Hex()})
}

// UpdateCourse godoc
// @Summary Replace the editable fields of an owned course
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param course body UpdateCourseRequest true "Course with courseId"
// @Success 200 {object} gin.H "message, course"
// @Failure 404 {object} gin.H "Course not found or unauthorized"
// @Router /admin/course [put]
func (h *AdminHandler) UpdateCourse(c *gin.Context) {
	var req UpdateCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	courseID, ok := parseObjectID(c, req.CourseID, "courseId")
	if !ok {
		return
	}
	adminID, _ := principalID(c)

	course, err := h.courseService.Update(c.Request.Context(), adminID, courseID, req.CourseRequest.patch())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course updated", "course": MapCourseToResponse(course, true)})
}

// DeleteCourse godoc
// @Summary Delete an owned course
// @Tags Admin
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} gin.H "message"
// @Router /admin/course/{courseId} [delete]
func (h *AdminHandler) DeleteCourse(c *gin.Context) {
	courseID, ok := pathObjectID(c, "courseId")
	if !ok {
		return
	}
	adminID, _ := principalID(c)

	if err := h.courseService.Delete(c.Request.Context(), adminID, courseID); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Course deleted"})
}

// ListCourses godoc
// @Summary Courses created by the calling admin, with videos
// @Tags Admin
// @Security BearerAuth
// @Success 200 {object} gin.H "message, courses"
// @Router /admin/courses [get]
func (h *AdminHandler) ListCourses(c *gin.Context) {
	adminID, _ := principalID(c)
	courses, err := h.courseService.ListByCreator(c.Request.Context(), adminID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Your courses", "courses": mapCourses(courses, true)})
}

// BulkCourses godoc
// @Summary Every course with its creator (public)
// @Tags Admin
// @Success 200 {object} gin.H "message, courses"
// @Router /admin/course/bulk [get]
func (h *AdminHandler) BulkCourses(c *gin.Context) {
	courses, err := h.courseService.ListAllWithCreators(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Courses fetched successfully", "courses": mapCoursesWithCreators(courses)})
}

// ReplaceVideos godoc
// @Summary Replace the whole video list of an owned course
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param videos body ReplaceVideosRequest true "Videos"
// @Success 200 {object} gin.H "message, course"
// @Router /admin/course/{courseId}/videos [post]
func (h *AdminHandler) ReplaceVideos(c *gin.Context) {
	courseID, ok := pathObjectID(c, "courseId")
	if !ok {
		return
	}
	var req ReplaceVideosRequest
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := principalID(c)

	inputs := make([]service.VideoInput, len(req.Videos))
	for i, v := range req.Videos {
		inputs[i] = v.input()
	}
	course, err := h.courseService.ReplaceVideos(c.Request.Context(), adminID, courseID, inputs)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Videos added successfully", "course": MapCourseToResponse(course, true)})
}

// GetCourseVideos godoc
// @Summary An owned course including its videos
// @Tags Admin
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Success 200 {object} gin.H "course"
// @Router /admin/course/{courseId}/videos [get]
func (h *AdminHandler) GetCourseVideos(c *gin.Context) {
	courseID, ok := pathObjectID(c, "courseId")
	if !ok {
		return
	}
	adminID, _ := principalID(c)

	course, err := h.courseService.GetOwned(c.Request.Context(), adminID, courseID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": MapCourseToResponse(course, true)})
}

// CreateUpload godoc
// @Summary Presigned upload URL for course media
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param courseId path string true "Course ID"
// @Param upload body UploadRequest true "File details"
// @Success 201 {object} gin.H "uploadId, uploadUrl, objectKey, expiresAt"
// @Failure 503 {object} gin.H "Media storage not configured"
// @Router /admin/course/{courseId}/uploads [post]
func (h *AdminHandler) CreateUpload(c *gin.Context) {
	courseID, ok := pathObjectID(c, "courseId")
	if !ok {
		return
	}
	var req UploadRequest
	if !bindJSON(c, &req) {
		return
	}
	adminID, _ := principalID(c)

	ticket, err := h.courseService.CreateUpload(c.Request.Context(), adminID, courseID, req.FileName, req.ContentType)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"uploadId":  ticket.UploadID.Hex(),
		"uploadUrl": ticket.UploadURL,
		"objectKey": ticket.ObjectKey,
		"expiresAt": ticket.ExpiresAt,
	})
}
