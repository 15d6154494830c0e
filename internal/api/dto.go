package api

import (
	"coursell/backend/internal/domain"
	"coursell/backend/internal/service"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserResponse excludes sensitive info like password hash
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type VideoResponse struct {
	ID          string `json:"_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	VideoURL    string `json:"videoUrl"`
	ObjectKey   string `json:"objectKey,omitempty"`
	Duration    int    `json:"duration"`
	Order       int    `json:"order"`
}

type ReviewResponse struct {
	UserID    string    `json:"userId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// CourseResponse is the wire shape of a course. Videos is nil (and omitted)
// when the caller may not see them; an empty list is sent as [].
type CourseResponse struct {
	ID               string           `json:"id"`
	UnderscoreID     string           `json:"_id"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	Price            float64          `json:"price"`
	Category         domain.Category  `json:"category"`
	Level            domain.Level     `json:"level"`
	ImageLink        string           `json:"imageLink"`
	Content          string           `json:"content,omitempty"`
	Videos           *[]VideoResponse `json:"videos,omitempty"`
	CreatorID        string           `json:"creatorId"`
	Creator          string           `json:"creator,omitempty"`
	Published        bool             `json:"published"`
	EnrolledStudents []string         `json:"enrolledStudents"`
	Rating           float64          `json:"rating"`
	Reviews          []ReviewResponse `json:"reviews,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

type CoursePreviewResponse struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageLink   string  `json:"imageLink"`
	Published   bool    `json:"published"`
	Creator     string  `json:"creator"`
}

type PurchaseResponse struct {
	ID            string               `json:"id"`
	UserID        string               `json:"userId"`
	CourseID      string               `json:"courseId"`
	Amount        float64              `json:"amount"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PurchaseDate  time.Time            `json:"purchaseDate"`
}

type PurchasedCourseResponse struct {
	ID            string               `json:"id"`
	Amount        float64              `json:"amount"`
	PaymentStatus domain.PaymentStatus `json:"paymentStatus"`
	PurchaseDate  time.Time            `json:"purchaseDate"`
	Course        *CourseResponse      `json:"course"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		ID:        user.ID.Hex(),
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      user.FullName(),
		Role:      string(domain.PrincipalUser),
		CreatedAt: user.CreatedAt,
	}
}

func hexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Hex()
	}
	return out
}

func mapVideos(videos []domain.Video) []VideoResponse {
	out := make([]VideoResponse, len(videos))
	for i, v := range videos {
		out[i] = VideoResponse{
			ID:          v.ID.Hex(),
			Title:       v.Title,
			Description: v.Description,
			VideoURL:    v.VideoURL,
			ObjectKey:   v.ObjectKey,
			Duration:    v.Duration,
			Order:       v.Order,
		}
	}
	return out
}

// MapCourseToResponse converts a course. withVideos decides whether the
// videos key is present at all.
func MapCourseToResponse(course *domain.Course, withVideos bool) CourseResponse {
	resp := CourseResponse{
		ID:               course.ID.Hex(),
		UnderscoreID:     course.ID.Hex(),
		Title:            course.Title,
		Description:      course.Description,
		Price:            course.Price,
		Category:         course.Category,
		Level:            course.Level,
		ImageLink:        course.ImageLink,
		Content:          course.Content,
		CreatorID:        course.CreatorID.Hex(),
		Published:        course.Published,
		EnrolledStudents: hexIDs(course.EnrolledStudents),
		Rating:           course.Rating,
		CreatedAt:        course.CreatedAt,
		UpdatedAt:        course.UpdatedAt,
	}
	if withVideos {
		videos := mapVideos(course.Videos)
		resp.Videos = &videos
	}
	for _, r := range course.Reviews {
		resp.Reviews = append(resp.Reviews, ReviewResponse{
			UserID:    r.UserID.Hex(),
			Rating:    r.Rating,
			Comment:   r.Comment,
			CreatedAt: r.CreatedAt,
		})
	}
	return resp
}

func mapCourses(courses []domain.Course, withVideos bool) []CourseResponse {
	out := make([]CourseResponse, len(courses))
	for i := range courses {
		out[i] = MapCourseToResponse(&courses[i], withVideos)
	}
	return out
}

func mapCoursesWithCreators(courses []service.CourseWithCreator) []CourseResponse {
	out := make([]CourseResponse, len(courses))
	for i := range courses {
		out[i] = MapCourseToResponse(&courses[i].Course, false)
		out[i].Creator = courses[i].Creator
	}
	return out
}

func MapPurchaseToResponse(p *domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:            p.ID.Hex(),
		UserID:        p.UserID.Hex(),
		CourseID:      p.CourseID.Hex(),
		Amount:        p.Amount,
		PaymentStatus: p.PaymentStatus,
		PurchaseDate:  p.PurchaseDate,
	}
}
