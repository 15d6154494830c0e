package api

import (
	"coursell/backend/internal/metrics"
	"coursell/backend/internal/ratelimit"
	"coursell/backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// MaxBodyBytes caps every request body.
const MaxBodyBytes = 10 << 20

// Deps carries everything the router needs.
type Deps struct {
	Environment    string
	AllowedOrigins []string
	TrustedProxies []string
	Log            *zap.Logger
	Limiter        ratelimit.Limiter

	Tokens          service.TokenService
	AuthService     service.AuthService
	AdminService    service.AdminService
	CourseService   service.CourseService
	PurchaseService service.PurchaseService
}

// NewRouter builds the gin engine with middleware and every route mounted.
func NewRouter(d Deps) *gin.Engine {
	setupValidator()

	router := gin.New()
	// X-Forwarded-For is only read from these peers; the rate limiter keys on
	// the resulting client address.
	if err := router.SetTrustedProxies(d.TrustedProxies); err != nil {
		d.Log.Warn("invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", d.TrustedProxies), zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(
		Recovery(d.Log),
		RequestID(),
		RequestLogger(d.Log),
		SecurityHeaders(),
		cors.New(cors.Config{
			AllowOrigins:     d.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Content-Type", "Authorization"},
			ExposeHeaders:    []string{RequestIDHeader, "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset"},
			AllowCredentials: true,
		}),
		BodyLimit(MaxBodyBytes),
		metrics.Middleware(),
	)
	if d.Limiter != nil {
		router.Use(ratelimit.Middleware(d.Limiter, d.Log))
	}

	systemHandler := NewSystemHandler(d.Environment)
	router.GET("/", systemHandler.Banner)
	router.GET("/health", systemHandler.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	userHandler := NewUserHandler(d.AuthService, d.PurchaseService, d.Log)
	adminHandler := NewAdminHandler(d.AdminService, d.CourseService, d.Log)
	courseHandler := NewCourseHandler(d.CourseService, d.PurchaseService, d.Log)
	purchaseHandler := NewPurchaseHandler(d.PurchaseService, d.Log)

	userAuth := UserAuth(d.Tokens)
	adminAuth := AdminAuth(d.Tokens)

	apiGroup := router.Group("/api")

	userGroup := apiGroup.Group("/user")
	{
		userGroup.POST("/signup", userHandler.Signup)
		userGroup.POST("/register", userHandler.Register)
		userGroup.POST("/signin", userHandler.Signin)
		userGroup.GET("/profile", userAuth, userHandler.GetProfile)
		userGroup.PUT("/profile", userAuth, userHandler.UpdateProfile)
		userGroup.GET("/purchases", userAuth, userHandler.GetPurchasedCourses)
	}

	adminGroup := apiGroup.Group("/admin")
	{
		adminGroup.POST("/signup", adminHandler.Signup)
		adminGroup.POST("/signin", adminHandler.Signin)
		adminGroup.GET("/course/bulk", adminHandler.BulkCourses)

		protected := adminGroup.Group("")
		protected.Use(adminAuth)
		protected.POST("/course", adminHandler.CreateCourse)
		protected.PUT("/course", adminHandler.UpdateCourse)
		protected.DELETE("/course/:courseId", adminHandler.DeleteCourse)
		protected.GET("/courses", adminHandler.ListCourses)
		protected.POST("/course/:courseId/videos", adminHandler.ReplaceVideos)
		protected.GET("/course/:courseId/videos", adminHandler.GetCourseVideos)
		protected.POST("/course/:courseId/uploads", adminHandler.CreateUpload)
	}

	// Path params share one name per position, so the course id is :id here.
	courseGroup := apiGroup.Group("/courses")
	{
		courseGroup.GET("", courseHandler.ListCourses)
		courseGroup.GET("/preview", courseHandler.Preview)
		courseGroup.GET("/:id", OptionalAuth(d.Tokens), courseHandler.GetCourse)
		courseGroup.GET("/:id/content", userAuth, courseHandler.GetContent)
		courseGroup.GET("/:id/purchase", userAuth, courseHandler.PurchaseStatus)
		courseGroup.POST("/:id/reviews", userAuth, courseHandler.AddReview)

		courseGroup.POST("", adminAuth, courseHandler.CreateCourse)
		courseGroup.PUT("/:id", adminAuth, courseHandler.PatchCourse)
		courseGroup.DELETE("/:id", adminAuth, courseHandler.DeleteCourse)
		courseGroup.POST("/:id/videos", adminAuth, courseHandler.AddVideo)
		courseGroup.PUT("/:id/videos/:videoId", adminAuth, courseHandler.UpdateVideo)
		courseGroup.DELETE("/:id/videos/:videoId", adminAuth, courseHandler.DeleteVideo)
	}

	purchaseGroup := apiGroup.Group("/purchase")
	purchaseGroup.Use(userAuth)
	{
		purchaseGroup.POST("/course/:courseId", purchaseHandler.Purchase)
		purchaseGroup.GET("/course/:courseId/access", purchaseHandler.Access)
		purchaseGroup.GET("/my-courses", purchaseHandler.MyCourses)
	}

	return router
}
