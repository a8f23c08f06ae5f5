package router

import (
	"activity-registration/internal/api/handlers"
	"activity-registration/internal/api/middleware"
	"activity-registration/internal/config"
	"activity-registration/internal/infrastructure/cache"
	"activity-registration/internal/infrastructure/database"
	"activity-registration/internal/infrastructure/queue"
	"activity-registration/internal/infrastructure/repository"
	interfaces "activity-registration/internal/interfaces/infrastructure"
	"activity-registration/internal/service"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// NewRouter wires repositories, cache, queue and services together and
// returns the HTTP engine plus the queue so the caller can manage workers.
func NewRouter(db *gorm.DB, cfg *config.Config) (*gin.Engine, interfaces.QueueService) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(middleware.Logger())
	r.Use(middleware.CORS())
	r.Use(gin.Recovery())

	redisCache := cache.NewRedisCacheWithConfig(&cfg.Cache)

	var queueService interfaces.QueueService
	if cfg.Queue.Type == "redis" {
		queueService = queue.NewRedisQueue(&cfg.Cache, cfg.Queue.Workers)
	} else {
		queueService = queue.NewInMemoryQueue(cfg.Queue.BufferSize, cfg.Queue.Workers)
	}

	txManager := database.NewGormTransactionManager(db)
	studentRepo := repository.NewStudentRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	waitlistRepo := repository.NewWaitlistRepository(db)
	conflictRepo := repository.NewConflictRepository(db)
	idempotencyRepo := repository.NewRedisIdempotencyRepository(redisCache.GetClient())

	enrollmentService := service.NewEnrollmentService(
		txManager,
		studentRepo,
		activityRepo,
		enrollmentRepo,
		waitlistRepo,
		conflictRepo,
		redisCache,
		queueService,
		idempotencyRepo,
		cfg.Enrollment.WaitlistMirrorEnabled,
	)
	studentService := service.NewStudentService(studentRepo)

	queueService.SetEnrollmentService(enrollmentService)

	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService)
	studentHandler := handlers.NewStudentHandler(studentService)
	healthHandler := handlers.NewHealthHandler(db, redisCache)

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Readiness)
	r.GET("/live", healthHandler.Liveness)

	v1 := r.Group("/api/v1")
	{
		enrollments := v1.Group("/enrollments")
		enrollments.Use(middleware.IdempotencyMiddleware())
		{
			enrollments.POST("", enrollmentHandler.Register)
			enrollments.POST("/:id/cancel", enrollmentHandler.Cancel)
			enrollments.PATCH("/:id/status", enrollmentHandler.UpdateStatus)
		}

		students := v1.Group("/students")
		{
			students.POST("", studentHandler.CreateStudent)
			students.GET("/:student_id", studentHandler.GetStudent)
			students.GET("/:student_id/enrollments", enrollmentHandler.GetStudentEnrollments)
			students.GET("/:student_id/waitlist", enrollmentHandler.GetStudentWaitlist)
			students.GET("/:student_id/waitlist/:activity_id", enrollmentHandler.GetWaitlistStanding)
			students.DELETE("/:student_id/waitlist/:activity_id", enrollmentHandler.LeaveWaitlist)
		}

		activities := v1.Group("/activities")
		{
			activities.GET("/open", enrollmentHandler.GetOpenActivities)
			activities.GET("/:activity_id", enrollmentHandler.GetActivity)
			activities.GET("/:activity_id/enrollments", enrollmentHandler.GetActivityRoster)
			activities.GET("/:activity_id/waitlist", enrollmentHandler.GetActivityWaitlist)
		}

		v1.GET("/conflicts", enrollmentHandler.GetRecentConflicts)
	}

	return r, queueService
}
