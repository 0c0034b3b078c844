package http

import (
	"net/http"

	"github.com/fitfusion/fitfusion-api/internal/application/account"
	"github.com/fitfusion/fitfusion-api/internal/application/exercise"
	"github.com/fitfusion/fitfusion-api/internal/application/nutrition"
	"github.com/fitfusion/fitfusion-api/internal/application/profile"
	"github.com/fitfusion/fitfusion-api/internal/application/workout"
	"github.com/fitfusion/fitfusion-api/internal/config"
	"github.com/fitfusion/fitfusion-api/internal/infrastructure/calorieninjas"
	"github.com/fitfusion/fitfusion-api/internal/infrastructure/dynamo"
	"github.com/fitfusion/fitfusion-api/internal/infrastructure/exercisedb"
	jwtinfra "github.com/fitfusion/fitfusion-api/internal/infrastructure/jwt"
	s3infra "github.com/fitfusion/fitfusion-api/internal/infrastructure/s3"
	"github.com/fitfusion/fitfusion-api/internal/infrastructure/smtp"
	"github.com/fitfusion/fitfusion-api/internal/transport/http/handler"
	appmiddleware "github.com/fitfusion/fitfusion-api/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo      *dynamo.UserRepo
	WorkoutRepo   *dynamo.WorkoutRepo
	S3Store       *s3infra.Store
	Mailer        smtp.Mailer
	JWTProvider   *jwtinfra.Provider
	ExerciseDB    *exercisedb.Client
	CalorieNinjas *calorieninjas.Client
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.JWTProvider != nil {
		authMw = appmiddleware.Auth(deps.JWTProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// 5 requests/second, burst of 10. Applied to the public account endpoints
	// that trigger email delivery or credential checks.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	accountSvc := account.NewService(account.ServiceDeps{
		UserRepo:       deps.UserRepo,
		Mailer:         deps.Mailer,
		JWTProvider:    deps.JWTProvider,
		ResendCooldown: cfg.OTPResendCooldown,
		ContactEmail:   cfg.ContactEmail,
	})
	profileSvc := profile.NewService(profile.ServiceDeps{
		UserRepo:    deps.UserRepo,
		ObjectStore: deps.S3Store,
	})
	workoutSvc := workout.NewService(deps.WorkoutRepo)
	exerciseSvc := exercise.NewService(deps.ExerciseDB, cfg.ExerciseCacheTTL)
	nutritionSvc := nutrition.NewService(deps.CalorieNinjas)

	healthH := handler.NewHealthHandler()
	userH := handler.NewUserHandler(accountSvc, profileSvc)
	workoutH := handler.NewWorkoutHandler(workoutSvc)
	exerciseH := handler.NewExerciseHandler(exerciseSvc)
	nutritionH := handler.NewNutritionHandler(nutritionSvc)

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/users/register", userH.Register)
		r.With(sensitiveRL.Limit).Post("/users/verify-otp", userH.VerifyOTP)
		r.With(sensitiveRL.Limit).Post("/users/resend-otp", userH.ResendOTP)
		r.With(sensitiveRL.Limit).Post("/users/login", userH.Login)
		r.With(sensitiveRL.Limit).Post("/users/contact", userH.Contact)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me", userH.Me)
			r.Put("/users/profile", userH.UpdateProfile)

			r.Post("/workouts", workoutH.Create)
			r.Get("/workouts", workoutH.List)
			r.Get("/workouts/{id}", workoutH.Get)
			r.Delete("/workouts/{id}", workoutH.Delete)

			r.Get("/exercises/bodyPartList", exerciseH.BodyPartList)
			r.Get("/exercises/equipmentList", exerciseH.EquipmentList)
			r.Get("/exercises/targetList", exerciseH.TargetList)
			r.Get("/exercises/search/{type}/{query}", exerciseH.Search)
			r.Get("/exercises/searchMultiple", exerciseH.SearchMultiple)

			r.Get("/nutrition", nutritionH.Lookup)
		})
	})

	return r
}
