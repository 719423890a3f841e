// Package router wires repositories, services and handlers onto a gin engine.
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/handlers"
	"github.com/skillanthropy/skillanthropy-api/internal/middleware"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators of the API.
type Dependencies struct {
	DB     *gorm.DB
	Search search.Engine
	// AI is optional; task drafting answers 503 without it.
	AI                       *services.AIService
	EnforceVolunteerCapacity bool
}

type Handlers struct {
	Auth        *handlers.AuthHandler
	User        *handlers.UserHandler
	Charity     *handlers.CharityHandler
	Task        *handlers.TaskHandler
	Application *handlers.ApplicationHandler
	Dashboard   *handlers.DashboardHandler
	Search      *handlers.SearchHandler
}

// NewHandlers builds the repositories, services and handlers over deps.
func NewHandlers(deps Dependencies) *Handlers {
	engine := deps.Search
	if engine == nil {
		engine = search.Disabled{}
	}

	userRepo := repository.NewUserRepository(deps.DB)
	charityRepo := repository.NewCharityRepository(deps.DB)
	taskRepo := repository.NewTaskRepository(deps.DB)
	appRepo := repository.NewApplicationRepository(deps.DB)

	authService := services.NewAuthService(userRepo, engine)
	userService := services.NewUserService(userRepo, engine)
	charityService := services.NewCharityService(charityRepo, engine)
	taskService := services.NewTaskService(taskRepo, charityRepo, engine, deps.AI)
	appService := services.NewApplicationService(appRepo, taskRepo, charityRepo, deps.EnforceVolunteerCapacity)
	dashboardService := services.NewDashboardService(userRepo, taskRepo, appRepo, charityRepo)
	searchService := services.NewSearchService(engine, taskRepo, appRepo, charityRepo, userRepo)

	return &Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		User:        handlers.NewUserHandler(userService),
		Charity:     handlers.NewCharityHandler(charityService),
		Task:        handlers.NewTaskHandler(taskService, appService),
		Application: handlers.NewApplicationHandler(appService),
		Dashboard:   handlers.NewDashboardHandler(dashboardService),
		Search:      handlers.NewSearchHandler(searchService),
	}
}

// Register mounts the API routes. Session, CORS and logging middleware are
// expected to be installed on r already.
func Register(r *gin.Engine, h *Handlers) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Skillanthropy API is running",
		})
	})

	requireAuth := middleware.RequireAuth()
	charityAccess := middleware.RequireCharityAccess()
	charityAdmin := middleware.RequireCharityRole(models.RoleAdmin)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", h.Auth.Signup)
			auth.POST("/login", h.Auth.Login)
			auth.POST("/logout", h.Auth.Logout)
			auth.GET("/me", requireAuth, h.Auth.GetCurrentUser)
		}

		users := api.Group("/users")
		{
			users.GET("/:id", h.User.GetUser)
			users.PATCH("/me", requireAuth, h.User.UpdateProfile)
		}

		api.GET("/dashboard", requireAuth, h.Dashboard.GetDashboard)

		api.GET("/search", h.Search.Search)
		api.GET("/search/applications", requireAuth, h.Search.SearchMyApplications)

		// Charity task listings are public; everything else needs a session
		api.GET("/charities/:id/tasks", h.Task.ListCharityTasks)

		charities := api.Group("/charities")
		charities.Use(requireAuth)
		{
			charities.POST("", h.Charity.CreateCharity)
			charities.GET("", h.Charity.ListCharities)
			charities.POST("/join", h.Charity.JoinCharity)
			charities.GET("/:id", charityAccess, h.Charity.GetCharity)
			charities.PATCH("/:id", charityAccess, charityAdmin, h.Charity.UpdateCharity)
			charities.DELETE("/:id", charityAccess, charityAdmin, h.Charity.DeleteCharity)
			charities.POST("/:id/regenerate-code", charityAccess, charityAdmin, h.Charity.RegenerateInviteCode)
			charities.PUT("/:id/members/:user_id", charityAccess, charityAdmin, h.Charity.UpdateMemberRoles)
			charities.DELETE("/:id/members/:user_id", charityAccess, charityAdmin, h.Charity.RemoveMember)
			charities.POST("/:id/tasks", charityAccess, h.Task.CreateTask)
			charities.POST("/:id/tasks/draft", charityAccess, h.Task.DraftTasks)
		}

		tasks := api.Group("/tasks")
		{
			tasks.GET("", h.Task.ExploreTasks)
			tasks.GET("/:id", middleware.LoadTask(), h.Task.GetTask)
			tasks.PATCH("/:id", requireAuth, h.Task.UpdateTask)
			tasks.PUT("/:id/status", requireAuth, h.Task.SetTaskStatus)
			tasks.DELETE("/:id", requireAuth, h.Task.DeleteTask)
			tasks.POST("/:id/applications", requireAuth, h.Task.Apply)
			tasks.GET("/:id/applications", requireAuth, h.Task.ListTaskApplications)
		}

		apps := api.Group("/applications")
		apps.Use(requireAuth)
		{
			apps.GET("", h.Application.ListMyApplications)
			apps.GET("/:id", h.Application.GetApplication)
			apps.POST("/:id/accept", h.Application.AcceptApplication)
			apps.POST("/:id/reject", h.Application.RejectApplication)
			apps.POST("/:id/remove", h.Application.RemoveVolunteer)
			apps.POST("/:id/withdraw", h.Application.WithdrawApplication)
			apps.POST("/:id/undo", h.Application.UndoApplicationStatus)
			apps.DELETE("/:id", h.Application.DeleteApplication)
		}
	}
}
