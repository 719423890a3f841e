package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/skillanthropy/skillanthropy-api/internal/constants"
	"github.com/skillanthropy/skillanthropy-api/internal/database"
	apierrors "github.com/skillanthropy/skillanthropy-api/internal/errors"
	"github.com/skillanthropy/skillanthropy-api/internal/models"
	"github.com/skillanthropy/skillanthropy-api/internal/repository"
	"github.com/skillanthropy/skillanthropy-api/internal/search"
	"github.com/skillanthropy/skillanthropy-api/internal/services"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerTestEnv struct {
	db  *gorm.DB
	ctx context.Context

	charityService *services.CharityService
	taskService    *services.TaskService
	appService     *services.ApplicationService
	authService    *services.AuthService

	charities    *CharityHandler
	tasks        *TaskHandler
	applications *ApplicationHandler
	dashboards   *DashboardHandler
	searches     *SearchHandler
	users        *UserHandler

	owner   *models.User
	techie  *models.User
	charity *models.Charity
}

func setupHandlerTestEnv(t *testing.T) *handlerTestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.MigrateDatabase(db))
	database.SetDB(db)

	engine := search.Disabled{}
	userRepo := repository.NewUserRepository(db)
	charityRepo := repository.NewCharityRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	appRepo := repository.NewApplicationRepository(db)

	env := &handlerTestEnv{
		db:             db,
		ctx:            context.Background(),
		authService:    services.NewAuthService(userRepo, engine),
		charityService: services.NewCharityService(charityRepo, engine),
		taskService:    services.NewTaskService(taskRepo, charityRepo, engine, nil),
		appService:     services.NewApplicationService(appRepo, taskRepo, charityRepo, true),
	}
	env.charities = NewCharityHandler(env.charityService)
	env.tasks = NewTaskHandler(env.taskService, env.appService)
	env.applications = NewApplicationHandler(env.appService)
	env.dashboards = NewDashboardHandler(services.NewDashboardService(userRepo, taskRepo, appRepo, charityRepo))
	env.searches = NewSearchHandler(services.NewSearchService(engine, taskRepo, appRepo, charityRepo, userRepo))
	env.users = NewUserHandler(services.NewUserService(userRepo, engine))

	env.owner = env.signup(t, "Olive Owner", "owner@example.org", models.AccountCharity)
	env.techie = env.signup(t, "Tess Techie", "tess@example.org", models.AccountVolunteer, "go", "sql")
	env.charity, err = env.charityService.CreateCharity(env.ctx, services.CreateCharityInput{
		Name:    "Food Bank",
		OwnerID: env.owner.ID,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB.Close()
	})

	return env
}

func (env *handlerTestEnv) signup(t *testing.T, name, email string, role models.AccountRole, skills ...string) *models.User {
	user, err := env.authService.Signup(env.ctx, services.SignupInput{
		Name:     name,
		Email:    email,
		Password: "correct-horse",
		Role:     role,
		Skills:   skills,
	})
	require.NoError(t, err)
	return user
}

// openTask creates a complete NOT_STARTED task owned by the test charity.
func (env *handlerTestEnv) openTask(t *testing.T, title string, volunteersNeeded int, skills ...string) *models.Task {
	deadline := time.Now().Add(72 * time.Hour)
	task, err := env.taskService.CreateTask(env.ctx, services.CreateTaskInput{
		Title:            title,
		Description:      "Help us with " + title,
		Impact:           "More people get fed",
		Urgency:          models.UrgencyMedium,
		Deadline:         &deadline,
		VolunteersNeeded: volunteersNeeded,
		Skills:           skills,
		CharityID:        &env.charity.ID,
		CreatorID:        env.owner.ID,
	})
	require.NoError(t, err)
	return task
}

func (env *handlerTestEnv) apply(t *testing.T, task *models.Task, user *models.User) *models.Application {
	app, err := env.appService.Apply(task.ID, user.ID, "")
	require.NoError(t, err)
	return app
}

// testContext builds a gin context for a direct handler call. userID 0 means anonymous.
func testContext(method, url string, body interface{}, userID uint64, params ...gin.Param) (*gin.Context, *httptest.ResponseRecorder) {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Params = params
	if userID != 0 {
		c.Set(constants.ContextKeyUserID, userID)
	}
	return c, w
}

func idParam(name string, id uint64) gin.Param {
	return gin.Param{Key: name, Value: itoa(id)}
}

func itoa(id uint64) string {
	return strconv.FormatUint(id, 10)
}

type testEnvelope struct {
	Data    json.RawMessage     `json:"data"`
	Message string              `json:"message"`
	Error   *apierrors.APIError `json:"error"`
	Status  int                 `json:"status"`
}

// decode reads the response envelope and, when out is non-nil, its data.
func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) testEnvelope {
	t.Helper()

	var env testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	require.Equal(t, w.Code, env.Status)
	if out != nil {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}
