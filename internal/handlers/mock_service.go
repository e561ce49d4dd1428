package handlers

import (
	"context"

	"users-service/internal/models"
	"users-service/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockUsers struct {
	createUser *models.User
	createErr  error
	getUser    *models.User
	getErr     error
	listResp   []models.User
	listErr    error

	createCalls     int
	lastCreateInput service.CreateUserInput
	lastGetID       string
}

func (m *mockUsers) Create(ctx context.Context, input service.CreateUserInput) (*models.User, error) {
	m.createCalls++
	m.lastCreateInput = input
	return m.createUser, m.createErr
}

func (m *mockUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	m.lastGetID = id
	return m.getUser, m.getErr
}

func (m *mockUsers) List(ctx context.Context) ([]models.User, error) {
	return m.listResp, m.listErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}
