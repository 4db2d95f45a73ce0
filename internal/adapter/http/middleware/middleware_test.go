package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports/mocks"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func actorRouter(repo *mocks.MockAccountRepository, handler gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	router.GET("/test", ActorContext(repo, zerolog.Nop()), handler)
	return router
}

func TestActorContext_MissingHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	router := actorRouter(repo, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestActorContext_MalformedID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	router := actorRouter(repo, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderActorID, "not-a-uuid")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestActorContext_UnknownAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	actorID := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), actorID).Return(nil, nil)

	router := actorRouter(repo, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderActorID, actorID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestActorContext_InactiveAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	actorID := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), actorID).Return(&domain.Account{
		ID: actorID, Role: domain.RoleStaff, IsActive: false,
	}, nil)

	router := actorRouter(repo, func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderActorID, actorID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestActorContext_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockAccountRepository(ctrl)
	actorID := uuid.New()
	repo.EXPECT().GetByID(gomock.Any(), actorID).Return(&domain.Account{
		ID: actorID, Role: domain.RoleAdmin, IsActive: true,
	}, nil)

	var capturedID uuid.UUID
	var capturedRole domain.Role
	router := actorRouter(repo, func(c *gin.Context) {
		id, _ := c.Get(CtxActorID)
		capturedID = id.(uuid.UUID)
		role, _ := c.Get(CtxActorRole)
		capturedRole = role.(domain.Role)
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(HeaderActorID, actorID.String())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, actorID, capturedID)
	assert.Equal(t, domain.RoleAdmin, capturedRole)
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name       string
		actorRole  domain.Role
		allowed    []domain.Role
		wantStatus int
	}{
		{"admin on admin route", domain.RoleAdmin, []domain.Role{domain.RoleAdmin}, http.StatusOK},
		{"staff on admin route", domain.RoleStaff, []domain.Role{domain.RoleAdmin}, http.StatusForbidden},
		{"staff on reversal route", domain.RoleStaff, []domain.Role{domain.RoleStaff, domain.RoleAdmin}, http.StatusOK},
		{"client on reversal route", domain.RoleClient, []domain.Role{domain.RoleStaff, domain.RoleAdmin}, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/test", func(c *gin.Context) {
				c.Set(CtxActorRole, tt.actorRole)
			}, RequireRole(tt.allowed...), func(c *gin.Context) {
				c.JSON(200, gin.H{"ok": true})
			})

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRequireRole_NoActor(t *testing.T) {
	router := gin.New()
	router.GET("/test", RequireRole(domain.RoleAdmin), func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRecovery_PanicRecovered(t *testing.T) {
	log := zerolog.Nop()

	router := gin.New()
	router.Use(Recovery(log))
	router.GET("/panic", func(c *gin.Context) {
		panic("something went wrong")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "SYS_001", resp["error_code"])
}

func TestMaxBodySize_RejectsOversizedBody(t *testing.T) {
	router := gin.New()
	router.Use(MaxBodySize(16))
	router.POST("/test", func(c *gin.Context) {
		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "too large"})
			return
		}
		c.JSON(200, gin.H{"ok": true})
	})

	payload := strings.Repeat("x", 64)
	req := httptest.NewRequest(http.MethodPost, "/test", bytes.NewBufferString(payload))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}
