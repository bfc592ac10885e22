package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/absensi-tk-api/internal/models"
	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
)

type stubValidator struct {
	enabled bool
}

func (s stubValidator) Enabled() bool { return s.enabled }

func (s stubValidator) ValidateToken(token string) (*models.JWTClaims, error) {
	if token != "good" {
		return nil, appErrors.Wrap(errors.New("bad token"), appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}
	return &models.JWTClaims{Username: "operator"}, nil
}

func operatorRouter(auth tokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/classes", Operator(auth), func(c *gin.Context) {
		if claims := OperatorFromContext(c); claims != nil {
			c.Header("X-Operator", claims.Username)
		}
		c.Status(http.StatusNoContent)
	})
	return router
}

func TestOperatorDisabledPassesThrough(t *testing.T) {
	recorder := httptest.NewRecorder()
	operatorRouter(stubValidator{enabled: false}).ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/classes", nil))
	if recorder.Code != http.StatusNoContent {
		t.Fatalf("unexpected status: %d", recorder.Code)
	}
}

func TestOperatorRequiresBearerToken(t *testing.T) {
	router := operatorRouter(stubValidator{enabled: true})

	cases := map[string]int{
		"":            http.StatusUnauthorized,
		"Basic abc":   http.StatusUnauthorized,
		"Bearer nope": http.StatusUnauthorized,
		"Bearer good": http.StatusNoContent,
	}
	for header, want := range cases {
		req := httptest.NewRequest(http.MethodPost, "/classes", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		recorder := httptest.NewRecorder()
		router.ServeHTTP(recorder, req)
		if recorder.Code != want {
			t.Fatalf("header %q: expected %d got %d", header, want, recorder.Code)
		}
		if want == http.StatusNoContent && recorder.Header().Get("X-Operator") != "operator" {
			t.Fatalf("expected operator claims on context")
		}
	}
}

type recordingObserver struct {
	path   string
	status int
}

func (r *recordingObserver) ObserveHTTPRequest(method, path string, status int, _ time.Duration) {
	r.path = path
	r.status = status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	obs := &recordingObserver{}
	router := gin.New()
	router.Use(Metrics(obs))
	router.GET("/classes/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/classes/c1", nil))
	if obs.path != "/classes/:id" || obs.status != http.StatusOK {
		t.Fatalf("unexpected observation: %+v", obs)
	}
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if meta["cache_hit"] != true {
		t.Fatalf("expected cache_hit in meta: %v", meta)
	}
	if _, ok := meta["processing_time_ms"]; !ok {
		t.Fatalf("expected processing_time_ms in meta: %v", meta)
	}
}
