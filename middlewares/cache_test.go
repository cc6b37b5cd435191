package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"calshare/middlewares"
)

func cachedServer(t *testing.T) (*gin.Engine, *int) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	t.Cleanup(func() { mr.Close() })
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	hits := 0
	s := gin.New()
	s.Use(middlewares.ResponseCache(rdb, time.Minute))
	s.GET("/users/:user/calendars", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusOK, []string{"Cal"})
	})
	s.POST("/users/:user/calendars", func(c *gin.Context) {
		hits++
		c.JSON(http.StatusCreated, gin.H{"message": "ok"})
	})
	return s, &hits
}

func get(s *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	s.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestResponseCacheHitSkipsHandler(t *testing.T) {
	s, hits := cachedServer(t)

	w := get(s, "/users/alpha/calendars")
	if w.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first request: X-Cache=%q, want MISS", w.Header().Get("X-Cache"))
	}

	w = get(s, "/users/alpha/calendars")
	if w.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second request: X-Cache=%q, want HIT", w.Header().Get("X-Cache"))
	}
	if w.Code != http.StatusOK || w.Body.String() != `["Cal"]` {
		t.Fatalf("replayed response: code=%d body=%s", w.Code, w.Body.String())
	}
	if *hits != 1 {
		t.Fatalf("handler ran %d times, want 1", *hits)
	}
}

func TestResponseCacheKeysPerUserAndQuery(t *testing.T) {
	s, hits := cachedServer(t)

	get(s, "/users/alpha/calendars")
	get(s, "/users/beta/calendars")
	get(s, "/users/alpha/calendars?x=1")
	if *hits != 3 {
		t.Fatalf("handler ran %d times, want 3 distinct keys", *hits)
	}
}

func TestResponseCacheIgnoresMutations(t *testing.T) {
	s, hits := cachedServer(t)

	for range 2 {
		w := httptest.NewRecorder()
		s.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/users/alpha/calendars", nil))
		if w.Header().Get("X-Cache") != "" {
			t.Fatalf("POST should bypass the cache, got X-Cache=%q", w.Header().Get("X-Cache"))
		}
	}
	if *hits != 2 {
		t.Fatalf("handler ran %d times, want 2", *hits)
	}
}
