package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(contextKeyRequestID))
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(headerRequestID)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(headerRequestID, "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Header().Get(headerRequestID))
}

func TestWorkerSlots_RejectsWhenFullAndCancelled(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})

	r := gin.New()
	r.Use(WorkerSlots(1))
	r.GET("/", func(c *gin.Context) {
		entered <- struct{}{}
		<-release
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	done := make(chan struct{})
	go func() {
		r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
		close(done)
	}()
	<-entered

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))
	assert.Equal(t, http.StatusServiceUnavailable, second.Code)

	close(release)
	<-done
	assert.Equal(t, http.StatusOK, first.Code)
}

func sign(token, fullURL string, form url.Values) string {
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(fullURL)
	for _, k := range keys {
		b.WriteString(k)
		b.WriteString(form.Get(k))
	}

	mac := hmac.New(sha1.New, []byte(token))
	mac.Write([]byte(b.String()))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

func TestTwilioSignature(t *testing.T) {
	const token = "auth-token"
	const base = "https://bot.example.com"

	r := gin.New()
	r.POST("/whatsapp", TwilioSignature(token, base), func(c *gin.Context) {
		c.String(http.StatusOK, c.PostForm("Body"))
	})

	form := url.Values{"From": {"whatsapp:+5511999999999"}, "Body": {"oi"}}

	newReq := func(signature string) *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/whatsapp", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		if signature != "" {
			req.Header.Set(headerTwilioSignature, signature)
		}
		return req
	}

	t.Run("valid", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq(sign(token, base+"/whatsapp", form)))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "oi", w.Body.String())
	})

	t.Run("wrong token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq(sign("other", base+"/whatsapp", form)))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, newReq(""))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRequestURL_FromForwardedHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "http://internal:8080/whatsapp?x=1", nil)
	c.Request.Header.Set("X-Forwarded-Proto", "https")

	assert.Equal(t, "https://internal:8080/whatsapp?x=1", requestURL(c, ""))
	assert.Equal(t, "https://pub.example/whatsapp?x=1", requestURL(c, "https://pub.example"))
}
