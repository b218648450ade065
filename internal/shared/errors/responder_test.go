package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRejected = stderrors.New("rejected")

func serve(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, ProblemDetail) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/cart/items/:id", handler)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/cart/items/1", nil))
	var problem ProblemDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	return rec, problem
}

func TestResponder_UsesFirstMatchingMapper(t *testing.T) {
	responder := NewResponder("https://cart.example/", func(err error) (ProblemDetail, bool) {
		if stderrors.Is(err, errRejected) {
			return NewCartNoticeProblem("failed to add product", "n-1"), true
		}
		return ProblemDetail{}, false
	})

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, errRejected) })

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, ContentTypeProblemJSON, rec.Header().Get("Content-Type"))
	assert.Equal(t, "https://cart.example"+TypeCartNotice, problem.Type)
	assert.Equal(t, "failed to add product", problem.Detail)
	assert.Equal(t, "/cart/items/1", problem.Instance)
	assert.Equal(t, "n-1", problem.Extensions["noticeId"])
}

func TestResponder_UnmappedErrorHidesCause(t *testing.T) {
	var logs bytes.Buffer
	responder := NewResponder("").WithLogger(slog.New(slog.NewJSONHandler(&logs, nil)))

	rec, problem := serve(t, func(c *gin.Context) { responder.RespondError(c, stderrors.New("boom")) })

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, TypeInternal, problem.Type)
	assert.Equal(t, "unexpected error", problem.Detail)
	assert.Contains(t, logs.String(), `"error":"boom"`)
}

func TestResponder_PassesThroughProblemErrors(t *testing.T) {
	rec, problem := serve(t, func(c *gin.Context) {
		RespondError(c, NewNotFoundProblem("product", 7))
	})

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "product with identifier '7' not found", problem.Detail)
}
