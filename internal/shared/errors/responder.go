package errors

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContentTypeProblemJSON is the media type for Problem Details responses.
const ContentTypeProblemJSON = "application/problem+json"

// ErrorMapper turns a domain or application error into a problem, reporting
// false when it does not recognise the error.
type ErrorMapper func(err error) (ProblemDetail, bool)

// Responder writes Problem Details responses. Errors are offered to each
// mapper in order; unmapped errors become a 500 whose detail hides the cause.
type Responder struct {
	baseURI string
	mappers []ErrorMapper
	logger  *slog.Logger
}

// NewResponder creates a responder. A non-empty baseURI is prefixed to
// relative problem types.
func NewResponder(baseURI string, mappers ...ErrorMapper) *Responder {
	return &Responder{
		baseURI: strings.TrimRight(baseURI, "/"),
		mappers: mappers,
		logger:  slog.Default(),
	}
}

// WithLogger returns a copy of r that reports unmapped errors to logger.
func (r *Responder) WithLogger(logger *slog.Logger) *Responder {
	clone := *r
	if logger != nil {
		clone.logger = logger
	}
	return &clone
}

// DefaultResponder uses relative problem types and no mappers.
var DefaultResponder = NewResponder("")

// Respond writes problem with the problem+json media type. Instance defaults
// to the request path.
func (r *Responder) Respond(c *gin.Context, problem ProblemDetail) {
	if r.baseURI != "" && strings.HasPrefix(problem.Type, "/") {
		problem.Type = r.baseURI + problem.Type
	}
	if problem.Instance == "" {
		problem.Instance = c.Request.URL.Path
	}
	c.Header("Content-Type", ContentTypeProblemJSON)
	c.JSON(problem.Status, problem)
}

// RespondError maps err and writes the resulting problem.
func (r *Responder) RespondError(c *gin.Context, err error) {
	var problem ProblemDetail
	if errors.As(err, &problem) {
		r.Respond(c, problem)
		return
	}
	for _, mapper := range r.mappers {
		if p, ok := mapper(err); ok {
			r.Respond(c, p)
			return
		}
	}
	if r.logger != nil {
		r.logger.ErrorContext(c.Request.Context(), "unmapped error",
			slog.String("path", c.Request.URL.Path), slog.String("error", err.Error()))
	}
	r.Respond(c, ErrInternal.WithDetail("unexpected error"))
}

// NotFound sends a 404 problem response.
func (r *Responder) NotFound(c *gin.Context, resourceType string, identifier any) {
	r.Respond(c, NewNotFoundProblem(resourceType, identifier))
}

// Respond is a convenience function using the default responder.
func Respond(c *gin.Context, problem ProblemDetail) {
	DefaultResponder.Respond(c, problem)
}

// RespondError is a convenience function using the default responder.
func RespondError(c *gin.Context, err error) {
	DefaultResponder.RespondError(c, err)
}
