package cartserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/go-gin-cart-server/internal/domains/cart/application"
	apierrors "github.com/Apurer/go-gin-cart-server/internal/shared/errors"
)

// responder maps cart operation errors onto the single notice problem type.
var responder = apierrors.NewResponder("", cartNoticeProblem)

func cartNoticeProblem(err error) (apierrors.ProblemDetail, bool) {
	notice, ok := cartapp.NoticeOf(err)
	if !ok {
		return apierrors.ProblemDetail{}, false
	}
	return apierrors.NewCartNoticeProblem(notice.Message, notice.ID.String()), true
}

// respondError preserves the existing call sites while returning RFC 7807 responses.
func respondError(c *gin.Context, status int, err error) {
	if err == nil {
		return
	}
	var problem apierrors.ProblemDetail
	switch status {
	case http.StatusBadRequest:
		problem = apierrors.ErrBadRequest.WithDetail(err.Error())
	case http.StatusNotFound:
		problem = apierrors.ErrNotFound.WithDetail(err.Error())
	case http.StatusBadGateway:
		problem = apierrors.ErrCatalogUnavailable.WithDetail(err.Error())
	default:
		problem = apierrors.ErrInternal.WithDetail(err.Error())
	}
	responder.Respond(c, problem)
}

// respondCartError hides the classified cause behind the notice text.
func respondCartError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	responder.RespondError(c, err)
}

var errInvalidProductID = errors.New("productId must be a positive integer")

func parseIDParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, errInvalidProductID)
		return 0, false
	}
	return id, true
}
