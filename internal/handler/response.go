package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"coinstore/internal/domain"
	"coinstore/internal/ledger"
	"coinstore/internal/middleware"
	"coinstore/internal/repository"
	"coinstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
)

var registerOnce sync.Once

// RegisterValidators adds the custom binding tags request structs use.
func RegisterValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("date", func(fl validator.FieldLevel) bool {
				_, err := time.Parse(domain.DateLayout, fl.Field().String())
				return err == nil
			})
		}
	})
}

// respondError maps domain and service errors onto status codes. Anything
// unrecognized is logged and reported as a generic 500.
func respondError(c *gin.Context, log *logrus.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Error(), "field": verr.Field})
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
	case errors.Is(err, domain.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"message": "conflict"})
	case errors.Is(err, domain.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"message": "forbidden"})
	case errors.Is(err, domain.ErrUnconfigured):
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "integration not configured"})
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "internal error"})
	}
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
}

func parsePagination(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return page, limit
}

func pageOf(c *gin.Context) repository.Page {
	page, limit := parsePagination(c)
	return repository.Page{Page: page, Limit: limit}
}

func paginated(c *gin.Context, items interface{}, total int64, page repository.Page) {
	c.JSON(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  page.Page,
		"limit": page.Limit,
	})
}

func uintParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid " + name})
		return 0, false
	}
	return uint(id), true
}

// actorOf builds the acting user from the auth context and request metadata.
func actorOf(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:     middleware.GetUserID(c),
		Username:   middleware.GetUsername(c),
		Role:       middleware.GetRole(c),
		ClientMeta: metaOf(c),
	}
}

func metaOf(c *gin.Context) service.ClientMeta {
	return service.ClientMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Invalid(key, "must be a number")
	}
	return n, nil
}

func queryBool(c *gin.Context, key string) (*bool, error) {
	raw := strings.TrimSpace(c.Query(key))
	if raw == "" {
		return nil, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, domain.Invalid(key, "must be true or false")
	}
	return &b, nil
}

// parseLedgerFilter reads the ledger query parameters and validates them.
func parseLedgerFilter(c *gin.Context) (ledger.Filter, error) {
	f := ledger.Filter{
		Username:  c.Query("username"),
		Kind:      domain.EntryKind(c.Query("type")),
		Method:    domain.Method(c.Query("method")),
		GameName:  c.Query("gameName"),
		PlayerTag: c.Query("playerTag"),
		DateFrom:  c.Query("dateFrom"),
		DateTo:    c.Query("dateTo"),
	}
	var err error
	if f.Year, err = queryInt(c, "year"); err != nil {
		return f, err
	}
	if f.Month, err = queryInt(c, "month"); err != nil {
		return f, err
	}
	if f.Day, err = queryInt(c, "day"); err != nil {
		return f, err
	}
	if f.Pending, err = queryBool(c, "pending"); err != nil {
		return f, err
	}
	return f, f.Validate()
}

func today() string {
	return time.Now().Format(domain.DateLayout)
}
