// Package controllers holds the HTTP handlers. Each handler translates one
// request into a store call or an aggregation and shapes the response.
package controllers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/developersajeeb/code-stack-server/store"
	"github.com/developersajeeb/code-stack-server/utils"
)

// Handler carries the dependencies shared by every route.
type Handler struct {
	store  store.Store
	tokens *utils.TokenService
}

// New builds a Handler over st that signs tokens with tokens.
func New(st store.Store, tokens *utils.TokenService) *Handler {
	return &Handler{store: st, tokens: tokens}
}

func init() {
	// Report validation failures under the JSON field names clients send.
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			for _, tag := range []string{"json", "form"} {
				name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
				if name != "" && name != "-" {
					return name
				}
			}
			return ""
		})
	}
}

// bindJSON decodes the request body into dst. On failure it writes a 400
// naming the first offending field and returns false.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, err)
		return false
	}
	return true
}

func badRequest(c *gin.Context, err error) {
	slog.Debug("bad request", "path", c.Request.URL.Path, "request_id", c.GetString(utils.RequestIDKey), "error", err)
	utils.ErrorResponse(c, http.StatusBadRequest, bindingMessage(err))
}

// bindingMessage turns a binding error into a message safe to show clients.
func bindingMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fe.Field() + " is required"
		case "email":
			return fe.Field() + " must be a valid email"
		default:
			return fe.Field() + " is invalid"
		}
	}
	if errors.Is(err, io.EOF) {
		return "request body is required"
	}
	return "invalid request body"
}

// objectIDParam parses the named path parameter as an ObjectID, writing a 400
// when it is malformed.
func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid id")
		return primitive.NilObjectID, false
	}
	return id, true
}

// requiredQuery returns the trimmed query value or writes a 400.
func requiredQuery(c *gin.Context, name string) (string, bool) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, name+" is required")
		return "", false
	}
	return v, true
}

// pageQuery reads ?skip and ?limit. Absent values mean no skip / no limit.
func pageQuery(c *gin.Context) (store.Page, bool) {
	var page store.Page
	for _, p := range []struct {
		name string
		dst  *int64
	}{{"skip", &page.Skip}, {"limit", &page.Limit}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			utils.ErrorResponse(c, http.StatusBadRequest, "invalid "+p.name)
			return store.Page{}, false
		}
		*p.dst = n
	}
	return page, true
}

func inserted(c *gin.Context, id primitive.ObjectID) {
	c.JSON(http.StatusCreated, gin.H{"acknowledged": true, "insertedId": id})
}
