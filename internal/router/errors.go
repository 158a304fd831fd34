package router

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shopfront/commerce-api/pkg/global"
)

// writeError maps the error taxonomy onto status codes. Anything unknown is
// a 500 that still carries the underlying message.
func (h *Handler) writeError(c *gin.Context, err error) {
	var (
		validationErr *global.ValidationFailedError
		referenceErr  *global.ReferenceNotFoundError
		duplicateErr  *global.DuplicateKeyError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Validation failed", validationErr.Fields))
	case errors.As(err, &referenceErr):
		c.JSON(http.StatusBadRequest, global.ErrorResponse(referenceErr.Error(), nil))
	case errors.As(err, &duplicateErr):
		c.JSON(http.StatusBadRequest, global.ErrorResponse(duplicateErr.Error(), []global.ValidationError{
			{Field: duplicateErr.Field, Message: duplicateErr.Error(), Code: "duplicate"},
		}))
	case errors.Is(err, global.ErrNotFound):
		c.JSON(http.StatusNotFound, global.ErrorResponse(capitalize(err.Error()), nil))
	default:
		h.logger.Printf("Error handling %s %s [%s]: %v", c.Request.Method, c.FullPath(), c.GetString("request_id"), err)
		c.JSON(http.StatusInternalServerError, global.ErrorResponse(err.Error(), nil))
	}
}

// bindJSON decodes the body into dst, answering 400 itself on failure.
func bindJSON(c *gin.Context, dst any) bool {
	err := c.ShouldBindJSON(dst)
	if err == nil {
		return true
	}

	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &typeErr):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Validation failed", []global.ValidationError{
			{Field: typeErr.Field, Message: fmt.Sprintf("%s must be %s", typeErr.Field, jsonTypeName(typeErr.Type)), Code: "type"},
		}))
	case errors.Is(err, io.EOF):
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Request body is required", []global.ValidationError{
			{Field: "body", Message: "Request body is required", Code: "required"},
		}))
	default:
		c.JSON(http.StatusBadRequest, global.ErrorResponse("Invalid JSON format", []global.ValidationError{
			{Field: "body", Message: err.Error(), Code: "json_parse_error"},
		}))
	}
	return false
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func jsonTypeName(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.String:
		return "a string"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "an object"
	}
}
