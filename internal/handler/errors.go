package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"shopsaver-api/internal/apperr"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// statusClientClosedRequest is reported when the caller went away before the comparison finished.
const statusClientClosedRequest = 499

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

var registerFieldNames sync.Once

// useJSONFieldNames makes validation errors name fields the way clients send them.
func useJSONFieldNames() {
	registerFieldNames.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
}

func bindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			field := fieldPath(fe)
			switch fe.Tag() {
			case "required":
				msgs = append(msgs, fmt.Sprintf("%s is required", field))
			case "min":
				msgs = append(msgs, fmt.Sprintf("%s must contain at least %s item(s)", field, fe.Param()))
			default:
				msgs = append(msgs, fmt.Sprintf("%s is invalid", field))
			}
		}
		return strings.Join(msgs, "; ")
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return fmt.Sprintf("%s has the wrong type", typeErr.Field)
	}

	return "invalid request body"
}

// fieldPath names a field by its JSON path, e.g. user_location.latitude.
func fieldPath(fe validator.FieldError) string {
	if _, path, ok := strings.Cut(fe.Namespace(), "."); ok {
		return path
	}
	return fe.Field()
}

// respondError maps a service error to a response. Only validation messages reach the caller.
func respondError(c *gin.Context, err error) {
	var appErr *apperr.Error
	switch {
	case errors.As(err, &appErr):
		status := appErr.HTTPStatus()
		msg := http.StatusText(status)
		switch appErr.Kind {
		case apperr.KindValidation:
			msg = appErr.Message
		case apperr.KindTimeout:
			msg = "price comparison timed out"
		case apperr.KindDependency:
			msg = "price data is temporarily unavailable"
		}
		if status >= http.StatusInternalServerError {
			log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("request failed")
		}
		c.JSON(status, gin.H{"error": msg})
	case errors.Is(err, context.Canceled):
		log.Info().Str("request_id", c.GetString(requestIDKey)).Msg("request canceled by client")
		c.AbortWithStatus(statusClientClosedRequest)
	default:
		log.Error().Err(err).Str("request_id", c.GetString(requestIDKey)).Msg("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
