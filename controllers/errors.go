package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"hotel-booking/services"
	"hotel-booking/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

var kindStatus = map[services.ErrorKind]int{
	services.KindValidation:    http.StatusBadRequest,
	services.KindAuthorization: http.StatusUnauthorized,
	services.KindForbidden:     http.StatusForbidden,
	services.KindNotFound:      http.StatusNotFound,
	services.KindConflict:      http.StatusConflict,
	services.KindProcessor:     http.StatusBadGateway,
	services.KindPersistence:   http.StatusInternalServerError,
}

// respondError answers with the status of the error's kind and exactly one
// human-readable message. Unknown errors become a generic 500.
func respondError(c *gin.Context, err error) {
	var be *services.BookingError
	if errors.As(err, &be) {
		status, ok := kindStatus[be.Kind]
		if !ok {
			status = http.StatusInternalServerError
		}
		if be.Err != nil {
			_ = c.Error(be.Err)
		}
		utils.JSONError(c, status, be.Code, be.Message)
		return
	}
	_ = c.Error(err)
	utils.JSONError(c, http.StatusInternalServerError, "error.internal", "Something went wrong, please try again")
}

// respondBindError turns binding failures into one field-level message.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, fieldMessage(fe))
		}
		utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", strings.Join(msgs, "; "))
		return
	}
	utils.JSONError(c, http.StatusBadRequest, "error.invalidPayload", "Invalid request payload")
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

func respondBadID(c *gin.Context, what string) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidId", fmt.Sprintf("invalid %s id", what))
}

func respondBadDate(c *gin.Context, err error) {
	utils.JSONError(c, http.StatusBadRequest, "error.invalidDate", err.Error())
}
