package delivery

import (
	"errors"
	"net/http"

	"catalog_service/internal/domain"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"Status"`
	Message string      `json:"Message"`
	Data    interface{} `json:"Data,omitempty"`
}

func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Status:  "Success",
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Status:  "Fail",
		Message: message,
	})
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Internal errors are not echoed to the client.
func fail(c *gin.Context, prefix string, err error) {
	statusCode := mapErrorToStatus(err)
	if statusCode == http.StatusInternalServerError {
		ErrorResponse(c, statusCode, prefix+": internal error")
		return
	}
	ErrorResponse(c, statusCode, prefix+": "+err.Error())
}
