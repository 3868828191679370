package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	apperrors "github.com/vetstack/vetclinic-api/pkg/errors"
)

// ErrorResponse is the error body returned by every failing endpoint.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a message-bearing success body.
type MessageResponse struct {
	Msg string `json:"msg"`
}

func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Error: message}
}

func NewMessageResponse(msg string) MessageResponse {
	return MessageResponse{Msg: msg}
}

// RespondError translates an application error into its HTTP status
// and error body. Unrecognized errors become opaque 500s.
func RespondError(c *gin.Context, err error) {
	if appErr := apperrors.AsAppError(err); appErr != nil {
		c.JSON(appErr.HTTPStatus(), NewErrorResponse(appErr.Message))
		return
	}

	log.Error().
		Err(err).
		Str("path", c.Request.URL.Path).
		Str("method", c.Request.Method).
		Msg("unhandled error")
	c.JSON(500, NewErrorResponse("internal server error"))
}
