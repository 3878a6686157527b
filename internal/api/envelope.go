package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ICONICTHON/2024-ICONICTHON-TEAM-18-AI/internal/apperr"
)

// Envelope messages. Existing clients compare against these strings.
const (
	MsgSuccess = "성공"
	MsgFailure = "실패"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func ok(c *gin.Context, data any) {
	if data == nil {
		data = gin.H{}
	}
	c.JSON(http.StatusOK, Envelope{Success: true, Msg: MsgSuccess, Data: data})
}

func fail(c *gin.Context, status int, msg string, err error) {
	c.JSON(status, Envelope{Success: false, Msg: msg, Error: err.Error()})
}

// failErr picks the status from the error kind.
func failErr(c *gin.Context, err error) {
	fail(c, statusFor(err), MsgFailure, err)
}

func statusFor(err error) int {
	if errors.Is(err, apperr.BadRequest) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
