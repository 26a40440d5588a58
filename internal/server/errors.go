package server

import (
	"errors"
	"net/http"

	"TradeView/internal/apperrors"

	"github.com/gin-gonic/gin"
)

func statusFor(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.CodeInvalidParameter, apperrors.CodeInvalidSettings:
		return http.StatusBadRequest
	case apperrors.CodeFetchFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, status int, err error) {
	if err == nil {
		status = http.StatusInternalServerError
		err = errors.New("unknown error")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
