package httpserver

import (
	"github.com/labstack/echo/v4"
)

// Envelope is the uniform response body: {statusCode, message, data}.
type Envelope struct {
	StatusCode int         `json:"statusCode"`
	Message    string      `json:"message"`
	Data       interface{} `json:"data"`
}

func respond(c echo.Context, status int, message string, data interface{}) error {
	return c.JSON(status, Envelope{
		StatusCode: status,
		Message:    message,
		Data:       data,
	})
}
