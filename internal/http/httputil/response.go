package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Success    bool        `json:"success"`
	Data       interface{} `json:"data,omitempty"`
	Error      string      `json:"error,omitempty"`
	Suggestion string      `json:"suggestion,omitempty"`
}

func HandleSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

func HandleError(c *gin.Context, status int, err string) {
	c.JSON(status, Response{
		Success: false,
		Error:   err,
	})
}

func HandleBadRequest(c *gin.Context, err string) {
	HandleError(c, http.StatusBadRequest, err)
}

func HandleNotFound(c *gin.Context, err string) {
	HandleError(c, http.StatusNotFound, err)
}

func HandleInternalError(c *gin.Context, err string) {
	HandleError(c, http.StatusInternalServerError, err)
}

// HandleNoRoute reports an exhausted pricing cascade with a remediation
// hint alongside the error.
func HandleNoRoute(c *gin.Context, err string, suggestion string) {
	c.JSON(http.StatusNotFound, Response{
		Success:    false,
		Error:      err,
		Suggestion: suggestion,
	})
}

func HandleBadGateway(c *gin.Context, err string) {
	HandleError(c, http.StatusBadGateway, err)
}
