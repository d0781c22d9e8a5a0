package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/mealpersona-backend/internal/data/repos/repoutil"
	"github.com/yungbote/mealpersona-backend/internal/http/response"
)

// pathID parses the ":id" parameter, writing a 400 on failure.
func pathID(c *gin.Context, code string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, code, errors.New("invalid id"))
		return uuid.Nil, false
	}
	return id, true
}

func pageFromQuery(c *gin.Context) repoutil.Page {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))
	return repoutil.Page{Limit: limit, Offset: offset}.Normalize()
}
