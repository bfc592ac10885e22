package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/absensi-tk-api/pkg/errors"
	"github.com/noah-isme/absensi-tk-api/pkg/response"
)

// bindJSON decodes the body into dst and writes a 400 when it cannot.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}

func requiredQuery(c *gin.Context, keys ...string) (map[string]string, bool) {
	values := make(map[string]string, len(keys))
	missing := make([]string, 0)
	for _, key := range keys {
		v := strings.TrimSpace(c.Query(key))
		if v == "" {
			missing = append(missing, key)
		}
		values[key] = v
	}
	if len(missing) > 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, strings.Join(missing, ", ")+" required"))
		return nil, false
	}
	return values, true
}

func intQuery(c *gin.Context, key string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(c.Query(key)))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, key+" must be a number"))
		return 0, false
	}
	return n, true
}
