package utils

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lexcal-dev/lexcal/internal/middleware"
	"github.com/lexcal-dev/lexcal/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

// GetParamID parses a numeric path parameter.
func GetParamID(ctx *gin.Context, name string) (uint, error) {
	raw := ctx.Param(name)

	id, err := strconv.ParseUint(raw, 10, 64)

	if err != nil {
		return 0, fmt.Errorf("Invalid %s", name)
	}

	return uint(id), nil
}

func GetMatterID(ctx *gin.Context) (uint, error) {
	return GetParamID(ctx, "matter_id")
}
