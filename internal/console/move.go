package console

import (
	"github.com/gin-gonic/gin"

	"github.com/comptaflow/console/internal/forms"
	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
)

// RegisterMoveRoutes registers the accounting-pieces page with the
// RouterGroup that is passed.
func RegisterMoveRoutes(r *gin.RouterGroup) {
	registerPageRoutes[models.Move, forms.MoveForm](r, func(c *gin.Context) *pages.Page[models.Move] {
		return fromContext(c).Moves
	})
}
