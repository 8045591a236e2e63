package console

import (
	"github.com/gin-gonic/gin"

	"github.com/comptaflow/console/internal/forms"
	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
)

// RegisterFiscalPositionRoutes registers the fiscal-positions page with
// the RouterGroup that is passed.
func RegisterFiscalPositionRoutes(r *gin.RouterGroup) {
	registerPageRoutes[models.FiscalPosition, forms.FiscalPositionForm](r, func(c *gin.Context) *pages.Page[models.FiscalPosition] {
		return fromContext(c).FiscalPositions
	})
}
