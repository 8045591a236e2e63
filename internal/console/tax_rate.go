package console

import (
	"github.com/gin-gonic/gin"

	"github.com/comptaflow/console/internal/forms"
	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
)

// RegisterTaxRateRoutes registers the tax-rates page with the RouterGroup
// that is passed.
func RegisterTaxRateRoutes(r *gin.RouterGroup) {
	registerPageRoutes[models.TaxRate, forms.TaxRateForm](r, func(c *gin.Context) *pages.Page[models.TaxRate] {
		return fromContext(c).TaxRates
	})
}
