package console

import (
	"github.com/gin-gonic/gin"

	"github.com/comptaflow/console/internal/forms"
	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
)

// RegisterJournalRoutes registers the journals page with the RouterGroup
// that is passed.
func RegisterJournalRoutes(r *gin.RouterGroup) {
	registerPageRoutes[models.Journal, forms.JournalForm](r, func(c *gin.Context) *pages.Page[models.Journal] {
		return fromContext(c).Journals
	})
}
