package console

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/comptaflow/console/internal/models"
	"github.com/comptaflow/console/internal/pages"
)

// formPayload is implemented by every edit buffer in the forms package.
type formPayload interface {
	Validate() error
}

// getView ensures the page has loaded at least once and renders its
// current view.
func getView[E models.Record](c *gin.Context, page *pages.Page[E]) {
	if page.Status() == pages.StatusLoading {
		_ = page.LoadPublicData(c.Request.Context())
	}

	c.JSON(http.StatusOK, page.View())
}

func putFilters[E models.Record](c *gin.Context, page *pages.Page[E]) {
	var filters pages.Filters
	if err := c.ShouldBindJSON(&filters); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "the filter payload is invalid"})
		return
	}

	page.SetFilters(filters)
	c.JSON(http.StatusOK, page.View())
}

func resetFilters[E models.Record](c *gin.Context, page *pages.Page[E]) {
	page.ResetFilters()
	c.JSON(http.StatusOK, page.View())
}

func putPage[E models.Record](c *gin.Context, page *pages.Page[E]) {
	var body struct {
		Page    int `json:"page"`
		PerPage int `json:"per_page"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "the pagination payload is invalid"})
		return
	}

	page.SetPage(body.Page, body.PerPage)
	c.JSON(http.StatusOK, page.View())
}

func toggleSelection[E models.Record](c *gin.Context, page *pages.Page[E]) {
	var body struct {
		ID models.ID `json:"id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.ID.IsZero() {
		c.JSON(http.StatusBadRequest, httpError{Error: "a record id is required"})
		return
	}

	page.ToggleSelection(body.ID)
	c.JSON(http.StatusOK, page.View())
}

func selectAllVisible[E models.Record](c *gin.Context, page *pages.Page[E]) {
	page.SelectAllVisible()
	c.JSON(http.StatusOK, page.View())
}

func reload[E models.Record](c *gin.Context, page *pages.Page[E]) {
	if err := page.Retry(c.Request.Context()); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, page.View())
}

// createRecord binds and validates the entity's edit buffer, then submits
// it as a create. Validation failures never reach the backend.
func createRecord[E models.Record, F formPayload](c *gin.Context, page *pages.Page[E]) {
	var form F
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "the form payload is invalid"})
		return
	}

	if err := form.Validate(); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	if err := page.Create(c.Request.Context(), form); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusCreated, page.View())
}

func updateRecord[E models.Record, F formPayload](c *gin.Context, page *pages.Page[E]) {
	var form F
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "the form payload is invalid"})
		return
	}

	if err := form.Validate(); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	if err := page.Update(c.Request.Context(), models.ID(c.Param("id")), form); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, page.View())
}

// deleteRecord requires confirm=true; deletion is never implicit.
func deleteRecord[E models.Record](c *gin.Context, page *pages.Page[E]) {
	confirmed := c.Query("confirm") == "true"

	if err := page.Remove(c.Request.Context(), models.ID(c.Param("id")), confirmed); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, page.View())
}

func duplicateRecord[E models.Record](c *gin.Context, page *pages.Page[E]) {
	if err := page.Duplicate(c.Request.Context(), models.ID(c.Param("id"))); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusCreated, page.View())
}

func setFlag[E models.Record](c *gin.Context, page *pages.Page[E]) {
	var body struct {
		Field string `json:"field"`
		Value bool   `json:"value"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: "the flag payload is invalid"})
		return
	}

	if err := page.SetFlag(c.Request.Context(), models.ID(c.Param("id")), body.Field, body.Value); err != nil {
		c.JSON(status(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, page.View())
}

// registerPageRoutes wires the standard list-page routes for one entity.
func registerPageRoutes[E models.Record, F formPayload](r *gin.RouterGroup, page func(*gin.Context) *pages.Page[E]) {
	r.GET("", func(c *gin.Context) { getView(c, page(c)) })
	r.PUT("/filters", func(c *gin.Context) { putFilters(c, page(c)) })
	r.DELETE("/filters", func(c *gin.Context) { resetFilters(c, page(c)) })
	r.PUT("/page", func(c *gin.Context) { putPage(c, page(c)) })
	r.POST("/selection/toggle", func(c *gin.Context) { toggleSelection(c, page(c)) })
	r.POST("/selection/all", func(c *gin.Context) { selectAllVisible(c, page(c)) })
	r.POST("/reload", func(c *gin.Context) { reload(c, page(c)) })

	r.POST("", func(c *gin.Context) { createRecord[E, F](c, page(c)) })
	r.PUT("/:id", func(c *gin.Context) { updateRecord[E, F](c, page(c)) })
	r.DELETE("/:id", func(c *gin.Context) { deleteRecord(c, page(c)) })
	r.POST("/:id/duplicate", func(c *gin.Context) { duplicateRecord(c, page(c)) })
	r.POST("/:id/flag", func(c *gin.Context) { setFlag(c, page(c)) })
}
