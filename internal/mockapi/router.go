// Package mockapi is a stand-in for the documentation product's
// API-definition endpoints. Package tests run the client and lifecycle
// tracker against it instead of a live tenant, and the CLI can serve it
// for local development. Imported content is validated the same way the
// product validates it: as an OpenAPI 3 document.
package mockapi

import (
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gin-gonic/gin"
)

// Router serves the mock API-definition endpoints.
type Router struct {
	engine *gin.Engine
	store  *Store
}

// NewRouter creates a router over the given store.
func NewRouter(store *Store) *Router {
	gin.SetMode(gin.ReleaseMode)

	r := &Router{
		engine: gin.New(),
		store:  store,
	}

	r.engine.Use(gin.Recovery())
	r.setupRoutes()

	return r
}

// Handler returns the http.Handler for serving.
func (r *Router) Handler() http.Handler {
	return r.engine
}

// setupRoutes configures all routes
func (r *Router) setupRoutes() {
	api := r.engine.Group("/v2")
	{
		api.POST("/apidefinitions", r.createDefinition)
		api.GET("/apidefinitions/:id", r.getDefinition)
		api.POST("/apidefinitions/bulkdelete", r.bulkDelete)
	}

	// Test hook, mirrors the twins' admin reset
	r.engine.POST("/_admin/reset", r.reset)
}

type createRequest struct {
	Title   string `json:"title"`
	Content string `json:"content" binding:"required"`
}

type bulkDeleteRequest struct {
	APIDefinitionList        []string `json:"apiDefinitionList" binding:"required"`
	ProjectDocumentVersionID string   `json:"projectDocumentVersionId"`
}

// createDefinition imports an OpenAPI document as a new definition.
func (r *Router) createDefinition(c *gin.Context) {
	var req createRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{err.Error()}})
		return
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(req.Content))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{"invalid OpenAPI document: " + err.Error()}})
		return
	}
	if err := doc.Validate(loader.Context); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{"OpenAPI validation failed: " + err.Error()}})
		return
	}

	title := req.Title
	version := ""
	if doc.Info != nil {
		if title == "" {
			title = doc.Info.Title
		}
		version = doc.Info.Version
	}

	def := r.store.Create(title, version, req.Content)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  def,
	})
}

// getDefinition returns a single definition.
func (r *Router) getDefinition(c *gin.Context) {
	def, err := r.store.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "errors": []string{err.Error()}})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": def})
}

// bulkDelete removes a batch of definitions in one call.
func (r *Router) bulkDelete(c *gin.Context) {
	var req bulkDeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{err.Error()}})
		return
	}

	if req.ProjectDocumentVersionID != "" && req.ProjectDocumentVersionID != r.store.ProjectVersionID() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"errors":  []string{"unknown projectDocumentVersionId: " + req.ProjectDocumentVersionID},
		})
		return
	}

	for _, id := range req.APIDefinitionList {
		r.store.Delete(id)
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"deleted": len(req.APIDefinitionList)}})
}

// reset clears the store for the next test.
func (r *Router) reset(c *gin.Context) {
	r.store.Reset()
	c.JSON(http.StatusOK, gin.H{"success": true, "result": gin.H{"projectDocumentVersionId": r.store.ProjectVersionID()}})
}
