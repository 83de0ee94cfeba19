package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	"github.com/google/uuid"

	"supptruth/adapters/excel"
	"supptruth/app"
	"supptruth/domain/core"
)

// supplementTruthPayload wraps the service view with dashboard-ready HTML
// renderings of the explanation copy
type supplementTruthPayload struct {
	app.SupplementTruth
	MechanismHTML string `json:"mechanism_html,omitempty"`
	BiologyHTML   string `json:"biology_html,omitempty"`
}

func (s *Server) handleDashboardTruth(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	views, err := s.truth.DashboardTruth(c.Request.Context(), uid)
	if err != nil {
		s.log.Error("dashboard truth failed for user %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "dashboard unavailable"})
		return
	}

	payload := make([]supplementTruthPayload, len(views))
	for i, view := range views {
		payload[i] = renderView(view)
	}
	c.JSON(http.StatusOK, gin.H{"supplements": payload})
}

func (s *Server) handleSupplementTruth(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	suppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplement id"})
		return
	}

	view, err := s.truth.SupplementTruth(c.Request.Context(), uid, suppID)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplement not found"})
			return
		}
		s.log.Error("supplement truth failed for %s: %v", suppID, err)
		// The dashboard falls back to a safe building display on failure.
		c.JSON(http.StatusOK, gin.H{"building": true})
		return
	}
	c.JSON(http.StatusOK, renderView(view))
}

func (s *Server) handleStartRetest(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	suppID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid supplement id"})
		return
	}

	if err := s.truth.StartRetest(c.Request.Context(), uid, suppID); err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "supplement not found"})
			return
		}
		s.log.Error("retest start failed for %s: %v", suppID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "retest unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"retesting": true})
}

func (s *Server) handleImportCheckins(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing import file"})
		return
	}
	defer file.Close()

	importer := excel.NewCheckinImporter(uid)
	rows, err := importer.Import(header.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	inserted, err := s.truth.ImportHistory(c.Request.Context(), uid, rows)
	if err != nil {
		s.log.Error("check-in import failed for user %s: %v", uid, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"imported": inserted, "parsed": len(rows)})
}

// renderView attaches HTML renderings of the markdown-capable copy fields
func renderView(view app.SupplementTruth) supplementTruthPayload {
	payload := supplementTruthPayload{SupplementTruth: view}
	if view.Report != nil {
		payload.MechanismHTML = string(markdown.ToHTML([]byte(view.Report.Mechanism), nil, nil))
		payload.BiologyHTML = string(markdown.ToHTML([]byte(view.Report.Biology), nil, nil))
	}
	return payload
}
