package ui

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	"churnboard/adapters/excel"
	"churnboard/domain/modelmetrics"
	"churnboard/internal/errors"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (s *Server) handleOverview(c *gin.Context) {
	q, ok := s.queries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, q.Overview())
}

func (s *Server) handleGroups(c *gin.Context) {
	q, ok := s.queries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"column": "CustomerGroup",
		"groups": q.GroupDistribution(),
	})
}

func (s *Server) handleSegments(c *gin.Context) {
	q, ok := s.queries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"segments": q.Segments()})
}

func (s *Server) handleCustomers(c *gin.Context) {
	segment, present := c.GetQuery("segment")
	if !present || strings.TrimSpace(segment) == "" {
		respondError(c, errors.InvalidInput("segment query parameter is required"))
		return
	}

	q, ok := s.queries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, q.FilterBySegment(segment))
}

func (s *Server) handleHistogram(c *gin.Context) {
	q, ok := s.queries(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, q.CLVHistogram())
}

func (s *Server) handleSummary(c *gin.Context) {
	q, ok := s.queries(c)
	if !ok {
		return
	}
	summary, err := q.CLVSummary()
	if err != nil {
		respondError(c, errors.Wrap(err, "failed to summarize EstimatedCLV"))
		return
	}
	c.JSON(http.StatusOK, summary)
}

type modelView struct {
	Name    string              `json:"model"`
	Scores  modelmetrics.Scores `json:"scores"`
	Display map[string]string   `json:"display"`
}

func (s *Server) handleModels(c *gin.Context) {
	models := modelmetrics.All()
	views := make([]modelView, 0, len(models))
	for _, m := range models {
		display := make(map[string]string, len(modelmetrics.AllMetrics()))
		for _, metric := range modelmetrics.AllMetrics() {
			v, _ := m.Scores.Value(metric)
			display[string(metric)] = modelmetrics.FormatScore(v)
		}
		views = append(views, modelView{Name: m.Name, Scores: m.Scores, Display: display})
	}
	c.JSON(http.StatusOK, gin.H{
		"metrics": modelmetrics.AllMetrics(),
		"models":  views,
	})
}

func (s *Server) handleModelComparison(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"models":          modelmetrics.Names(),
		"leaders":         modelmetrics.Leaders(),
		"conclusion":      modelmetrics.Conclusion,
		"conclusion_html": modelmetrics.ConclusionHTML(),
	})
}

func (s *Server) handleDataset(c *gin.Context) {
	if _, err := s.table(c.Request.Context()); err != nil {
		respondError(c, err)
		return
	}
	info, ok := s.cache.Info(s.data.Source)
	if !ok {
		respondError(c, errors.NotFound("dataset "+s.data.Source))
		return
	}
	c.JSON(http.StatusOK, info)
}

func (s *Server) handleReload(c *gin.Context) {
	start := time.Now()
	table, err := s.cache.Reload(c.Request.Context(), s.data.Source)
	if err != nil {
		respondError(c, err)
		return
	}
	logger.Infof("Reloaded %s: %d rows in %v", s.data.Source, table.Len(), time.Since(start))

	info, _ := s.cache.Info(s.data.Source)
	c.JSON(http.StatusOK, info)
}

// handleExport downloads the dashboard as a workbook. An optional segment
// query parameter adds the filtered customer sheet.
func (s *Server) handleExport(c *gin.Context) {
	q, ok := s.queries(c)
	if !ok {
		return
	}

	report, err := excel.BuildReport(q, c.Query("segment"))
	if err != nil {
		respondError(c, err)
		return
	}

	var buf bytes.Buffer
	if err := excel.WriteReport(&buf, report); err != nil {
		respondError(c, errors.Wrap(err, "failed to export workbook"))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="churn_dashboard.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
