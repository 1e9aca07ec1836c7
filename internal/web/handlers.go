package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/projectnexus/taskpilot/internal/engine"
	"github.com/projectnexus/taskpilot/internal/report"
	"github.com/projectnexus/taskpilot/pkg/models"
)

const maxMessageSize = 10 << 10 // 10KB

// chatRequest is one turn of the assignment conversation. PriorMessage
// and PendingToken are echoed back by the client from the previous turn;
// the server itself holds no per-user state.
type chatRequest struct {
	Message      string `json:"message"`
	PriorMessage string `json:"prior_message"`
	PendingToken string `json:"pending_token"`
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "message required",
		})
		return
	}

	if len(req.Message) > maxMessageSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "message exceeds maximum size of 10KB",
		})
		return
	}

	result, err := s.chat.ProposeOrExecute(c.Request.Context(), req.Message, req.PriorMessage, req.PendingToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (s *Server) handleWorkloadReport(c *gin.Context) {
	ctx := c.Request.Context()

	issues, err := s.tracker.ListIssues(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	team, err := s.tracker.ListTeamMembers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	workloads := engine.CalculateTeamWorkloads(team, issues)

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"workloads": workloads,
		"text":      report.Workload(workloads),
	})
}

func (s *Server) handlePriorityReport(c *gin.Context) {
	issues, err := s.tracker.ListIssues(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	scores := engine.PrioritizeIssues(issues, s.now())

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"priorities": scores,
		"text":       report.Priorities(scores),
	})
}

func (s *Server) handleBottleneckReport(c *gin.Context) {
	ctx := c.Request.Context()

	issues, err := s.tracker.ListIssues(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	team, err := s.tracker.ListTeamMembers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	workloads := engine.CalculateTeamWorkloads(team, issues)
	risks := engine.PredictBottlenecks(workloads, issues, s.now())

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"bottlenecks": risks,
		"text":        report.Bottlenecks(risks),
	})
}

func (s *Server) handleAllocationReport(c *gin.Context) {
	ctx := c.Request.Context()

	issues, err := s.tracker.ListIssues(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	team, err := s.tracker.ListTeamMembers(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}
	skills, err := s.tracker.ListSkills(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": err.Error()})
		return
	}

	var unassigned []models.Issue
	for _, issue := range issues {
		if issue.Assignee == nil && !issue.Done() {
			unassigned = append(unassigned, issue)
		}
	}

	results := engine.AllocateBatch(unassigned, team, issues, skills)

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"allocations": results,
		"text":        report.Allocations(results),
	})
}
