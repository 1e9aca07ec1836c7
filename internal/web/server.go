// Package web exposes the dashboard over HTTP: a chat endpoint driving
// the assignment conversation and read-only report endpoints backed by
// the reasoning engine.
package web

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/projectnexus/taskpilot/internal/assistant"
	"github.com/projectnexus/taskpilot/pkg/models"
)

// ChatEngine runs one turn of the assignment conversation.
type ChatEngine interface {
	ProposeOrExecute(ctx context.Context, message, priorMessage, pendingToken string) (assistant.TurnResult, error)
}

// Snapshots is the read-only tracker view the report endpoints need.
type Snapshots interface {
	ListIssues(ctx context.Context) ([]models.Issue, error)
	ListTeamMembers(ctx context.Context) ([]models.TeamMember, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
}

// Server is the TaskPilot web server.
type Server struct {
	chat    ChatEngine
	tracker Snapshots
	router  *gin.Engine
	now     func() time.Time
}

// NewServer creates a new web server.
func NewServer(chat ChatEngine, tracker Snapshots) *Server {
	router := gin.Default()

	s := &Server{
		chat:    chat,
		tracker: tracker,
		router:  router,
		now:     time.Now,
	}
	s.registerRoutes(router)

	return s
}

func (s *Server) registerRoutes(router *gin.Engine) {
	router.GET("/healthz", s.handleHealthz)

	api := router.Group("/api")
	{
		api.POST("/chat", s.handleChat)
		api.GET("/reports/workload", s.handleWorkloadReport)
		api.GET("/reports/priority", s.handlePriorityReport)
		api.GET("/reports/bottlenecks", s.handleBottleneckReport)
		api.GET("/reports/allocations", s.handleAllocationReport)
	}
}

// Run starts the web server.
func (s *Server) Run(port int) error {
	return s.router.Run(fmt.Sprintf(":%d", port))
}
