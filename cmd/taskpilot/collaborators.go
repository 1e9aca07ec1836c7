package main

import (
	"context"
	"fmt"
	"os"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/projectnexus/taskpilot/internal/assistant"
	"github.com/projectnexus/taskpilot/internal/config"
	"github.com/projectnexus/taskpilot/internal/logging"
	"github.com/projectnexus/taskpilot/internal/store"
	"github.com/projectnexus/taskpilot/internal/tracker"
	"github.com/projectnexus/taskpilot/pkg/models"
)

// collaborators bundles everything a command needs: the tracker client,
// the local roster store, and the conversation engine wired over both.
type collaborators struct {
	cfg      *config.Config
	tracker  *tracker.Client
	store    *store.Store
	combined *combinedTracker
	conv     *assistant.Conversation
	logger   *logging.DebugLogger
}

// close releases held resources.
func (c *collaborators) close() {
	if c.store != nil {
		c.store.Close()
	}
	if c.logger != nil {
		c.logger.Close()
	}
}

// combinedTracker satisfies assistant.Tracker by reading issues, team,
// and assignment writes from the remote tracker while sourcing skills
// from the local store, which the tracker does not hold.
type combinedTracker struct {
	remote *tracker.Client
	local  *store.Store
}

func (t *combinedTracker) ListIssues(ctx context.Context) ([]models.Issue, error) {
	return t.remote.ListIssues(ctx)
}

func (t *combinedTracker) ListTeamMembers(ctx context.Context) ([]models.TeamMember, error) {
	return t.remote.ListTeamMembers(ctx)
}

func (t *combinedTracker) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return t.local.ListSkills(ctx)
}

func (t *combinedTracker) Assign(ctx context.Context, issueKey, assigneeID string) error {
	return t.remote.Assign(ctx, issueKey, assigneeID)
}

// buildCollaborators loads config and wires up the full stack. The LLM
// responder is optional: without an Anthropic key the chat still handles
// every assignment and report request through the rule table.
func buildCollaborators() (*collaborators, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := config.ValidateTrackerCredentials(cfg); err != nil {
		return nil, err
	}

	trackerClient := tracker.NewClient(tracker.ClientConfig{
		BaseURL:    cfg.Tracker.BaseURL,
		Email:      cfg.Tracker.Email,
		APIToken:   cfg.Tracker.APIToken,
		ProjectKey: cfg.Tracker.ProjectKey,
	})

	storePath := cfg.Store.Path
	if storePath == "" {
		storePath = store.DefaultPath()
	}
	roster, err := store.Open(storePath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger := logging.NewDebugLoggerForDir(os.TempDir())

	// A fixed key keeps pending decision tokens redeemable across
	// process restarts; without one each process mints its own.
	var codecKey []byte
	if k := os.Getenv("TASKPILOT_DECISION_KEY"); k != "" {
		codecKey = []byte(k)
	}
	codec, err := assistant.NewDecisionCodec(codecKey)
	if err != nil {
		roster.Close()
		return nil, fmt.Errorf("create decision codec: %w", err)
	}

	var responder assistant.Responder
	if key, err := config.GetAPIKey(cfg); err == nil {
		llm, err := assistant.NewLLMResponder(assistant.LLMConfig{
			Model:         modelFromConfig(cfg),
			APIKey:        key,
			UseAWSBedrock: cfg.Anthropic.UseBedrock,
			AWSRegion:     cfg.Anthropic.AWSRegion,
		})
		if err == nil {
			responder = llm
		} else {
			logger.Log("llm responder unavailable: %v", err)
		}
	}

	combined := &combinedTracker{remote: trackerClient, local: roster}
	conv := assistant.NewConversation(assistant.ConversationConfig{
		Tracker:   combined,
		Codec:     codec,
		Responder: responder,
		Auditor:   roster,
		Logger:    logger,
	})

	return &collaborators{
		cfg:      cfg,
		tracker:  trackerClient,
		store:    roster,
		combined: combined,
		conv:     conv,
		logger:   logger,
	}, nil
}

func modelFromConfig(cfg *config.Config) anthropic.Model {
	return anthropic.Model(cfg.Anthropic.Model)
}
