package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/projectnexus/taskpilot/internal/engine"
	"github.com/projectnexus/taskpilot/internal/logging"
	"github.com/projectnexus/taskpilot/pkg/models"
)

// Tracker is the narrow view of the issue tracker the conversation needs:
// three read-only snapshots and the single side-effecting write.
type Tracker interface {
	ListIssues(ctx context.Context) ([]models.Issue, error)
	ListTeamMembers(ctx context.Context) ([]models.TeamMember, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	Assign(ctx context.Context, issueKey, assigneeID string) error
}

// Responder answers messages the rule table does not recognize. It is
// optional; without one the conversation falls back to a canned help
// reply. Scoring functions never call it.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

// Auditor records every redemption attempt. Optional.
type Auditor interface {
	RecordAssignment(ctx context.Context, issueKey, assigneeID, outcome, detail string) error
}

// Outcome is the terminal result of one conversation turn.
type Outcome string

const (
	// OutcomeSuccess means the external assignment write succeeded (or
	// was safely skipped because the tracker already held the value).
	OutcomeSuccess Outcome = "success"
	// OutcomeFailure means the write was attempted and failed.
	OutcomeFailure Outcome = "failure"
	// OutcomeNone means no write was attempted this turn.
	OutcomeNone Outcome = "none"
)

// TurnResult is what one chat turn produces. When Decision is non-nil the
// caller must echo Token back verbatim on the next turn for the proposal
// to be redeemable.
type TurnResult struct {
	// Reply is the text to show the user.
	Reply string `json:"reply"`
	// Decision is the pending proposal, nil when nothing is pending.
	Decision *models.PendingDecision `json:"decision,omitempty"`
	// Token is the signed, opaque serialization of Decision.
	Token string `json:"token,omitempty"`
	// Executed reports whether the external write was attempted.
	Executed bool `json:"executed"`
	// Outcome is success, failure, or none.
	Outcome Outcome `json:"outcome"`
	// DegradedResolution is set when the assignee could not be resolved
	// against the roster and the raw user-supplied token was forwarded as
	// a last-resort identifier.
	DegradedResolution bool `json:"degraded_resolution,omitempty"`
}

// Conversation drives the assignment confirmation protocol. It holds no
// per-user state: the pending decision travels through the caller as a
// signed token, and every turn recomputes derived data from fresh tracker
// snapshots. Collaborators are injected; there are no ambient singletons.
type Conversation struct {
	tracker   Tracker
	codec     *DecisionCodec
	responder Responder
	audit     Auditor
	logger    *logging.DebugLogger
}

// ConversationConfig contains the collaborators for a Conversation.
// Responder, Auditor, and Logger are optional.
type ConversationConfig struct {
	Tracker   Tracker
	Codec     *DecisionCodec
	Responder Responder
	Auditor   Auditor
	Logger    *logging.DebugLogger
}

// NewConversation wires up a conversation engine.
func NewConversation(cfg ConversationConfig) *Conversation {
	return &Conversation{
		tracker:   cfg.Tracker,
		codec:     cfg.Codec,
		responder: cfg.Responder,
		audit:     cfg.Auditor,
		logger:    cfg.Logger,
	}
}

const helpReply = `I can help with workload summaries, priorities, bottlenecks, and assignments. ` +
	`Try "assign PN2-7 to Varad" or "whom should I assign PN2-7?"`

// ProposeOrExecute runs one turn of the assignment protocol.
//
// Branch order matters and mirrors the protocol:
//  1. An explicit "... to NAME" always builds a fresh decision, overriding
//     anything echoed; it executes immediately when the same message also
//     opens with a confirmation token.
//  2. A confirmation with a verifiable echoed decision redeems it: the
//     issue and assignee are re-validated against live data and the
//     external write runs at most once.
//  3. A bare confirmation without an echoed decision falls back to the
//     prior turn's text to recover who was meant.
//  4. An assignment request without an assignee runs the allocator and
//     proposes its best candidate — no write yet.
//  5. Anything else goes to the optional responder.
func (c *Conversation) ProposeOrExecute(ctx context.Context, message, priorMessage, pendingToken string) (TurnResult, error) {
	confirmed := IsConfirmation(message)
	intent, hasIntent := DetectAssignIntent(message)

	if hasIntent && intent.Assignee != "" {
		return c.proposeExplicit(ctx, intent, confirmed)
	}

	if pendingToken != "" {
		decision, err := c.codec.Decode(pendingToken)
		if err != nil {
			c.logger.Log("discarding unverifiable pending decision token")
			if confirmed {
				return TurnResult{
					Reply:   "I couldn't verify the pending assignment, so I did nothing. Please repeat the request.",
					Outcome: OutcomeNone,
				}, nil
			}
		} else if confirmed {
			return c.redeem(ctx, decision)
		}
	}

	if confirmed {
		if prior, ok := AssignmentFromText(priorMessage); ok && prior.Assignee != "" {
			return c.proposeExplicit(ctx, prior, true)
		}
		return TurnResult{Reply: "There's nothing pending to confirm.", Outcome: OutcomeNone}, nil
	}

	if hasIntent {
		return c.recommend(ctx, intent.IssueKey)
	}

	if c.responder != nil {
		reply, err := c.responder.Reply(ctx, message)
		if err == nil {
			return TurnResult{Reply: reply, Outcome: OutcomeNone}, nil
		}
		c.logger.Log("responder error: %v", err)
	}
	return TurnResult{Reply: helpReply, Outcome: OutcomeNone}, nil
}

// proposeExplicit handles a message that names its assignee. Explicit
// names override any prior inference, so the decision is always rebuilt
// from scratch. When confirmed is set the write happens in the same turn.
func (c *Conversation) proposeExplicit(ctx context.Context, intent AssignIntent, confirmed bool) (TurnResult, error) {
	issues, err := c.tracker.ListIssues(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list issues: %w", err)
	}
	team, err := c.tracker.ListTeamMembers(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list team members: %w", err)
	}

	issue, found := findIssue(issues, intent.IssueKey)
	if !found {
		return TurnResult{
			Reply:   fmt.Sprintf("I can't find issue %s in the tracker.", intent.IssueKey),
			Outcome: OutcomeNone,
		}, nil
	}

	resolution := ResolveMember(intent.Assignee, team)
	decision := models.PendingDecision{
		ID:         uuid.NewString(),
		IssueKey:   issue.Key,
		Confidence: models.ConfidenceHigh,
		Rationale:  "explicitly requested",
		CreatedAt:  time.Now().UTC(),
	}

	degraded := false
	switch {
	case resolution.Found:
		decision.AssigneeID = resolution.Member.ID
		decision.AssigneeName = resolution.Member.Name
		if resolution.Ambiguous {
			c.logger.Log("ambiguous assignee %q resolved to first match %s", intent.Assignee, resolution.Member.ID)
		}
	default:
		// Last resort: forward the literal text as the identifier, but
		// flag the degraded resolution instead of silently coercing.
		degraded = true
		decision.AssigneeID = intent.Assignee
		decision.AssigneeName = intent.Assignee
		decision.Confidence = models.ConfidenceLow
		decision.Rationale = "assignee not found on the roster"
		c.logger.Log("degraded resolution: %q matched no team member", intent.Assignee)
	}

	if confirmed {
		result, err := c.execute(ctx, issue, decision)
		result.DegradedResolution = degraded
		return result, err
	}

	token, err := c.codec.Encode(decision)
	if err != nil {
		return TurnResult{}, fmt.Errorf("encode decision: %w", err)
	}

	reply := fmt.Sprintf("Assign %s to %s? Reply \"yes\" to confirm.", issue.Key, decision.AssigneeName)
	if degraded {
		reply = fmt.Sprintf("I couldn't find %q on the team roster. Reply \"yes\" to assign %s to %q anyway.",
			intent.Assignee, issue.Key, intent.Assignee)
	}

	return TurnResult{
		Reply:              reply,
		Decision:           &decision,
		Token:              token,
		Outcome:            OutcomeNone,
		DegradedResolution: degraded,
	}, nil
}

// redeem consumes an echoed decision: the issue and assignee are
// re-validated against live snapshots before the write, so a stale or
// already-applied decision degrades to a safe no-op.
func (c *Conversation) redeem(ctx context.Context, decision models.PendingDecision) (TurnResult, error) {
	issues, err := c.tracker.ListIssues(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list issues: %w", err)
	}
	team, err := c.tracker.ListTeamMembers(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list team members: %w", err)
	}

	issue, found := findIssue(issues, decision.IssueKey)
	if !found {
		return TurnResult{
			Reply:   fmt.Sprintf("Issue %s no longer exists in the tracker; nothing was assigned.", decision.IssueKey),
			Outcome: OutcomeNone,
		}, nil
	}

	// Re-resolve against the live roster. The proposed ID resolves
	// directly for roster members; the display name covers decisions
	// proposed before a roster change.
	resolution := ResolveMember(decision.AssigneeID, team)
	if !resolution.Found {
		resolution = ResolveMember(decision.AssigneeName, team)
	}

	degraded := false
	if resolution.Found {
		decision.AssigneeID = resolution.Member.ID
		decision.AssigneeName = resolution.Member.Name
	} else {
		degraded = true
		c.logger.Log("degraded resolution on redemption: %q not on roster", decision.AssigneeID)
	}

	result, err := c.execute(ctx, issue, decision)
	result.DegradedResolution = degraded
	return result, err
}

// execute performs the external write at most once. If the tracker
// already shows the proposed assignee, the write is skipped entirely —
// this is what makes redeeming the same decision twice safe.
func (c *Conversation) execute(ctx context.Context, issue models.Issue, decision models.PendingDecision) (TurnResult, error) {
	if issue.Assignee != nil && issue.Assignee.AccountID == decision.AssigneeID {
		c.recordAudit(ctx, decision, "noop", "already assigned")
		return TurnResult{
			Reply:   fmt.Sprintf("%s is already assigned to %s.", issue.Key, decision.AssigneeName),
			Outcome: OutcomeSuccess,
		}, nil
	}

	if err := c.tracker.Assign(ctx, issue.Key, decision.AssigneeID); err != nil {
		// Terminal failure state: report with the original error text,
		// never leave the conversation stuck on the proposal.
		c.logger.Log("assign %s -> %s failed: %v", issue.Key, decision.AssigneeID, err)
		c.recordAudit(ctx, decision, string(OutcomeFailure), err.Error())
		return TurnResult{
			Reply:    fmt.Sprintf("Assigning %s to %s failed: %v", issue.Key, decision.AssigneeName, err),
			Executed: true,
			Outcome:  OutcomeFailure,
		}, nil
	}

	c.recordAudit(ctx, decision, string(OutcomeSuccess), "")
	return TurnResult{
		Reply:    fmt.Sprintf("Done — %s is now assigned to %s.", issue.Key, decision.AssigneeName),
		Executed: true,
		Outcome:  OutcomeSuccess,
	}, nil
}

// recommend runs the allocator and packages its best candidate as a
// pending decision. No write happens on this turn.
func (c *Conversation) recommend(ctx context.Context, issueKey string) (TurnResult, error) {
	issues, err := c.tracker.ListIssues(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list issues: %w", err)
	}
	team, err := c.tracker.ListTeamMembers(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list team members: %w", err)
	}
	skills, err := c.tracker.ListSkills(ctx)
	if err != nil {
		return TurnResult{}, fmt.Errorf("list skills: %w", err)
	}

	issue, found := findIssue(issues, issueKey)
	if !found {
		return TurnResult{
			Reply:   fmt.Sprintf("I can't find issue %s in the tracker.", issueKey),
			Outcome: OutcomeNone,
		}, nil
	}

	allocation := engine.AllocateTask(issue, team, issues, skills)
	if allocation == nil {
		return TurnResult{
			Reply:   fmt.Sprintf("I couldn't derive a required skill set for %s, so no allocation is possible.", issue.Key),
			Outcome: OutcomeNone,
		}, nil
	}

	decision := models.PendingDecision{
		ID:           uuid.NewString(),
		IssueKey:     issue.Key,
		AssigneeID:   allocation.Assignee.ID,
		AssigneeName: allocation.Assignee.Name,
		Confidence:   models.ConfidenceTierFor(allocation.Confidence),
		Rationale:    allocation.Rationale,
		CreatedAt:    time.Now().UTC(),
	}

	token, err := c.codec.Encode(decision)
	if err != nil {
		return TurnResult{}, fmt.Errorf("encode decision: %w", err)
	}

	return TurnResult{
		Reply: fmt.Sprintf("I recommend assigning %s to %s (%s). Reply \"yes\" to confirm.",
			issue.Key, decision.AssigneeName, decision.Rationale),
		Decision: &decision,
		Token:    token,
		Outcome:  OutcomeNone,
	}, nil
}

func (c *Conversation) recordAudit(ctx context.Context, decision models.PendingDecision, outcome, detail string) {
	if c.audit == nil {
		return
	}
	if err := c.audit.RecordAssignment(ctx, decision.IssueKey, decision.AssigneeID, outcome, detail); err != nil {
		c.logger.Log("audit record failed: %v", err)
	}
}

func findIssue(issues []models.Issue, key string) (models.Issue, bool) {
	for _, issue := range issues {
		if issue.Key == key {
			return issue, true
		}
	}
	return models.Issue{}, false
}
