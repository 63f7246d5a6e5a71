package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"finman/internal/core"
	"finman/internal/storage"
)

// GoalService manages goals and their step checklists, and derives each
// goal's financial summary by replaying its linked transactions.
type GoalService struct {
	repo *storage.SQLiteRepository
}

func NewGoalService(repo *storage.SQLiteRepository) *GoalService {
	return &GoalService{repo: repo}
}

func (s *GoalService) CreateGoal(ctx context.Context, name string, budget *core.Money) (core.Goal, error) {
	if err := (core.Goal{Name: name, Budget: budget}).Validate(); err != nil {
		return core.Goal{}, err
	}

	goal, err := s.repo.CreateGoal(ctx, name, budget)
	if err != nil {
		return core.Goal{}, err
	}

	slog.InfoContext(ctx, "Goal created", "goal_id", goal.ID, "name", goal.Name)
	return goal, nil
}

// GetGoalDetails fetches a goal with its ordered steps and a financial
// summary computed from the ledger at query time. The summary is never
// cached, so it is always consistent with the transactions on record.
func (s *GoalService) GetGoalDetails(ctx context.Context, goalID int64) (core.GoalDetails, error) {
	goal, err := s.repo.GetGoal(ctx, goalID)
	if err != nil {
		return core.GoalDetails{}, err
	}

	steps, err := s.repo.ListStepsByGoal(ctx, goalID)
	if err != nil {
		return core.GoalDetails{}, err
	}

	transactions, err := s.repo.ListTransactionsByGoal(ctx, goalID)
	if err != nil {
		return core.GoalDetails{}, err
	}

	return core.GoalDetails{
		Goal:    goal,
		Steps:   steps,
		Summary: core.SummarizeGoal(goal, transactions),
	}, nil
}

// ListGoals returns all goals ordered by creation time.
func (s *GoalService) ListGoals(ctx context.Context) ([]core.Goal, error) {
	return s.repo.ListGoals(ctx)
}

// MarkGoalComplete sets the goal's status to Completed. Whether the
// budget was met is not checked: completion is a user decision.
func (s *GoalService) MarkGoalComplete(ctx context.Context, goalID int64) (core.Goal, error) {
	status := core.GoalCompleted
	goal, err := s.repo.UpdateGoalFields(ctx, goalID, nil, nil, &status)
	if err != nil {
		return core.Goal{}, err
	}

	slog.InfoContext(ctx, "Goal marked complete", "goal_id", goalID)
	return goal, nil
}

// UpdateGoalDetails patches only the supplied fields. An empty name
// leaves the name unchanged; a nil budget leaves the budget unchanged.
// There is no way to clear a budget through this call.
func (s *GoalService) UpdateGoalDetails(ctx context.Context, goalID int64, newName string, newBudget *core.Money) (core.Goal, error) {
	var name *string
	if newName != "" {
		name = &newName
	}
	if newBudget != nil && newBudget.Cents < 0 {
		return core.Goal{}, core.ErrInvalidAmount
	}
	return s.repo.UpdateGoalFields(ctx, goalID, name, newBudget, nil)
}

// AddStepToGoal appends a step to a goal's checklist. Descriptions must
// be unique within the goal, compared case-insensitively; the same
// description on a different goal is fine.
func (s *GoalService) AddStepToGoal(ctx context.Context, goalID int64, description string) (core.Step, error) {
	if strings.TrimSpace(description) == "" {
		return core.Step{}, core.ErrEmptyDescription
	}

	if _, err := s.repo.GetGoal(ctx, goalID); err != nil {
		return core.Step{}, err
	}

	existing, err := s.repo.ListStepsByGoal(ctx, goalID)
	if err != nil {
		return core.Step{}, err
	}
	for _, step := range existing {
		if strings.EqualFold(step.Description, description) {
			return core.Step{}, fmt.Errorf("step %q already exists for goal %d: %w",
				description, goalID, core.ErrDuplicateStep)
		}
	}

	return s.repo.CreateStep(ctx, goalID, description)
}

// MarkStepCompleted sets a step's status to Completed.
func (s *GoalService) MarkStepCompleted(ctx context.Context, stepID int64) error {
	return s.repo.SetStepStatus(ctx, stepID, core.StepCompleted)
}
