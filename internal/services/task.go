package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chorepoints/chorepoints-backend/internal/data/repos"
	types "github.com/chorepoints/chorepoints-backend/internal/domain"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/apierr"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/dbctx"
	"github.com/chorepoints/chorepoints-backend/internal/pkg/logger"
)

type CreateTaskInput struct {
	Title  string
	Points int
	KidID  uuid.UUID
}

type TaskService interface {
	CreateTask(ctx context.Context, principal types.Principal, in CreateTaskInput) (*types.Task, error)
	ListTasks(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) ([]*types.Task, error)
	// CompleteTask flips a pending task to complete and awards its points
	// through the ledger, atomically. Completing an already-complete task
	// returns it unchanged with no second award.
	CompleteTask(ctx context.Context, principal types.Principal, taskID uuid.UUID, requestedKidID *uuid.UUID) (*types.Task, error)
	// DeleteTask removes the task row but keeps dependent ledger entries,
	// nulling their task reference.
	DeleteTask(ctx context.Context, principal types.Principal, taskID uuid.UUID) error
}

type taskService struct {
	db       *gorm.DB
	log      *logger.Logger
	access   AccessService
	taskRepo repos.TaskRepo
	txRepo   repos.PointTransactionRepo
	ledger   LedgerService
}

func NewTaskService(
	db *gorm.DB,
	log *logger.Logger,
	access AccessService,
	taskRepo repos.TaskRepo,
	txRepo repos.PointTransactionRepo,
	ledger LedgerService,
) TaskService {
	serviceLog := log.With("service", "TaskService")
	return &taskService{
		db:       db,
		log:      serviceLog,
		access:   access,
		taskRepo: taskRepo,
		txRepo:   txRepo,
		ledger:   ledger,
	}
}

func (ts *taskService) CreateTask(ctx context.Context, principal types.Principal, in CreateTaskInput) (*types.Task, error) {
	if err := ts.access.RequireRole(principal, types.RoleParent); err != nil {
		return nil, err
	}
	if in.Title == "" {
		return nil, apierr.BadRequest(errors.New("title is required"))
	}
	if in.Points < 0 {
		return nil, apierr.BadRequest(errors.New("points must be zero or positive"))
	}

	kidID, err := ts.access.ResolveEffectiveKid(ctx, principal, &in.KidID)
	if err != nil {
		return nil, err
	}

	task := &types.Task{
		ID:       uuid.New(),
		ParentID: principal.ParentID,
		KidID:    kidID,
		Title:    in.Title,
		Points:   in.Points,
		Status:   types.TaskStatusPending,
	}
	if _, err := ts.taskRepo.Create(dbctx.Context{Ctx: ctx}, []*types.Task{task}); err != nil {
		return nil, apierr.Internal(fmt.Errorf("create task: %w", err))
	}

	return task, nil
}

func (ts *taskService) ListTasks(ctx context.Context, principal types.Principal, requestedKidID *uuid.UUID) ([]*types.Task, error) {
	kidID, err := ts.access.ResolveEffectiveKid(ctx, principal, requestedKidID)
	if err != nil {
		return nil, err
	}

	tasks, err := ts.taskRepo.GetByKidIDs(dbctx.Context{Ctx: ctx}, []uuid.UUID{kidID})
	if err != nil {
		return nil, apierr.Internal(fmt.Errorf("list tasks: %w", err))
	}
	return tasks, nil
}

func (ts *taskService) CompleteTask(ctx context.Context, principal types.Principal, taskID uuid.UUID, requestedKidID *uuid.UUID) (*types.Task, error) {
	kidID, err := ts.access.ResolveEffectiveKid(ctx, principal, requestedKidID)
	if err != nil {
		return nil, err
	}

	var out *types.Task
	err = ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		tasks, err := ts.taskRepo.GetByIDs(dbc, []uuid.UUID{taskID})
		if err != nil {
			return apierr.Internal(fmt.Errorf("fetch task: %w", err))
		}
		// A task assigned to someone else's kid looks exactly like a task
		// that does not exist.
		if len(tasks) == 0 || tasks[0].KidID != kidID {
			return apierr.NotFound("task")
		}
		task := tasks[0]

		if task.Status == types.TaskStatusComplete {
			out = task
			return nil
		}

		now := time.Now().UTC()
		flipped, err := ts.taskRepo.MarkComplete(dbc, task.ID, now)
		if err != nil {
			return apierr.Internal(fmt.Errorf("mark complete: %w", err))
		}
		if !flipped {
			// Lost a race to a concurrent completion; no second award.
			reloaded, err := ts.taskRepo.GetByIDs(dbc, []uuid.UUID{task.ID})
			if err != nil || len(reloaded) == 0 {
				return apierr.Internal(fmt.Errorf("reload task: %w", err))
			}
			out = reloaded[0]
			return nil
		}

		if _, err := ts.ledger.Append(dbc, AppendInput{
			KidID:  kidID,
			Type:   types.TransactionTypeEarn,
			Delta:  task.Points,
			TaskID: &task.ID,
			Note:   "Completed task: " + task.Title,
		}); err != nil {
			return err
		}

		task.Status = types.TaskStatusComplete
		task.CompletedAt = &now
		task.UpdatedAt = now
		out = task
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (ts *taskService) DeleteTask(ctx context.Context, principal types.Principal, taskID uuid.UUID) error {
	if err := ts.access.RequireRole(principal, types.RoleParent); err != nil {
		return err
	}

	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}

		tasks, err := ts.taskRepo.GetByIDs(dbc, []uuid.UUID{taskID})
		if err != nil {
			return apierr.Internal(fmt.Errorf("fetch task: %w", err))
		}
		if len(tasks) == 0 || tasks[0].ParentID != principal.ParentID {
			return apierr.NotFound("task")
		}

		// Ledger rows outlive the task; only the reference is dropped.
		if err := ts.txRepo.ClearTaskRefs(dbc, taskID); err != nil {
			return apierr.Internal(fmt.Errorf("clear task refs: %w", err))
		}
		if err := ts.taskRepo.FullDeleteByIDs(dbc, []uuid.UUID{taskID}); err != nil {
			return apierr.Internal(fmt.Errorf("delete task: %w", err))
		}
		return nil
	})
}
