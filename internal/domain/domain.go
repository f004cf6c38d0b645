package domain

import (
	"github.com/chorepoints/chorepoints-backend/internal/domain/auth"
	"github.com/chorepoints/chorepoints-backend/internal/domain/chores"
	"github.com/chorepoints/chorepoints-backend/internal/domain/family"
	"github.com/chorepoints/chorepoints-backend/internal/domain/ledger"
)

type Parent = family.Parent
type Kid = family.Kid

type Task = chores.Task
type Reward = chores.Reward
type Redemption = chores.Redemption

type PointTransaction = ledger.PointTransaction

type Role = auth.Role
type Principal = auth.Principal

const (
	RoleParent = auth.RoleParent
	RoleKid    = auth.RoleKid

	TaskStatusPending  = chores.TaskStatusPending
	TaskStatusComplete = chores.TaskStatusComplete

	TransactionTypeEarn   = ledger.TransactionTypeEarn
	TransactionTypeSpend  = ledger.TransactionTypeSpend
	TransactionTypeAdjust = ledger.TransactionTypeAdjust
)
