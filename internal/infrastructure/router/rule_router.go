package router

import (
	"sync"

	"tago-service/internal/usecase"
	"tago-service/pkg/logger"
)

// RuleRouter keeps the reminder rules in registration order
type RuleRouter struct {
	mu     sync.RWMutex
	rules  []usecase.ReminderRule
	logger logger.Logger
}

// NewRuleRouter creates a new rule router
func NewRuleRouter(logger logger.Logger) *RuleRouter {
	return &RuleRouter{
		rules:  make([]usecase.ReminderRule, 0),
		logger: logger,
	}
}

// Register adds a rule evaluated after those already registered
func (r *RuleRouter) Register(rule usecase.ReminderRule) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule)
	r.logger.Info("Registered reminder rule", "rule", rule.Name())
}

// Rules returns a snapshot of the registered rules
func (r *RuleRouter) Rules() []usecase.ReminderRule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]usecase.ReminderRule(nil), r.rules...)
}
