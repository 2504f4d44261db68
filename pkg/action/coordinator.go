/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package action runs user-triggered backend operations one at a time and
// reconciles their results with the live view.
package action

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/carverauto/signalsentry/pkg/logger"
	"github.com/carverauto/signalsentry/pkg/models"
)

var (
	// ErrActionPending is returned when another action is still running.
	ErrActionPending = errors.New("another action is already in progress")

	errMissingLister = errors.New("incident lister is required")
	errMissingEngine = errors.New("engine is required")
	errMissingStatus = errors.New("status board is required")
)

// IncidentLister provides the authoritative active incident snapshot.
type IncidentLister interface {
	ActiveIncidents(ctx context.Context) ([]models.Incident, error)
}

// Engine is the part of the reconciliation engine the coordinator commits to.
type Engine interface {
	ReplaceActiveIncidents(list []models.Incident) bool
	RefreshServices(ctx context.Context, force bool) (bool, error)
}

// CoordinatorConfig wires a Coordinator.
type CoordinatorConfig struct {
	Lister          IncidentLister
	Engine          Engine
	Status          *StatusBoard
	Logger          logger.Logger
	OnPendingChange func(pending bool)
}

// Coordinator allows a single in-flight action per view.
type Coordinator struct {
	lister    IncidentLister
	engine    Engine
	status    *StatusBoard
	logger    logger.Logger
	onPending func(bool)

	pending atomic.Bool
}

func NewCoordinator(cfg CoordinatorConfig) (*Coordinator, error) {
	switch {
	case cfg.Lister == nil:
		return nil, errMissingLister
	case cfg.Engine == nil:
		return nil, errMissingEngine
	case cfg.Status == nil:
		return nil, errMissingStatus
	}

	log := cfg.Logger
	if log == nil {
		log = logger.NewTestLogger()
	}

	return &Coordinator{
		lister:    cfg.Lister,
		engine:    cfg.Engine,
		status:    cfg.Status,
		logger:    log,
		onPending: cfg.OnPendingChange,
	}, nil
}

// Pending reports whether an action is running.
func (c *Coordinator) Pending() bool {
	return c.pending.Load()
}

// Run executes a. It returns ErrActionPending without touching the backend
// when another action is running. After a successful call the active incident
// snapshot is reloaded and committed while services are force-refreshed. Any
// failure posts the action's failure message; the pending flag is always cleared.
func (c *Coordinator) Run(ctx context.Context, a Action) error {
	if !c.pending.CompareAndSwap(false, true) {
		return ErrActionPending
	}

	c.notifyPending(true)

	defer func() {
		c.pending.Store(false)
		c.notifyPending(false)
	}()

	log := c.logger.With().
		Str("action", a.Name).
		Str("run_id", uuid.NewString()).
		Logger()

	log.Debug().Msg("Action started")

	msg, err := a.Do(ctx)
	if err != nil {
		c.status.Post(a.Failure)
		log.Warn().Err(err).Msg("Action failed")

		return fmt.Errorf("%s: %w", a.Name, err)
	}

	c.status.Post(msg)

	if err := c.confirm(ctx, &log); err != nil {
		c.status.Post(a.Failure)
		log.Warn().Err(err).Msg("Action confirmation failed")

		return fmt.Errorf("%s: %w", a.Name, err)
	}

	log.Info().Str("status", msg).Msg("Action completed")

	return nil
}

func (c *Coordinator) confirm(ctx context.Context, log *zerolog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)

	var active []models.Incident

	g.Go(func() error {
		list, err := c.lister.ActiveIncidents(gctx)
		if err != nil {
			return fmt.Errorf("failed to reload active incidents: %w", err)
		}

		active = list

		return nil
	})

	g.Go(func() error {
		if _, err := c.engine.RefreshServices(gctx, true); err != nil && gctx.Err() == nil {
			log.Warn().Err(err).Msg("Service refresh after action failed")
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	c.engine.ReplaceActiveIncidents(active)

	return nil
}

func (c *Coordinator) notifyPending(pending bool) {
	if c.onPending != nil {
		c.onPending(pending)
	}
}
