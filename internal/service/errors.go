// Copyright (c) 2025-2026 Animap Authors
// SPDX-License-Identifier: GPL-3.0-or-later

// Package service implements the translation pipeline: batch task
// creation, task execution against the translation provider, and the
// approval, publish-update and rollback engines that write live content.
package service

import "errors"

// Domain error kinds. Single-item operations surface these to the caller;
// batch operations fold per-item failures into result entries instead.
// Transport status mapping happens at the API boundary only.
var (
	// ErrValidation indicates malformed or ineligible input.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound indicates a missing task, entity or history record.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a stale updated_at precondition on
	// publish-update.
	ErrConflict = errors.New("conflicting concurrent update")

	// ErrContentIntegrity indicates content that would destroy live
	// data, such as an empty document tree.
	ErrContentIntegrity = errors.New("content integrity violation")

	// ErrProvider indicates the translation provider call failed.
	ErrProvider = errors.New("translation provider error")
)
