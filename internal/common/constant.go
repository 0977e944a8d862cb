// Package common contains shared constants and sentinel errors used across
// deedbridge components.
package common

import "time"

// BridgeName identifies the mediator in discovery replies.
const BridgeName = "deedbridge"

// BridgeVersion is reported in discovery replies so pages can feature-detect.
const BridgeVersion = "1.2.0"

// ApprovalDurationDays is the fixed trust-grant window. The window is an
// operator policy; callers cannot extend it.
const ApprovalDurationDays = 60

// ApprovalPromptTimeout bounds how long a consent prompt waits for a decision.
const ApprovalPromptTimeout = 30 * time.Second

// RouteTTL is how long a pending-response route may stay unresolved before
// the sweeper discards it.
const RouteTTL = 5 * time.Minute

// RouteSweepInterval is how often the route sweeper runs.
const RouteSweepInterval = 60 * time.Second
