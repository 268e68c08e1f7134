// Package model contains the shared interfaces and data structures.
//
// # Criteria for adding a type to this package
//
// This package should contain two types:
//
// 1. important interfaces that are shared by several packages
// within the codebase, with the objective of separating unrelated
// pieces of code and making unit testing easier;
//
// 2. important pieces of data that are shared across different
// packages (e.g., the representation of a Cycle).
//
// In general, this package should not contain logic, unless
// this logic is strictly related to data structures and we
// cannot implement this logic elsewhere.
//
// # Content of this package
//
// - arm.go: the campaign arm and its strategy kinds;
//
// - artifacts.go: interfaces for persisting per-cycle artifacts
// and per-arm ledgers;
//
// - cycle.go: the representation of a single cycle;
//
// - http.go: the HTTP client interface;
//
// - job.go: jobs, job statuses and the platform interfaces;
//
// - keyvaluestore.go: generic definition of a key-value store;
//
// - logger.go: generic definition of an apex/log compatible logger;
//
// - prefix.go: prefix groups and the prefix universe;
//
// - strategy.go: the selection strategy contract.
package model
