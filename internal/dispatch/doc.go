// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package dispatch provides outbound dispatcher implementations.
//
// The composition engine terminates every send or edit in a
// store.Dispatcher. Two implementations live here:
//
//   - AMQPDispatcher: publishes actions as JSON events to a RabbitMQ topic
//     exchange, for deployments where a bridge process relays them to the
//     messaging backend
//   - LogDispatcher: records actions locally; the offline default
package dispatch
