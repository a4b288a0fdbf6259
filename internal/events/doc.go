// Package events provides types and interfaces for an event-driven architecture.
//
// Delivery layers emit one GenerationEvent per finished candy generation,
// successful or not. Handlers such as the audit logger and the metrics
// recorder subscribe without the emitter knowing about them.
//
// The primary components are:
// - GenerationEvent: the outcome of a single generation
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
