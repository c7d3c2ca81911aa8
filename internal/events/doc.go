// Package events provides game lifecycle events and the interfaces to
// publish and consume them.
//
// The game engine emits a GameEvent after each persisted state change
// (session started, round resolved, scenario completed). Handlers subscribe
// through an EventEmitter without the engine knowing who consumes the
// events; the default consumer is an audit log handler.
//
// The primary components are:
// - GameEvent: An immutable record of a session state change
// - EventHandler: Interface for components that can handle events
// - EventEmitter: Interface for components that can emit events
package events
