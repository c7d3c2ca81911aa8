// Package api contains the HTTP handlers for the authentication and roleplay
// game endpoints, along with the mapping from service errors to status codes.
// Handlers exchange plain serializable request/response models; all game
// logic lives in the service layer.
package api
