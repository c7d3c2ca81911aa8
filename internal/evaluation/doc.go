// Package evaluation provides the contracts for the AI collaborators of the
// roleplay game engine: the Evaluator that scores a parent's response and the
// ResponderGenerator that produces the child's reply. It abstracts the details
// of LLM API integration (Gemini), allowing the engine to apply its pass/fail
// policy without coupling to specific external services.
package evaluation
