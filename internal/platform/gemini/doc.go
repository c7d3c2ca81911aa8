// Package gemini implements the evaluation.Evaluator and
// evaluation.ResponderGenerator interfaces using Google's Gemini API.
// It owns prompt construction, response parsing, and transport-level retry;
// the game engine applies its scoring policy to the structured results.
package gemini
