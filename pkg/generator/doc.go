// Package generator is the entry point for producing mock data from
// templates.
//
// A Generator ties a template engine to a placeholder resolver and a
// locale manager. Every call renders with its own counter store, so
// increment keys always start from their initial value and concurrent
// calls never observe each other:
//
//	out, err := generator.Generate(map[string]any{
//		"list|2-4": []any{map[string]any{"id|+1": 1, "name": "@NAME"}},
//	})
//
// Generate reads the locale of its manager once per call; use
// GenerateWithLocale to pin a locale for one call without touching the
// shared manager.
package generator
