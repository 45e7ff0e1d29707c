package tools

// Argument extraction helpers. Model-produced JSON decodes numbers as
// float64 and leaves optional fields absent; these normalize both.

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func stringArgDefault(args map[string]any, key, fallback string) string {
	if s, ok := args[key].(string); ok && s != "" {
		return s
	}
	return fallback
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}

func boolArgDefault(args map[string]any, key string, fallback bool) bool {
	if b, ok := args[key].(bool); ok {
		return b
	}
	return fallback
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	}
	return fallback
}

func mapArg(args map[string]any, key string) map[string]any {
	m, _ := args[key].(map[string]any)
	return m
}

func sliceArg(args map[string]any, key string) []any {
	s, _ := args[key].([]any)
	return s
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
