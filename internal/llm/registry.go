package llm

import "sort"

// Provider identifies a hosted completion provider
type Provider string

const (
	ProviderOpenAI   Provider = "openai"
	ProviderDeepSeek Provider = "deepseek"
)

// DefaultModel is used when the client names no model or an unknown one.
const DefaultModel = "deepseek-chat"

// Binding ties a selectable model name to the provider serving it
type Binding struct {
	Provider Provider
	Model    string
}

// registry is the fixed table of selectable models. Adding a model means
// adding a row here, nothing is resolved dynamically.
var registry = map[string]Binding{
	"gpt-4o":            {Provider: ProviderOpenAI, Model: "gpt-4o"},
	"gpt-4o-mini":       {Provider: ProviderOpenAI, Model: "gpt-4o-mini"},
	"deepseek-chat":     {Provider: ProviderDeepSeek, Model: "deepseek-chat"},
	"deepseek-reasoner": {Provider: ProviderDeepSeek, Model: "deepseek-reasoner"},
}

// Resolve maps a model name to its provider binding. Unrecognized names
// fall back to the default model.
func Resolve(name string) Binding {
	if binding, ok := registry[name]; ok {
		return binding
	}
	return registry[DefaultModel]
}

// Models returns the selectable model names in stable order
func Models() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
