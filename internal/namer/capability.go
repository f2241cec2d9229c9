package namer

import "sort"

// Capabilities is the static map of which provider/model pairs accept
// vision (page-image) uploads. It is populated at startup and read-only
// afterward; unknown pairs default to false so an unsupported upload is
// never attempted.
type Capabilities struct {
	vision map[string]map[string]bool
}

// DefaultCapabilities returns the built-in registry covering the models each
// provider documents as accepting inline PDF/image input.
func DefaultCapabilities() *Capabilities {
	return &Capabilities{
		vision: map[string]map[string]bool{
			"claude": {
				"claude-opus-4-20250514":     true,
				"claude-sonnet-4-20250514":   true,
				"claude-3-7-sonnet-20250219": true,
				"claude-3-5-sonnet-20241022": true,
			},
			"openai": {
				"o3":          true,
				"gpt-4o":      true,
				"gpt-4o-mini": true,
			},
			"gemini": {
				"gemini-2.5-pro":        true,
				"gemini-2.5-flash":      true,
				"gemini-2.5-flash-lite": true,
			},
			"xai": {
				"grok-4-0709":      true,
				"grok-vision-beta": true,
			},
		},
	}
}

// Extend merges configured overrides into the registry. Meant to be called
// during startup only.
func (c *Capabilities) Extend(provider string, models map[string]bool) {
	if len(models) == 0 {
		return
	}
	if c.vision[provider] == nil {
		c.vision[provider] = map[string]bool{}
	}
	for model, ok := range models {
		c.vision[provider][model] = ok
	}
}

// SupportsVision reports whether the provider/model pair accepts page
// uploads. Unknown pairs return false.
func (c *Capabilities) SupportsVision(provider, model string) bool {
	return c.vision[provider][model]
}

// VisionModels returns the vision-capable models for a provider, sorted.
func (c *Capabilities) VisionModels(provider string) []string {
	var models []string
	for model, ok := range c.vision[provider] {
		if ok {
			models = append(models, model)
		}
	}
	sort.Strings(models)
	return models
}
