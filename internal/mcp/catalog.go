package mcp

// The command catalog: the fixed, advertised set of browser commands and
// their input schemas. Defined once at process start and never mutated.

// commandDescriptor describes one advertised command.
type commandDescriptor struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func catalog() []commandDescriptor {
	return []commandDescriptor{
		{
			Name:        "navigate",
			Description: "Navigate the browser to a URL",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"url": map[string]any{
						"type":        "string",
						"description": "URL to navigate to",
					},
				},
				"required": []string{"url"},
			},
		},
		{
			Name:        "screenshot",
			Description: "Take a screenshot of the current page or a specific element, stored as a named artifact resource",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name": map[string]any{
						"type":        "string",
						"description": "Name for the screenshot artifact. Reusing a name replaces the stored image.",
					},
					"selector": map[string]any{
						"type":        "string",
						"description": "CSS selector for the element to capture. Captures the page when omitted.",
					},
					"width": map[string]any{
						"type":        "number",
						"description": "Viewport width in pixels. Default 800 when omitted; an explicit value (including 0) is used as given.",
					},
					"height": map[string]any{
						"type":        "number",
						"description": "Viewport height in pixels. Default 600 when omitted; an explicit value (including 0) is used as given.",
					},
				},
				"required": []string{"name"},
			},
		},
		{
			Name:        "click",
			Description: "Click an element on the page",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"selector": map[string]any{
						"type":        "string",
						"description": "CSS selector for the element to click",
					},
				},
				"required": []string{"selector"},
			},
		},
		{
			Name:        "fill",
			Description: "Fill out an input field",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"selector": map[string]any{
						"type":        "string",
						"description": "CSS selector for the input field",
					},
					"value": map[string]any{
						"type":        "string",
						"description": "Value to fill",
					},
				},
				"required": []string{"selector", "value"},
			},
		},
		{
			Name:        "select",
			Description: "Select an option in a SELECT element",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"selector": map[string]any{
						"type":        "string",
						"description": "CSS selector for the SELECT element",
					},
					"value": map[string]any{
						"type":        "string",
						"description": "Value of the option to select",
					},
				},
				"required": []string{"selector", "value"},
			},
		},
		{
			Name:        "hover",
			Description: "Hover over an element on the page",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"selector": map[string]any{
						"type":        "string",
						"description": "CSS selector for the element to hover",
					},
				},
				"required": []string{"selector"},
			},
		},
		{
			Name:        "evaluate",
			Description: "Execute JavaScript in the page context. Console output during execution is captured and returned alongside the result.",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"script": map[string]any{
						"type":        "string",
						"description": "JavaScript code to execute",
					},
				},
				"required": []string{"script"},
			},
		},
	}
}
