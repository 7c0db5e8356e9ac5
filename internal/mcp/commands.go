package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/neboloop/webmcp/internal/browser"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func (s *Server) cmdNavigate(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	var input struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.URL == "" {
		return nil, fmt.Errorf("url is required")
	}

	if err := page.Navigate(ctx, input.URL); err != nil {
		return nil, err
	}

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Navigated to %s", input.URL)},
	}, nil
}

func (s *Server) cmdScreenshot(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	// Width and height are pointers: only an absent field falls back to the
	// default. An explicit zero is passed to the driver as given.
	var input struct {
		Name     string `json:"name"`
		Selector string `json:"selector"`
		Width    *int   `json:"width"`
		Height   *int   `json:"height"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Name == "" {
		return nil, fmt.Errorf("name is required")
	}

	width := browser.DefaultViewportWidth
	if input.Width != nil {
		width = *input.Width
	}
	height := browser.DefaultViewportHeight
	if input.Height != nil {
		height = *input.Height
	}

	if err := page.SetViewport(width, height); err != nil {
		return nil, err
	}

	// Full page without a selector, single element with one.
	data, err := page.Screenshot(ctx, browser.ScreenshotOptions{
		Selector: input.Selector,
		FullPage: input.Selector == "",
	})
	if err != nil {
		return nil, err
	}

	s.store.Put(input.Name, data)
	s.adapter.ArtifactStored(input.Name)

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Screenshot %q taken at %dx%d", input.Name, width, height)},
		&mcp.ImageContent{Data: data, MIMEType: "image/png"},
	}, nil
}

func (s *Server) cmdClick(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	selector, err := selectorInput(args)
	if err != nil {
		return nil, err
	}

	if err := page.Click(ctx, selector); err != nil {
		return nil, err
	}

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Clicked %s", selector)},
	}, nil
}

func (s *Server) cmdFill(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	selector, value, err := selectorValueInput(args)
	if err != nil {
		return nil, err
	}

	if err := page.Fill(ctx, selector, value); err != nil {
		return nil, err
	}

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Filled %s with: %s", selector, value)},
	}, nil
}

func (s *Server) cmdSelect(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	selector, value, err := selectorValueInput(args)
	if err != nil {
		return nil, err
	}

	if err := page.SelectOption(ctx, selector, value); err != nil {
		return nil, err
	}

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Selected %s in %s", value, selector)},
	}, nil
}

func (s *Server) cmdHover(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	selector, err := selectorInput(args)
	if err != nil {
		return nil, err
	}

	if err := page.Hover(ctx, selector); err != nil {
		return nil, err
	}

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Hovered over %s", selector)},
	}, nil
}

// evalTemplate wraps a script so console output during execution is
// captured and the original console is restored afterwards, even when the
// script throws. The persistent console listener stays untouched for page
// activity outside the call.
const evalTemplate = `(() => {
	const levels = ["log", "info", "warn", "error"];
	const logs = [];
	const original = {};
	for (const level of levels) {
		original[level] = console[level];
		console[level] = (...args) => logs.push("[" + level + "] " + args.map(String).join(" "));
	}
	let value = null;
	let error = null;
	try {
		value = eval(%s);
		if (value === undefined) {
			value = null;
		}
	} catch (e) {
		error = String(e && e.message ? e.message : e);
	} finally {
		for (const level of levels) {
			console[level] = original[level];
		}
	}
	return { value: value, error: error, logs: logs };
})()`

func (s *Server) cmdEvaluate(ctx context.Context, page browser.Page, args json.RawMessage) ([]mcp.Content, error) {
	var input struct {
		Script string `json:"script"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	if input.Script == "" {
		return nil, fmt.Errorf("script is required")
	}

	// json.Marshal produces a valid JS string literal for eval.
	encoded, err := json.Marshal(input.Script)
	if err != nil {
		return nil, fmt.Errorf("invalid script: %w", err)
	}

	raw, err := page.Evaluate(ctx, fmt.Sprintf(evalTemplate, encoded))
	if err != nil {
		return nil, err
	}

	value, scriptErr, logs := parseEvalResult(raw)
	consoleText := "<no output>"
	if len(logs) > 0 {
		consoleText = strings.Join(logs, "\n")
	}

	if scriptErr != "" {
		return nil, fmt.Errorf("script error: %s\n\nConsole output:\n%s", scriptErr, consoleText)
	}

	return []mcp.Content{
		&mcp.TextContent{Text: fmt.Sprintf("Execution result:\n%s\n\nConsole output:\n%s", formatEvalValue(value), consoleText)},
	}, nil
}

// parseEvalResult unpacks the {value, error, logs} object produced by
// evalTemplate. A result in any other shape is treated as the value itself.
func parseEvalResult(raw any) (value any, scriptErr string, logs []string) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return raw, "", nil
	}

	value = obj["value"]
	if e, ok := obj["error"].(string); ok {
		scriptErr = e
	}
	if list, ok := obj["logs"].([]any); ok {
		for _, item := range list {
			if line, ok := item.(string); ok {
				logs = append(logs, line)
			}
		}
	}
	return value, scriptErr, logs
}

func formatEvalValue(value any) string {
	if value == nil {
		return "undefined"
	}
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", value)
	}
	return string(data)
}

func selectorInput(args json.RawMessage) (string, error) {
	var input struct {
		Selector string `json:"selector"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", fmt.Errorf("invalid input: %w", err)
	}
	if input.Selector == "" {
		return "", fmt.Errorf("selector is required")
	}
	return input.Selector, nil
}

func selectorValueInput(args json.RawMessage) (string, string, error) {
	var input struct {
		Selector string `json:"selector"`
		Value    string `json:"value"`
	}
	if err := json.Unmarshal(args, &input); err != nil {
		return "", "", fmt.Errorf("invalid input: %w", err)
	}
	if input.Selector == "" {
		return "", "", fmt.Errorf("selector is required")
	}
	return input.Selector, input.Value, nil
}
