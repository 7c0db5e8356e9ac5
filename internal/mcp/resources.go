package mcp

import (
	"context"
	"fmt"
	"sync"

	"github.com/neboloop/webmcp/internal/logging"
	"github.com/neboloop/webmcp/internal/resources"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// resourceAdapter answers list/read queries against the registries and
// pushes change notifications toward subscribers. Listing is handled by the
// go-sdk from the registered resource set; registration happens here, at
// startup for the logs singleton and on first store for each artifact.
type resourceAdapter struct {
	mu sync.Mutex

	server *mcp.Server
	logs   *resources.LogBuffer
	store  *resources.ArtifactStore

	registered map[string]bool
}

func newResourceAdapter(server *mcp.Server, logs *resources.LogBuffer, store *resources.ArtifactStore) *resourceAdapter {
	return &resourceAdapter{
		server:     server,
		logs:       logs,
		store:      store,
		registered: make(map[string]bool),
	}
}

// registerLogs registers the singleton console log resource. The logsFirst
// middleware keeps it at the head of listings.
func (a *resourceAdapter) registerLogs() {
	a.server.AddResource(&mcp.Resource{
		URI:         resources.LogsURI,
		Name:        "Browser console logs",
		MIMEType:    "text/plain",
		Description: "All console messages captured from the browser session, in arrival order",
	}, a.readLogs)
}

// ArtifactStored registers the resource for a stored artifact name. The
// go-sdk sends notifications/resources/list_changed to connected clients on
// registration; re-storing an existing name only replaces the payload.
func (a *resourceAdapter) ArtifactStored(name string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.registered[name] {
		return
	}
	a.registered[name] = true

	a.server.AddResource(&mcp.Resource{
		URI:      resources.ArtifactURI(name),
		Name:     fmt.Sprintf("Screenshot: %s", name),
		MIMEType: "image/png",
	}, a.readArtifact)
}

// LogsUpdated notifies subscribers that the log resource changed content.
// Delivery is fire-and-forget: failures are logged and dropped.
func (a *resourceAdapter) LogsUpdated() {
	err := a.server.ResourceUpdated(context.Background(), &mcp.ResourceUpdatedNotificationParams{
		URI: resources.LogsURI,
	})
	if err != nil {
		logging.Debugf("[MCP] logs update notification dropped: %v", err)
	}
}

// logsFirst reorders resources/list replies so the console log resource
// stays at the head of the listing. Registered resources otherwise come
// back sorted by URI, which puts artifact:// entries ahead of logs://.
func logsFirst(next mcp.MethodHandler) mcp.MethodHandler {
	return func(ctx context.Context, method string, req mcp.Request) (mcp.Result, error) {
		res, err := next(ctx, method, req)
		if err != nil || method != "resources/list" {
			return res, err
		}
		list, ok := res.(*mcp.ListResourcesResult)
		if !ok {
			return res, nil
		}
		for i, r := range list.Resources {
			if r.URI == resources.LogsURI {
				if i > 0 {
					copy(list.Resources[1:i+1], list.Resources[:i])
					list.Resources[0] = r
				}
				break
			}
		}
		return list, nil
	}
}

// readLogs resolves the logs resource against current buffer state.
func (a *resourceAdapter) readLogs(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      resources.LogsURI,
			MIMEType: "text/plain",
			Text:     a.logs.Snapshot(),
		}},
	}, nil
}

// readArtifact resolves an artifact resource against current store state.
func (a *resourceAdapter) readArtifact(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	name, ok := resources.ArtifactName(req.Params.URI)
	if !ok {
		return nil, fmt.Errorf("resource not found: %s", req.Params.URI)
	}

	payload, ok := a.store.Get(name)
	if !ok {
		return nil, fmt.Errorf("resource not found: %s", req.Params.URI)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "image/png",
			Blob:     payload,
		}},
	}, nil
}
