package trace

import (
	"context"
	"log"

	clc "github.com/cloudwego/eino-ext/callbacks/cozeloop"
	"github.com/cloudwego/eino/callbacks"
	"github.com/coze-dev/cozeloop-go"
)

// CloseFn flushes and closes the trace client.
type CloseFn func(ctx context.Context)

// Init registers CozeLoop tracing as a global eino callback handler, so
// every chat-model call (chart narration) and tool invocation is traced.
// With no workspace or token configured it is a no-op; the returned close
// func is always safe to call.
func Init(workspaceID, apiToken string) CloseFn {
	noop := func(ctx context.Context) {}

	if workspaceID == "" || apiToken == "" {
		log.Println("[trace] CozeLoop not configured, skipping initialization")
		return noop
	}

	client, err := cozeloop.NewClient(
		cozeloop.WithWorkspaceID(workspaceID),
		cozeloop.WithAPIToken(apiToken),
	)
	if err != nil {
		log.Printf("[trace] Failed to create CozeLoop client: %v", err)
		return noop
	}

	callbacks.AppendGlobalHandlers(clc.NewLoopHandler(client))
	log.Printf("[trace] CozeLoop initialized, workspace: %s", workspaceID)

	return client.Close
}
