package walker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// WalkerPort defines the interface other modules use to invoke walkers.
type WalkerPort interface {
	// Invoke calls the walker service name with a JSON object of fields.
	// Walker failures come back in Reply.Error; the returned error is
	// reserved for transport failures.
	Invoke(ctx context.Context, name string, fields json.RawMessage) (*Reply, error)
}

// walkerAdapter wraps ServiceContainer for type-safe cross-module communication.
type walkerAdapter struct {
	container mono.ServiceContainer
}

// NewWalkerAdapter creates a new adapter for walker services.
// container is the ServiceContainer of the walker module received via SetDependencyServiceContainer.
func NewWalkerAdapter(container mono.ServiceContainer) WalkerPort {
	if container == nil {
		panic("walker adapter requires non-nil ServiceContainer")
	}
	return &walkerAdapter{container: container}
}

// Invoke calls the service of the named walker. An invocation ID stored with
// WithInvocationID is sent in the InvocationIDHeader.
func (a *walkerAdapter) Invoke(ctx context.Context, name string, fields json.RawMessage) (*Reply, error) {
	if len(bytes.TrimSpace(fields)) == 0 {
		fields = json.RawMessage("{}")
	}

	service := ServiceName(name)
	client, err := a.container.GetRequestReplyService(service)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s service: %w", service, err)
	}

	msg := &types.Msg{
		Data:   fields,
		Header: make(types.Header),
	}
	if id, ok := InvocationIDFrom(ctx); ok {
		msg.Header[InvocationIDHeader] = []string{id}
	}

	resp, err := client.CallMsg(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("%s service call failed: %w", service, err)
	}

	var reply Reply
	if err := json.Unmarshal(resp.Data, &reply); err != nil {
		return nil, fmt.Errorf("failed to parse %s response: %w", service, err)
	}
	return &reply, nil
}
