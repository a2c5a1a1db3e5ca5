package domain

import "context"

// DispatchUseCase routes an inbound update to the matching command or callback flow
type DispatchUseCase interface {
	// HandleUpdate processes one update. Provider failures are logged or
	// relayed to the chat; they do not abort processing.
	HandleUpdate(ctx context.Context, update Update)
}
