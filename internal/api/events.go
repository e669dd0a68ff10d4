package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/movcat/internal/events"
)

// registerEventRoutes registers the Server-Sent Events stream for
// inspection and join activity.
func (s *Server) registerEventRoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Event Stream",
		Description: "Real-time inspection and join events via Server-Sent Events",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"inspect_done":  events.InspectDoneEvent{},
		"finding":       events.FindingEvent{},
		"join_started":  events.JoinStartedEvent{},
		"join_finished": events.JoinFinishedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		if s.eventBus == nil {
			return
		}

		eventCh := make(chan any, 64)
		unsubs := []func(){
			events.SubscribeToChannel[events.InspectDoneEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.FindingEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.JoinStartedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.JoinFinishedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, u := range unsubs {
				u()
			}
		}()

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}
