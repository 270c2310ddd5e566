package lobby

import (
	"context"
	"errors"

	"github.com/hilthontt/chessrooms/internal/logging"
	"github.com/hilthontt/chessrooms/roomsdk"
)

// LogObserver writes every transition to l. Failures are logged with the
// detailed error, which the user never sees.
func LogObserver(l logging.Logger) Observer {
	return ObserverFunc(func(_ context.Context, e Event) {
		extra := map[logging.ExtraKey]any{
			logging.Operation: string(e.Op),
			logging.FromState: e.From.String(),
			logging.ToState:   e.To.String(),
		}
		if e.RoomID > 0 {
			extra[logging.RoomID] = e.RoomID
		}

		switch e.To {
		case Failed:
			extra[logging.ErrorMessage] = detailed(e.Err)
			l.Warn(logging.Lobby, logging.Transition, "operation failed", extra)
		case Blocked:
			extra[logging.ErrorMessage] = detailed(e.Err)
			l.Info(logging.Validation, logging.Transition, "operation blocked", extra)
		default:
			l.Debug(logging.Lobby, logging.Transition, "state changed", extra)
		}
	})
}

func detailed(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *roomsdk.Error
	if errors.As(err, &apiErr) {
		return apiErr.DetailedError()
	}
	return err.Error()
}
