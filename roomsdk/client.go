package roomsdk

import (
	"os"

	"github.com/hilthontt/chessrooms/roomsdk/option"
)

// EnvBaseURL overrides the base URL of clients built by NewClient.
const EnvBaseURL = "CHESSROOMS_BASE_URL"

// Client talks to a chess room server. Options are applied to every
// request, before any per-call options.
type Client struct {
	Options []option.RequestOption
	Room    *RoomService
}

// DefaultClientOptions point at a local server, or at $CHESSROOMS_BASE_URL
// when it is set. NewClient puts them ahead of the caller's options.
func DefaultClientOptions() []option.RequestOption {
	opts := []option.RequestOption{option.WithEnvironmentLocal()}
	if base, ok := os.LookupEnv(EnvBaseURL); ok && base != "" {
		opts = append(opts, option.WithBaseURL(base))
	}
	return opts
}

func NewClient(opts ...option.RequestOption) *Client {
	all := make([]option.RequestOption, 0, len(opts)+2)
	all = append(all, DefaultClientOptions()...)
	all = append(all, opts...)
	return &Client{Options: all, Room: NewRoomService(all...)}
}
