package logging

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/hilthontt/chessrooms/internal/lobbytest"
	"github.com/hilthontt/chessrooms/roomsdk"
	"github.com/hilthontt/chessrooms/roomsdk/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLogger(t *testing.T) {
	srv := lobbytest.NewServer()
	defer srv.Close()

	var buf bytes.Buffer
	cfg := NewDefaultConfig()
	cfg.Writer = &buf
	l := NewLogger(cfg)

	client := roomsdk.NewClient(
		option.WithBaseURL(srv.URL),
		option.WithRequestID(),
		option.WithMiddleware(RequestLogger(l)),
		option.WithRateLimit(2, time.Minute),
	)

	_, err := client.Room.New(context.Background(), roomsdk.RoomNewParams{Name: "Room1", Password: "hunter2"})
	require.NoError(t, err)
	_, err = client.Room.Get(context.Background(), 99)
	require.Error(t, err)
	_, err = client.Room.Get(context.Background(), 99)
	require.Error(t, err)
	_, err = client.Room.Get(context.Background(), 99)
	require.ErrorIs(t, err, option.ErrRateLimited)

	records := decodeLines(t, &buf)
	require.Len(t, records, 4)

	assert.Equal(t, "info", records[0]["level"])
	assert.Equal(t, "POST", records[0]["Method"])
	assert.EqualValues(t, 201, records[0]["StatusCode"])
	assert.NotEmpty(t, records[0]["RequestID"])

	assert.Equal(t, "warn", records[1]["level"])
	assert.EqualValues(t, 404, records[1]["StatusCode"])

	assert.Equal(t, "RateLimiting", records[3]["SubCategory"])
	assert.NotContains(t, buf.String(), "hunter2")
}
