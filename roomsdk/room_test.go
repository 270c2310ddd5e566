package roomsdk_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/hilthontt/chessrooms/internal/lobbytest"
	"github.com/hilthontt/chessrooms/roomsdk"
	"github.com/hilthontt/chessrooms/roomsdk/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T, opts ...option.RequestOption) (*roomsdk.Client, *lobbytest.Server) {
	t.Helper()
	srv := lobbytest.NewServer()
	t.Cleanup(srv.Close)

	opts = append([]option.RequestOption{option.WithBaseURL(srv.URL)}, opts...)
	return roomsdk.NewClient(opts...), srv
}

func TestRoomListKeepsServerOrder(t *testing.T) {
	client, srv := newClient(t)
	srv.Seed("first", "pw")
	srv.Seed("second", "pw")

	res, err := client.Room.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roomsdk.Room{{ID: 2, Name: "second"}, {ID: 1, Name: "first"}}, res.Rooms)

	again, err := client.Room.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, res.Rooms, again.Rooms)

	reqs := srv.Requests()
	require.Len(t, reqs, 2)
	assert.Equal(t, http.MethodGet, reqs[0].Method)
	assert.Equal(t, "/api/chess/rooms/", reqs[0].Path)
	assert.Equal(t, "application/json", reqs[0].Accept)
}

func TestRoomListEmpty(t *testing.T) {
	client, _ := newClient(t)

	res, err := client.Room.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, res.Rooms)
}

func TestRoomListAcceptsObjectKeyedDtos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"roomResponseDtos":{"0":{"id":4,"name":"d"},"1":{"id":3,"name":"c"}}}`))
	}))
	defer srv.Close()

	client := roomsdk.NewClient(option.WithBaseURL(srv.URL))
	res, err := client.Room.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roomsdk.Room{{ID: 4, Name: "d"}, {ID: 3, Name: "c"}}, res.Rooms)
}

func TestRoomListMalformedSuccessBody(t *testing.T) {
	client, srv := newClient(t)
	srv.FailNext(http.StatusOK, "text/html", "<html></html>")

	_, err := client.Room.List(context.Background())
	assert.ErrorIs(t, err, roomsdk.ErrMalformedResponse)
}

func TestRoomListServerError(t *testing.T) {
	client, srv := newClient(t)
	srv.FailNext(http.StatusServiceUnavailable, "application/json", `{"errorMessage":"database unavailable"}`)

	_, err := client.Room.List(context.Background())
	var apiErr *roomsdk.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
	assert.Equal(t, "database unavailable", apiErr.Error())
	assert.Equal(t, "database unavailable", roomsdk.Message(err))
}

func TestRoomNew(t *testing.T) {
	client, srv := newClient(t)

	res, err := client.Room.New(context.Background(), roomsdk.RoomNewParams{Name: "Room1", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.ID)
	assert.Equal(t, "Room1", res.Name)
	assert.Equal(t, "/api/chess/rooms/1", res.Location)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPost, reqs[0].Method)
	assert.Equal(t, "application/json;charset=utf-8", reqs[0].ContentType)
	assert.Equal(t, "application/json", reqs[0].Accept)
	assert.JSONEq(t, `{"name":"Room1","password":"secret"}`, reqs[0].Body)
}

func TestRoomNewIDFromBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":42}`))
	}))
	defer srv.Close()

	client := roomsdk.NewClient(option.WithBaseURL(srv.URL))
	res, err := client.Room.New(context.Background(), roomsdk.RoomNewParams{Name: "x", Password: "y"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), res.ID)
}

func TestRoomNewDuplicateName(t *testing.T) {
	client, srv := newClient(t)
	srv.Seed("Room1", "pw")

	_, err := client.Room.New(context.Background(), roomsdk.RoomNewParams{Name: "Room1", Password: "secret"})
	var apiErr *roomsdk.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, lobbytest.ErrDuplicateName.Error(), apiErr.ErrorMessage)
}

func TestLocalValidationSendsNothing(t *testing.T) {
	client, srv := newClient(t)
	ctx := context.Background()

	_, err := client.Room.New(ctx, roomsdk.RoomNewParams{Name: " ", Password: "secret"})
	assert.ErrorIs(t, err, roomsdk.ErrMissingName)

	_, err = client.Room.New(ctx, roomsdk.RoomNewParams{Name: "Room1"})
	assert.ErrorIs(t, err, roomsdk.ErrMissingPassword)

	_, err = client.Room.Update(ctx, 1, roomsdk.RoomUpdateParams{Password: "pw"})
	assert.ErrorIs(t, err, roomsdk.ErrMissingName)

	err = client.Room.End(ctx, 1, roomsdk.RoomEndParams{Password: "\t"})
	assert.ErrorIs(t, err, roomsdk.ErrMissingPassword)

	err = client.Room.Delete(ctx, 1, roomsdk.RoomDeleteParams{})
	assert.ErrorIs(t, err, roomsdk.ErrMissingPassword)

	err = client.Room.RenameLegacy(ctx, 1, roomsdk.RoomLegacyRenameParams{})
	assert.ErrorIs(t, err, roomsdk.ErrMissingName)

	_, err = client.Room.Get(ctx, 0)
	assert.ErrorIs(t, err, roomsdk.ErrMissingIDParameter)

	assert.Zero(t, srv.RequestCount())
}

func TestRoomGet(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room7", "pw")

	res, err := client.Room.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, res.ID)
	assert.Equal(t, "Room7", res.Name)
}

func TestRoomGetEndedRoom(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room7", "pw")
	srv.End(id)

	_, err := client.Room.Get(context.Background(), id)
	var apiErr *roomsdk.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "room already ended", apiErr.ErrorMessage)
	assert.False(t, apiErr.IsTransport())
}

func TestRoomUpdate(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room1", "secret")

	room, err := client.Room.Update(context.Background(), id, roomsdk.RoomUpdateParams{Name: "Renamed", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, roomsdk.Room{ID: id, Name: "Renamed"}, *room)

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/api/chess/rooms/1", reqs[0].Path)

	_, err = client.Room.Update(context.Background(), id, roomsdk.RoomUpdateParams{Name: "Again", Password: "wrong"})
	assert.Equal(t, "wrong password", roomsdk.Message(err))
}

func TestRoomEnd(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room5", "secret")

	require.NoError(t, client.Room.End(context.Background(), id, roomsdk.RoomEndParams{Password: "secret"}))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, http.MethodPatch, reqs[0].Method)
	assert.Equal(t, "/api/chess/rooms/1/end", reqs[0].Path)
	assert.JSONEq(t, `{"password":"secret"}`, reqs[0].Body)

	room, _ := srv.Room(id)
	assert.True(t, room.Ended)
}

func TestRoomDeleteTreatsRedirectAsSuccess(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room1", "secret")

	require.NoError(t, client.Room.Delete(context.Background(), id, roomsdk.RoomDeleteParams{Password: "secret"}))

	reqs := srv.Requests()
	require.Len(t, reqs, 1, "the redirect must not be followed")
	assert.Equal(t, "/room/delete/", reqs[0].Path)
	assert.Equal(t, "application/x-www-form-urlencoded", reqs[0].ContentType)

	form, err := url.ParseQuery(reqs[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "1", form.Get("roomId"))
	assert.Equal(t, "secret", form.Get("password"))

	_, ok := srv.Room(id)
	assert.False(t, ok)
}

func TestRoomDeleteWrongPassword(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room1", "secret")

	err := client.Room.Delete(context.Background(), id, roomsdk.RoomDeleteParams{Password: "nope"})
	var apiErr *roomsdk.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)

	_, ok := srv.Room(id)
	assert.True(t, ok)
}

func TestRoomRenameLegacy(t *testing.T) {
	client, srv := newClient(t)
	id := srv.Seed("Room1", "secret")

	require.NoError(t, client.Room.RenameLegacy(context.Background(), id, roomsdk.RoomLegacyRenameParams{Name: "Other"}))

	reqs := srv.Requests()
	require.Len(t, reqs, 1)
	form, err := url.ParseQuery(reqs[0].Body)
	require.NoError(t, err)
	assert.Equal(t, "Other", form.Get("roomName"))
	assert.Equal(t, "1", form.Get("roomId"))

	room, _ := srv.Room(id)
	assert.Equal(t, "Other", room.Name)
}

func TestMalformedErrorBodyFallsBackToGenericMessage(t *testing.T) {
	for name, body := range map[string]string{
		"html":         "<h1>Internal Server Error</h1>",
		"empty":        "",
		"no field":     `{"message":"nope"}`,
		"non-string":   `{"errorMessage":42}`,
		"blank string": `{"errorMessage":"   "}`,
	} {
		t.Run(name, func(t *testing.T) {
			client, srv := newClient(t)
			srv.FailNext(http.StatusInternalServerError, "text/html", body)

			_, err := client.Room.Get(context.Background(), 1)
			var apiErr *roomsdk.Error
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, "the room server rejected the request (500 Internal Server Error)", apiErr.ErrorMessage)
			assert.Equal(t, body, apiErr.RawJSON)
		})
	}
}

func TestTransportFailureConverges(t *testing.T) {
	srv := lobbytest.NewServer()
	base := srv.URL
	srv.Close()

	client := roomsdk.NewClient(option.WithBaseURL(base))
	err := client.Room.End(context.Background(), 1, roomsdk.RoomEndParams{Password: "pw"})

	var apiErr *roomsdk.Error
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsTransport())
	assert.Equal(t, "could not reach the room server", roomsdk.Message(err))
	assert.NotNil(t, errors.Unwrap(apiErr))
}

func TestCanceledContext(t *testing.T) {
	client, srv := newClient(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Room.List(ctx)
	var apiErr *roomsdk.Error
	require.ErrorAs(t, err, &apiErr)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, srv.RequestCount())
}

func TestBaseURLWithPathPrefix(t *testing.T) {
	h := lobbytest.NewHandler()
	mux := http.NewServeMux()
	mux.Handle("/chess/", http.StripPrefix("/chess", h))
	srv := httptest.NewServer(mux)
	defer srv.Close()
	h.Seed("Room1", "pw")

	client := roomsdk.NewClient(option.WithBaseURL(srv.URL + "/chess"))
	res, err := client.Room.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, res.Rooms, 1)
}

func TestClientBaseURLFromEnvironment(t *testing.T) {
	srv := lobbytest.NewServer()
	defer srv.Close()
	srv.Seed("env", "pw")
	t.Setenv(roomsdk.EnvBaseURL, srv.URL)

	res, err := roomsdk.NewClient().Room.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []roomsdk.Room{{ID: 1, Name: "env"}}, res.Rooms)
}
