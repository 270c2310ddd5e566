// Package lobby implements the room lifecycle a player drives from the
// lobby: listing rooms, creating, joining, renaming, ending and deleting
// them. Every mutation is gated on its inputs locally, sent once, and
// followed by a full re-fetch of the room list on success. Failures are
// surfaced to the user and leave the view untouched.
package lobby

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"github.com/hilthontt/chessrooms/roomsdk"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultGamePath      = "/game.html"
	DefaultMaxNameLength = 64

	tracerName = "github.com/hilthontt/chessrooms/internal/lobby"
)

var ErrNameTooLong = errors.New("room name is too long")

type Client struct {
	rooms     Rooms
	prompter  Prompter
	notifier  Notifier
	renderer  Renderer
	navigator Navigator
	observer  Observer
	tracer    trace.Tracer

	gameURL       *url.URL
	locks         *roomLocks
	serialize     bool
	maxNameLength int
}

type Option func(*Client)

func WithPrompter(p Prompter) Option {
	return func(c *Client) { c.prompter = p }
}

func WithNotifier(n Notifier) Option {
	return func(c *Client) { c.notifier = n }
}

func WithRenderer(r Renderer) Option {
	return func(c *Client) { c.renderer = r }
}

func WithNavigator(n Navigator) Option {
	return func(c *Client) { c.navigator = n }
}

func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) {
		if tp != nil {
			c.tracer = tp.Tracer(tracerName)
		}
	}
}

// WithGameURL sets where EnterRoom navigates to. The room id is added as
// the "id" query parameter.
func WithGameURL(u *url.URL) Option {
	return func(c *Client) {
		if u != nil {
			c.gameURL = u
		}
	}
}

// WithSerializedMutations controls whether mutations on the same room wait
// for each other. It is on by default.
func WithSerializedMutations(on bool) Option {
	return func(c *Client) { c.serialize = on }
}

// WithMaxNameLength rejects longer names before they are sent. Zero
// disables the check.
func WithMaxNameLength(n int) Option {
	return func(c *Client) { c.maxNameLength = n }
}

func New(rooms Rooms, opts ...Option) *Client {
	c := &Client{
		rooms:         rooms,
		prompter:      cancelAll,
		notifier:      discardMsgs,
		renderer:      renderNone,
		navigator:     stayPut,
		observer:      observeNone,
		tracer:        otel.GetTracerProvider().Tracer(tracerName),
		gameURL:       &url.URL{Path: DefaultGamePath},
		locks:         newRoomLocks(),
		serialize:     true,
		maxNameLength: DefaultMaxNameLength,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListRooms fetches the rooms in server order. A failure is shown to the
// user and nothing is rendered.
func (c *Client) ListRooms(ctx context.Context) ([]roomsdk.Room, error) {
	ctx, span := c.tracer.Start(ctx, "lobby.ListRooms")
	defer span.End()

	res, err := c.rooms.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, roomsdk.Message(err))
		c.notifier.Notify(ctx, roomsdk.Message(err))
		return nil, err
	}

	span.SetAttributes(attribute.Int("lobby.rooms", len(res.Rooms)))
	return res.Rooms, nil
}

// Refresh re-fetches the room list and renders it.
func (c *Client) Refresh(ctx context.Context) error {
	rooms, err := c.ListRooms(ctx)
	if err != nil {
		return err
	}
	c.renderer.Render(ctx, rooms)
	return nil
}

// CreateRoom asks for a name and then a password and creates the room.
func (c *Client) CreateRoom(ctx context.Context) Outcome {
	var created int64
	out := c.mutate(ctx, OpCreate, 0, []input{c.nameInput("Room name"), passwordInput}, func(ctx context.Context, v values) error {
		res, err := c.rooms.New(ctx, roomsdk.RoomNewParams{Name: v.name, Password: v.password})
		if err == nil {
			created = res.ID
		}
		return err
	})
	if out.OK() {
		out.RoomID = created
	}
	return out
}

// EnterRoom checks that the room can still be joined and only then opens
// the game view for it.
func (c *Client) EnterRoom(ctx context.Context, id int64) Outcome {
	ctx, span := c.startOp(ctx, OpEnter, id)
	defer span.End()

	r := c.run(ctx, OpEnter, id)
	r.to(Validating, nil)
	if id <= 0 {
		return r.block(span, roomsdk.ErrMissingIDParameter)
	}

	r.to(Requesting, nil)
	if _, err := c.rooms.Get(ctx, id); err != nil {
		return r.fail(span, err)
	}

	c.navigator.Navigate(ctx, c.gameLocation(id))
	return r.done(span, Navigated)
}

// UpdateRoomName asks for a new name and the room password.
func (c *Client) UpdateRoomName(ctx context.Context, id int64) Outcome {
	return c.mutate(ctx, OpRename, id, []input{c.nameInput("New room name"), passwordInput}, func(ctx context.Context, v values) error {
		_, err := c.rooms.Update(ctx, id, roomsdk.RoomUpdateParams{Name: v.name, Password: v.password})
		return err
	})
}

// EndRoom asks for the room password and ends the room. Ended rooms can no
// longer be joined.
func (c *Client) EndRoom(ctx context.Context, id int64) Outcome {
	return c.mutate(ctx, OpEnd, id, []input{passwordInput}, func(ctx context.Context, v values) error {
		return c.rooms.End(ctx, id, roomsdk.RoomEndParams{Password: v.password})
	})
}

// DeleteRoom asks for the room password and removes the room.
func (c *Client) DeleteRoom(ctx context.Context, id int64) Outcome {
	return c.mutate(ctx, OpDelete, id, []input{passwordInput}, func(ctx context.Context, v values) error {
		return c.rooms.Delete(ctx, id, roomsdk.RoomDeleteParams{Password: v.password})
	})
}

// RenameRoomLegacy renames through the form endpoint, which takes no
// password.
func (c *Client) RenameRoomLegacy(ctx context.Context, id int64) Outcome {
	return c.mutate(ctx, OpLegacyRename, id, []input{c.nameInput("New room name")}, func(ctx context.Context, v values) error {
		return c.rooms.RenameLegacy(ctx, id, roomsdk.RoomLegacyRenameParams{Name: v.name})
	})
}

func (c *Client) gameLocation(id int64) string {
	u := *c.gameURL
	q := u.Query()
	q.Set("id", strconv.FormatInt(id, 10))
	u.RawQuery = q.Encode()
	return u.String()
}

type input struct {
	field Field
	label string
	check ErrorHandler
}

var passwordInput = input{field: FieldPassword, label: "Password", check: checkPassword}

func (c *Client) nameInput(label string) input {
	check := checkName
	if c.maxNameLength > 0 {
		check = Compose(checkName, MaxLen(c.maxNameLength, ErrNameTooLong))
	}
	return input{field: FieldName, label: label, check: check}
}

type values struct {
	name     string
	password string
}

// mutate runs the shared mutation sequence: prompt and validate every
// input in order, send once, then refresh on success. The first blank or
// cancelled input stops the sequence without asking for the rest.
func (c *Client) mutate(ctx context.Context, op Operation, id int64, inputs []input, send func(context.Context, values) error) Outcome {
	ctx, span := c.startOp(ctx, op, id)
	defer span.End()

	r := c.run(ctx, op, id)
	r.to(Validating, nil)
	if op != OpCreate && id <= 0 {
		return r.block(span, roomsdk.ErrMissingIDParameter)
	}

	var v values
	for _, in := range inputs {
		value, ok := c.prompter.Prompt(ctx, Prompt{Op: op, RoomID: id, Field: in.field, Label: in.label})
		if !ok {
			value = ""
		}
		if err := in.check(value); err != nil {
			return r.block(span, err)
		}
		switch in.field {
		case FieldName:
			v.name = value
		case FieldPassword:
			v.password = value
		}
	}

	release := func() {}
	if c.serialize && id > 0 {
		var err error
		if release, err = c.locks.acquire(ctx, id); err != nil {
			return r.fail(span, err)
		}
	}

	r.to(Requesting, nil)
	err := send(ctx, v)
	release()
	if err != nil {
		return r.fail(span, err)
	}

	out := r.done(span, Reloaded)
	if err := c.Refresh(ctx); err != nil {
		out.Message = roomsdk.Message(err)
		out.Err = err
	}
	return out
}

func (c *Client) startOp(ctx context.Context, op Operation, id int64) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{attribute.String("lobby.op", string(op))}
	if id > 0 {
		attrs = append(attrs, attribute.Int64("room.id", id))
	}
	return c.tracer.Start(ctx, "lobby."+string(op), trace.WithAttributes(attrs...))
}

// run tracks the state of one operation and reports every transition.
type run struct {
	c     *Client
	ctx   context.Context
	op    Operation
	id    int64
	state State
}

func (c *Client) run(ctx context.Context, op Operation, id int64) *run {
	return &run{c: c, ctx: ctx, op: op, id: id, state: Idle}
}

func (r *run) to(s State, err error) {
	r.c.observer.Observe(r.ctx, Event{Op: r.op, RoomID: r.id, From: r.state, To: s, Err: err})
	r.state = s
}

func (r *run) outcome(msg string, err error) Outcome {
	return Outcome{Op: r.op, State: r.state, RoomID: r.id, Message: msg, Err: err}
}

func (r *run) block(span trace.Span, err error) Outcome {
	r.to(Blocked, err)
	span.SetAttributes(attribute.String("lobby.state", Blocked.String()))
	r.c.notifier.Notify(r.ctx, err.Error())
	return r.outcome(err.Error(), err)
}

func (r *run) fail(span trace.Span, err error) Outcome {
	msg := roomsdk.Message(err)
	r.to(Failed, err)
	span.RecordError(err)
	span.SetStatus(codes.Error, msg)
	span.SetAttributes(attribute.String("lobby.state", Failed.String()))
	r.c.notifier.Notify(r.ctx, msg)
	return r.outcome(msg, err)
}

func (r *run) done(span trace.Span, s State) Outcome {
	r.to(s, nil)
	span.SetAttributes(attribute.String("lobby.state", s.String()))
	return r.outcome("", nil)
}
