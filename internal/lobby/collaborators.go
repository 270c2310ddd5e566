package lobby

import (
	"context"

	"github.com/hilthontt/chessrooms/roomsdk"
	"github.com/hilthontt/chessrooms/roomsdk/option"
)

// Rooms is the part of *roomsdk.RoomService the lobby uses.
type Rooms interface {
	List(ctx context.Context, opts ...option.RequestOption) (*roomsdk.RoomListResponse, error)
	New(ctx context.Context, body roomsdk.RoomNewParams, opts ...option.RequestOption) (*roomsdk.RoomNewResponse, error)
	Get(ctx context.Context, id int64, opts ...option.RequestOption) (*roomsdk.RoomGetResponse, error)
	Update(ctx context.Context, id int64, body roomsdk.RoomUpdateParams, opts ...option.RequestOption) (*roomsdk.Room, error)
	End(ctx context.Context, id int64, body roomsdk.RoomEndParams, opts ...option.RequestOption) error
	Delete(ctx context.Context, id int64, body roomsdk.RoomDeleteParams, opts ...option.RequestOption) error
	RenameLegacy(ctx context.Context, id int64, body roomsdk.RoomLegacyRenameParams, opts ...option.RequestOption) error
}

var _ Rooms = (*roomsdk.RoomService)(nil)

type Field int

const (
	FieldName Field = iota
	FieldPassword
)

func (f Field) String() string {
	if f == FieldPassword {
		return "password"
	}
	return "name"
}

// Prompt asks the user for one value.
type Prompt struct {
	Op     Operation
	RoomID int64
	Field  Field
	Label  string
}

// Secret reports whether the input should not be echoed.
func (p Prompt) Secret() bool {
	return p.Field == FieldPassword
}

// Prompter asks for a single string. ok is false when the user cancelled.
// Prompt blocks until the user answers or ctx is done.
type Prompter interface {
	Prompt(ctx context.Context, p Prompt) (value string, ok bool)
}

// Notifier shows a message to the user.
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// Renderer paints the room list, one row per room, in the given order.
type Renderer interface {
	Render(ctx context.Context, rooms []roomsdk.Room)
}

// Navigator opens another view, such as the game for a joined room.
type Navigator interface {
	Navigate(ctx context.Context, location string)
}

type Observer interface {
	Observe(ctx context.Context, e Event)
}

type PrompterFunc func(ctx context.Context, p Prompt) (string, bool)

func (f PrompterFunc) Prompt(ctx context.Context, p Prompt) (string, bool) { return f(ctx, p) }

type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

type RendererFunc func(ctx context.Context, rooms []roomsdk.Room)

func (f RendererFunc) Render(ctx context.Context, rooms []roomsdk.Room) { f(ctx, rooms) }

type NavigatorFunc func(ctx context.Context, location string)

func (f NavigatorFunc) Navigate(ctx context.Context, location string) { f(ctx, location) }

type ObserverFunc func(ctx context.Context, e Event)

func (f ObserverFunc) Observe(ctx context.Context, e Event) { f(ctx, e) }

// Without a prompter every prompt counts as cancelled.
var (
	cancelAll   = PrompterFunc(func(context.Context, Prompt) (string, bool) { return "", false })
	discardMsgs = NotifierFunc(func(context.Context, string) {})
	renderNone  = RendererFunc(func(context.Context, []roomsdk.Room) {})
	stayPut     = NavigatorFunc(func(context.Context, string) {})
	observeNone = ObserverFunc(func(context.Context, Event) {})
)
