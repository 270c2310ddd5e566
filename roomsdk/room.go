package roomsdk

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strconv"

	"github.com/hilthontt/chessrooms/roomsdk/internal/requestconfig"
	"github.com/hilthontt/chessrooms/roomsdk/option"
	"github.com/tidwall/gjson"
)

const (
	roomsPath        = "api/chess/rooms/"
	deleteFormPath   = "room/delete/"
	legacyRenamePath = "room/update/"
)

// RoomService covers the room endpoints. Every method validates its
// parameters locally first; a missing id, name or password returns a
// sentinel error without touching the network.
type RoomService struct {
	Options []option.RequestOption
}

func NewRoomService(opts ...option.RequestOption) *RoomService {
	r := &RoomService{opts}
	return r
}

// List fetches the rooms in server order.
func (r *RoomService) List(ctx context.Context, opts ...option.RequestOption) (*RoomListResponse, error) {
	opts = slices.Concat(r.Options, opts)

	var raw []byte
	if err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, roomsPath, nil, &raw, opts...); err != nil {
		return nil, err
	}

	res := &RoomListResponse{}
	if err := res.UnmarshalJSON(raw); err != nil {
		return nil, err
	}
	return res, nil
}

// New creates a room. The id is taken from the Location header (or an "id"
// field in the body) and is zero when the server sent neither.
func (r *RoomService) New(ctx context.Context, body RoomNewParams, opts ...option.RequestOption) (*RoomNewResponse, error) {
	if err := checkParams(body); err != nil {
		return nil, err
	}
	opts = slices.Concat(r.Options, opts)

	var (
		raw  []byte
		resp *http.Response
	)
	opts = append(opts, option.WithResponseInto(&resp))
	if err := requestconfig.ExecuteNewRequest(ctx, http.MethodPost, roomsPath, body, &raw, opts...); err != nil {
		return nil, err
	}

	res := &RoomNewResponse{Name: body.Name}
	if resp != nil {
		res.Location = resp.Header.Get("Location")
		res.ID = idFromLocation(res.Location)
	}
	if res.ID == 0 && gjson.ValidBytes(raw) {
		res.ID = gjson.GetBytes(raw, "id").Int()
	}
	return res, nil
}

// Get checks that a room can be entered. The server answers non-2xx for
// rooms that are missing or already ended.
func (r *RoomService) Get(ctx context.Context, id int64, opts ...option.RequestOption) (*RoomGetResponse, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	opts = slices.Concat(r.Options, opts)

	var raw []byte
	if err := requestconfig.ExecuteNewRequest(ctx, http.MethodGet, roomPath(id), nil, &raw, opts...); err != nil {
		return nil, err
	}

	res := &RoomGetResponse{ID: id, RawJSON: string(raw)}
	if gjson.ValidBytes(raw) {
		res.Name = gjson.GetBytes(raw, "name").String()
	}
	return res, nil
}

// Update renames a room.
func (r *RoomService) Update(ctx context.Context, id int64, body RoomUpdateParams, opts ...option.RequestOption) (*Room, error) {
	if err := checkID(id); err != nil {
		return nil, err
	}
	if err := checkParams(body); err != nil {
		return nil, err
	}
	opts = slices.Concat(r.Options, opts)

	var raw []byte
	if err := requestconfig.ExecuteNewRequest(ctx, http.MethodPatch, roomPath(id), body, &raw, opts...); err != nil {
		return nil, err
	}

	res := &Room{ID: id, Name: body.Name}
	if gjson.ValidBytes(raw) {
		if name := gjson.GetBytes(raw, "name"); name.Exists() {
			res.Name = name.String()
		}
	}
	return res, nil
}

// End moves a room to the ended state. Ended rooms can no longer be joined.
func (r *RoomService) End(ctx context.Context, id int64, body RoomEndParams, opts ...option.RequestOption) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := checkParams(body); err != nil {
		return err
	}
	opts = slices.Concat(r.Options, opts)

	return requestconfig.ExecuteNewRequest(ctx, http.MethodPatch, roomPath(id)+"/end", body, nil, opts...)
}

// Delete removes a room through the form endpoint. The password is sent
// along with the id, as for every other mutation.
func (r *RoomService) Delete(ctx context.Context, id int64, body RoomDeleteParams, opts ...option.RequestOption) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := checkParams(body); err != nil {
		return err
	}
	opts = slices.Concat(r.Options, opts)

	opts = append(opts, formSubmission())
	form := roomDeleteForm{RoomID: id, Password: body.Password}
	return requestconfig.ExecuteNewRequest(ctx, http.MethodPost, deleteFormPath, form, nil, opts...)
}

// RenameLegacy renames a room through the older form endpoint, which takes
// no password.
func (r *RoomService) RenameLegacy(ctx context.Context, id int64, body RoomLegacyRenameParams, opts ...option.RequestOption) error {
	if err := checkID(id); err != nil {
		return err
	}
	if err := checkParams(body); err != nil {
		return err
	}
	opts = slices.Concat(r.Options, opts)

	opts = append(opts, formSubmission())
	form := roomRenameForm{RoomID: id, RoomName: body.Name}
	return requestconfig.ExecuteNewRequest(ctx, http.MethodPost, legacyRenamePath, form, nil, opts...)
}

// formSubmission makes a form endpoint's redirect count as success instead
// of following it to a server-rendered page.
func formSubmission() option.RequestOption {
	return requestconfig.RequestOptionFunc(func(r *requestconfig.RequestConfig) error {
		r.StopAtRedirect = true
		return nil
	})
}

func roomPath(id int64) string {
	return roomsPath + strconv.FormatInt(id, 10)
}

func idFromLocation(location string) int64 {
	if location == "" {
		return 0
	}
	u, err := url.Parse(location)
	if err != nil {
		return 0
	}
	id, err := strconv.ParseInt(path.Base(u.Path), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

type Room struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (r Room) String() string {
	return fmt.Sprintf("#%d %s", r.ID, r.Name)
}

type RoomListResponse struct {
	Rooms []Room `json:"roomResponseDtos"`
}

// UnmarshalJSON accepts roomResponseDtos either as an array or as an object
// keyed by position; in both cases document order is kept.
func (r *RoomListResponse) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return fmt.Errorf("%w: list body is not JSON", ErrMalformedResponse)
	}

	dtos := gjson.GetBytes(data, "roomResponseDtos")
	if !dtos.Exists() || !dtos.IsArray() && !dtos.IsObject() {
		return fmt.Errorf("%w: missing roomResponseDtos", ErrMalformedResponse)
	}

	rooms := []Room{}
	var decodeErr error
	dtos.ForEach(func(_, value gjson.Result) bool {
		id := value.Get("id")
		if id.Type != gjson.Number {
			decodeErr = fmt.Errorf("%w: room without numeric id", ErrMalformedResponse)
			return false
		}
		rooms = append(rooms, Room{ID: id.Int(), Name: value.Get("name").String()})
		return true
	})
	if decodeErr != nil {
		return decodeErr
	}

	r.Rooms = rooms
	return nil
}

type RoomNewParams struct {
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type RoomNewResponse struct {
	ID       int64
	Name     string
	Location string
}

type RoomGetResponse struct {
	ID      int64
	Name    string
	RawJSON string
}

type RoomUpdateParams struct {
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"notblank"`
}

type RoomEndParams struct {
	Password string `json:"password" validate:"notblank"`
}

type RoomDeleteParams struct {
	Password string `validate:"notblank"`
}

type RoomLegacyRenameParams struct {
	Name string `validate:"notblank"`
}

type roomDeleteForm struct {
	RoomID   int64
	Password string
}

func (f roomDeleteForm) URLValues() url.Values {
	v := url.Values{}
	v.Set("roomId", strconv.FormatInt(f.RoomID, 10))
	v.Set("password", f.Password)
	return v
}

type roomRenameForm struct {
	RoomID   int64
	RoomName string
}

func (f roomRenameForm) URLValues() url.Values {
	v := url.Values{}
	v.Set("roomName", f.RoomName)
	v.Set("roomId", strconv.FormatInt(f.RoomID, 10))
	return v
}
