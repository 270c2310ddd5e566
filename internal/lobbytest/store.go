package lobbytest

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"
)

var (
	ErrRoomNotFound   = errors.New("room not found")
	ErrRoomEnded      = errors.New("room already ended")
	ErrDuplicateName  = errors.New("room name already exists")
	ErrWrongPassword  = errors.New("wrong password")
	ErrBlankName      = errors.New("room name cannot be blank")
	ErrBlankPassword  = errors.New("password cannot be blank")
	ErrInvalidRoomID  = errors.New("invalid room id")
	ErrRoomStillInUse = errors.New("room is still active, end it before deleting")
)

// Room is the server-side record. The password is only kept hashed.
type Room struct {
	ID        int64
	Name      string
	Ended     bool
	CreatedAt time.Time

	passwordHash [sha256.Size]byte
}

type roomStore struct {
	rooms  map[int64]*Room
	nextID int64
	// requireEnded makes delete refuse rooms that are still active.
	requireEnded bool
	mu           sync.RWMutex
}

func newRoomStore() *roomStore {
	return &roomStore{
		rooms:  make(map[int64]*Room),
		nextID: 1,
	}
}

func hashPassword(password string) [sha256.Size]byte {
	return sha256.Sum256([]byte(password))
}

func (r *Room) checkPassword(password string) bool {
	sum := hashPassword(password)
	return subtle.ConstantTimeCompare(sum[:], r.passwordHash[:]) == 1
}

// nameTaken must be called with the lock held. Ended rooms free their name.
func (s *roomStore) nameTaken(name string, except int64) bool {
	for id, room := range s.rooms {
		if id != except && !room.Ended && room.Name == name {
			return true
		}
	}
	return false
}

func (s *roomStore) create(name, password string) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}
	if strings.TrimSpace(password) == "" {
		return nil, ErrBlankPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.nameTaken(name, 0) {
		return nil, ErrDuplicateName
	}

	room := &Room{
		ID:           s.nextID,
		Name:         name,
		CreatedAt:    time.Now(),
		passwordHash: hashPassword(password),
	}
	s.rooms[room.ID] = room
	s.nextID++

	copied := *room
	return &copied, nil
}

// active lists rooms that can still be joined, newest first.
func (s *roomStore) active() []Room {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rooms := make([]Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if !room.Ended {
			rooms = append(rooms, *room)
		}
	}
	slices.SortFunc(rooms, func(a, b Room) int {
		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})
	return rooms
}

func (s *roomStore) get(id int64) (*Room, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	copied := *room
	return &copied, nil
}

func (s *roomStore) enterable(id int64) (*Room, error) {
	room, err := s.get(id)
	if err != nil {
		return nil, err
	}
	if room.Ended {
		return nil, ErrRoomEnded
	}
	return room, nil
}

func (s *roomStore) rename(id int64, name, password string, checkPassword bool) (*Room, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrBlankName
	}
	if checkPassword && strings.TrimSpace(password) == "" {
		return nil, ErrBlankPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	if room.Ended {
		return nil, ErrRoomEnded
	}
	if checkPassword && !room.checkPassword(password) {
		return nil, ErrWrongPassword
	}
	if s.nameTaken(name, id) {
		return nil, ErrDuplicateName
	}

	room.Name = name
	copied := *room
	return &copied, nil
}

func (s *roomStore) end(id int64, password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrBlankPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	if !room.checkPassword(password) {
		return ErrWrongPassword
	}
	if room.Ended {
		return ErrRoomEnded
	}

	room.Ended = true
	return nil
}

func (s *roomStore) remove(id int64, password string) error {
	if strings.TrimSpace(password) == "" {
		return ErrBlankPassword
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	room, ok := s.rooms[id]
	if !ok {
		return ErrRoomNotFound
	}
	if !room.checkPassword(password) {
		return ErrWrongPassword
	}
	if s.requireEnded && !room.Ended {
		return ErrRoomStillInUse
	}

	delete(s.rooms, id)
	return nil
}
