package models

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// ErrInvalidSnapshot is returned when a persisted catalog fails validation.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

// Snapshot is the complete catalog state persisted as one document. Maps are
// keyed by entity id; JSON encodes integer keys as strings.
type Snapshot struct {
	Users     map[string]*User    `json:"users"`
	Artists   map[int64]*Artist   `json:"artists"`
	Albums    map[int64]*Album    `json:"albums"`
	Tracks    map[int64]*Track    `json:"tracks"`
	Playlists map[int64]*Playlist `json:"playlists"`
}

// NewSnapshot returns an empty snapshot with every map allocated.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize allocates missing maps so callers can write without nil checks.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = make(map[string]*User)
	}
	if s.Artists == nil {
		s.Artists = make(map[int64]*Artist)
	}
	if s.Albums == nil {
		s.Albums = make(map[int64]*Album)
	}
	if s.Tracks == nil {
		s.Tracks = make(map[int64]*Track)
	}
	if s.Playlists == nil {
		s.Playlists = make(map[int64]*Playlist)
	}
}

// Clone returns a deep copy that shares no memory with s.
func (s *Snapshot) Clone() *Snapshot {
	out := &Snapshot{
		Users:     make(map[string]*User, len(s.Users)),
		Artists:   make(map[int64]*Artist, len(s.Artists)),
		Albums:    make(map[int64]*Album, len(s.Albums)),
		Tracks:    make(map[int64]*Track, len(s.Tracks)),
		Playlists: make(map[int64]*Playlist, len(s.Playlists)),
	}
	for id, u := range s.Users {
		c := u.Clone()
		out.Users[id] = &c
	}
	for id, a := range s.Artists {
		c := a.Clone()
		out.Artists[id] = &c
	}
	for id, a := range s.Albums {
		c := a.Clone()
		out.Albums[id] = &c
	}
	for id, t := range s.Tracks {
		c := *t
		out.Tracks[id] = &c
	}
	for id, p := range s.Playlists {
		c := p.Clone()
		out.Playlists[id] = &c
	}
	return out
}

// Validate checks required fields and key/id agreement for every entity and
// reports all problems at once.
func (s *Snapshot) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	usernames := make(map[string]string, len(s.Users))
	for key, u := range s.Users {
		switch {
		case u == nil:
			add("user %q: empty record", key)
			continue
		case u.ID != key:
			add("user %q: id %q does not match key", key, u.ID)
		}
		if strings.TrimSpace(u.Username) == "" {
			add("user %q: username is required", key)
		} else if other, dup := usernames[u.Username]; dup {
			add("user %q: username %q already used by %q", key, u.Username, other)
		} else {
			usernames[u.Username] = key
		}
		if u.PasswordHash == "" {
			add("user %q: passwordHash is required", key)
		}
	}

	for key, a := range s.Artists {
		if a == nil {
			add("artist %s: empty record", strconv.FormatInt(key, 10))
			continue
		}
		checkID(add, "artist", key, a.ID)
		if strings.TrimSpace(a.Name) == "" {
			add("artist %d: name is required", key)
		}
	}

	for key, a := range s.Albums {
		if a == nil {
			add("album %d: empty record", key)
			continue
		}
		checkID(add, "album", key, a.ID)
		if strings.TrimSpace(a.Name) == "" {
			add("album %d: name is required", key)
		}
		if a.Cover == "" {
			add("album %d: cover is required", key)
		}
	}

	for key, t := range s.Tracks {
		if t == nil {
			add("track %d: empty record", key)
			continue
		}
		checkID(add, "track", key, t.ID)
		if strings.TrimSpace(t.Title) == "" {
			add("track %d: title is required", key)
		}
		if t.AlbumID <= 0 {
			add("track %d: albumId is required", key)
		}
		if t.ArtistID <= 0 {
			add("track %d: artistId is required", key)
		}
	}

	for key, p := range s.Playlists {
		if p == nil {
			add("playlist %d: empty record", key)
			continue
		}
		checkID(add, "playlist", key, p.ID)
		if p.Owner == "" {
			add("playlist %d: owner is required", key)
		}
	}

	if len(problems) > 0 {
		slices.Sort(problems)
		return fmt.Errorf("%w:\n  - %s", ErrInvalidSnapshot, strings.Join(problems, "\n  - "))
	}
	return nil
}

func checkID(add func(string, ...any), kind string, key, id int64) {
	if id <= 0 {
		add("%s %d: id must be positive", kind, key)
	} else if id != key {
		add("%s %d: id %d does not match key", kind, key, id)
	}
}
