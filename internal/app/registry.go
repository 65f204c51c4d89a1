package app

import (
	"sort"
	"sync"

	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/rs/zerolog/log"
)

// Presence tracks which usernames are joined to which room in this process.
// Each username is reference counted, so a user with two live sessions stays
// present until both leave. A room key exists only while it has members.
type Presence struct {
	mu    sync.RWMutex
	rooms map[domain.RoomID]map[string]int
}

func NewPresence() *Presence {
	return &Presence{rooms: make(map[domain.RoomID]map[string]int)}
}

// Join adds username to room and returns the member list after the change.
func (p *Presence) Join(room domain.RoomID, username string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	members, ok := p.rooms[room]
	if !ok {
		members = make(map[string]int)
		p.rooms[room] = members
	}
	members[username]++
	log.Info().Str("module", "app.presence").Str("room", string(room)).Str("user", username).Int("members", len(members)).Msg("joined")
	return snapshot(members)
}

// Leave removes one session of username from room and returns the member
// list after the change. Leaving a room one is not in changes nothing.
func (p *Presence) Leave(room domain.RoomID, username string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	members, ok := p.rooms[room]
	if !ok {
		return []string{}
	}
	if n, ok := members[username]; ok {
		if n <= 1 {
			delete(members, username)
		} else {
			members[username] = n - 1
		}
		log.Info().Str("module", "app.presence").Str("room", string(room)).Str("user", username).Int("members", len(members)).Msg("left")
	}
	if len(members) == 0 {
		delete(p.rooms, room)
		log.Info().Str("module", "app.presence").Str("room", string(room)).Msg("room emptied")
	}
	return snapshot(members)
}

// Members returns a sorted copy of the usernames in room.
func (p *Presence) Members(room domain.RoomID) []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return snapshot(p.rooms[room])
}

// Rooms returns the member count of every non-empty room.
func (p *Presence) Rooms() map[domain.RoomID]int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[domain.RoomID]int, len(p.rooms))
	for room, members := range p.rooms {
		out[room] = len(members)
	}
	return out
}

// Present reports whether username is a member of any room.
func (p *Presence) Present(username string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	for _, members := range p.rooms {
		if members[username] > 0 {
			return true
		}
	}
	return false
}

func snapshot(members map[string]int) []string {
	out := make([]string, 0, len(members))
	for name := range members {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
