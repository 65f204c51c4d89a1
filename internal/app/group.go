package app

import (
	"fmt"
	"sync"

	"github.com/dkeye/Vibesync/internal/core"
	"github.com/dkeye/Vibesync/internal/domain"
	"github.com/rs/zerolog/log"
)

// PublishResult reports delivery stats of one Send.
type PublishResult struct {
	SentTo  int
	Dropped []core.Endpoint
}

type groupRoom struct {
	// mu also serializes sends, which keeps delivery FIFO per room.
	mu      sync.Mutex
	members map[string]core.Endpoint
}

// Group is the broadcast fanout: room → endpoints currently registered.
// It never closes endpoints itself except through Policy.
type Group struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]*groupRoom
	Policy Policy
}

func NewGroup(policy Policy) *Group {
	return &Group{
		rooms:  make(map[domain.RoomID]*groupRoom),
		Policy: policy,
	}
}

func (g *Group) AddMember(room domain.RoomID, ep core.Endpoint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[room]
	if !ok {
		r = &groupRoom{members: make(map[string]core.Endpoint)}
		g.rooms[room] = r
	}
	r.mu.Lock()
	r.members[ep.ID()] = ep
	r.mu.Unlock()
	log.Debug().Str("module", "app.group").Str("room", string(room)).Str("endpoint", ep.ID()).Msg("member added")
}

func (g *Group) RemoveMember(room domain.RoomID, ep core.Endpoint) {
	g.mu.Lock()
	defer g.mu.Unlock()
	r, ok := g.rooms[room]
	if !ok {
		return
	}
	r.mu.Lock()
	delete(r.members, ep.ID())
	empty := len(r.members) == 0
	r.mu.Unlock()
	if empty {
		delete(g.rooms, room)
	}
	log.Debug().Str("module", "app.group").Str("room", string(room)).Str("endpoint", ep.ID()).Msg("member removed")
}

// MemberCount returns the number of endpoints registered for room.
func (g *Group) MemberCount(room domain.RoomID) int {
	g.mu.RLock()
	r, ok := g.rooms[room]
	g.mu.RUnlock()
	if !ok {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}

// Send delivers v to every endpoint registered for room right now.
// A failing endpoint never stops delivery to the others.
func (g *Group) Send(room domain.RoomID, v any) PublishResult {
	frame, err := core.Encode(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.group").Str("room", string(room)).Msg("broadcast encode")
		return PublishResult{}
	}

	g.mu.RLock()
	r, ok := g.rooms[room]
	g.mu.RUnlock()
	if !ok {
		return PublishResult{}
	}

	res := PublishResult{}
	var errs []error
	r.mu.Lock()
	for id, ep := range r.members {
		if err := ep.TrySend(frame); err != nil {
			log.Warn().Err(fmt.Errorf("%w: %w", core.ErrDeliveryFailure, err)).Str("module", "app.group").Str("room", string(room)).Str("endpoint", id).Msg("delivery failed")
			res.Dropped = append(res.Dropped, ep)
			errs = append(errs, err)
			continue
		}
		res.SentTo++
	}
	r.mu.Unlock()

	log.Debug().Str("module", "app.group").Str("room", string(room)).Int("sent_to", res.SentTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
	g.applyPolicy(room, res.Dropped, errs)
	return res
}

// SendTo delivers v to a single endpoint.
func (g *Group) SendTo(ep core.Endpoint, v any) error {
	frame, err := core.Encode(v)
	if err != nil {
		return err
	}
	if err := ep.TrySend(frame); err != nil {
		return fmt.Errorf("%w: %w", core.ErrDeliveryFailure, err)
	}
	return nil
}

// applyPolicy runs after the room lock is released, closing an endpoint
// writes to the network.
func (g *Group) applyPolicy(room domain.RoomID, dropped []core.Endpoint, errs []error) {
	if g.Policy == nil {
		return
	}
	for i, ep := range dropped {
		switch g.Policy.OnBackPressure(room, ep, errs[i]) {
		case KickMember:
			log.Warn().Str("module", "app.group").Str("room", string(room)).Str("endpoint", ep.ID()).Msg("kicking slow member")
			ep.Close(core.CloseTryAgainLater, "slow consumer")
		case NoAction:
		}
	}
}
