// service/game_manager.go
package service

import (
	"encoding/json"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/benbeisheim/rulechess-backend/internal/model"
	"github.com/google/uuid"
	"golang.org/x/exp/maps"
)

type Options struct {
	StrictLegality      bool
	MatchmakingInterval time.Duration
}

// MatchFoundEvent is sent to both players when matchmaking pairs them.
type MatchFoundEvent struct {
	GameID string      `json:"gameId"`
	Color  model.Color `json:"color"`
}

// GameManager is the registry of live games keyed by game id. The registry
// lock only guards the map; each Session has its own lock.
type GameManager struct {
	games            map[string]*Session
	queue            *model.Queue
	matchingChannels map[string]chan string
	strict           bool
	mu               sync.RWMutex
	done             chan struct{}
	closeOnce        sync.Once
}

func NewGameManager(opts Options) *GameManager {
	if opts.MatchmakingInterval <= 0 {
		opts.MatchmakingInterval = time.Second
	}
	gm := &GameManager{
		games:            make(map[string]*Session),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan string),
		strict:           opts.StrictLegality,
		done:             make(chan struct{}),
	}

	go gm.processMatchmaking(opts.MatchmakingInterval)

	return gm
}

// Close stops the matchmaking loop.
func (gm *GameManager) Close() {
	gm.closeOnce.Do(func() { close(gm.done) })
}

func (gm *GameManager) CreateGame(gameID string) (*Session, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}

	session := newSession(gameID, gm.strict)
	gm.games[gameID] = session
	log.Printf("game %s created", gameID)
	return session, nil
}

func (gm *GameManager) GetGame(gameID string) (*Session, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	session, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}
	return session, nil
}

func (gm *GameManager) RemoveGame(gameID string) error {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; !exists {
		return ErrGameNotFound
	}
	delete(gm.games, gameID)
	log.Printf("game %s removed", gameID)
	return nil
}

// ListGames returns the ids of all live games, sorted.
func (gm *GameManager) ListGames() []string {
	gm.mu.RLock()
	ids := maps.Keys(gm.games)
	gm.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	if playerID == "" {
		return ErrPlayerIDRequired
	}
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) LeaveMatchmaking(playerID string) {
	gm.queue.RemovePlayer(playerID)
}

func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existingCh, exists := gm.matchingChannels[playerID]; exists {
		delete(gm.matchingChannels, playerID)
		close(existingCh)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets the channel without closing it; the
// caller that created it owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	delete(gm.matchingChannels, playerID)
}

func (gm *GameManager) processMatchmaking(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-gm.done:
			return
		case <-ticker.C:
			for gm.matchPlayers() {
			}
		}
	}
}

// matchPlayers pairs the two longest waiting players into a new game. It
// reports whether a pair was made.
func (gm *GameManager) matchPlayers() bool {
	first, second, ok := gm.queue.NextPair()
	if !ok {
		return false
	}

	gameID := uuid.New().String()
	session, err := gm.CreateGame(gameID)
	if err != nil {
		log.Printf("matchmaking: create game: %v", err)
		return false
	}
	for _, p := range []model.Player{first, second} {
		color, err := session.AddPlayer(p.ID)
		if err != nil {
			log.Printf("matchmaking: seat %s in %s: %v", p.ID, gameID, err)
			continue
		}
		if !gm.notifyMatch(p.ID, MatchFoundEvent{GameID: gameID, Color: color}) {
			log.Printf("matchmaking: could not notify %s of game %s", p.ID, gameID)
		}
	}
	return true
}

// notifyMatch delivers event on the player's matchmaking channel and then
// closes it.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) bool {
	data, err := json.Marshal(event)
	if err != nil {
		return false
	}

	gm.mu.Lock()
	defer gm.mu.Unlock()

	ch, ok := gm.matchingChannels[playerID]
	if !ok {
		return false
	}
	delete(gm.matchingChannels, playerID)
	defer close(ch)

	select {
	case ch <- string(data):
		return true
	default:
		return false
	}
}
