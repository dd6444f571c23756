package model

import (
	"fmt"
	"slices"
	"sync"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/maps"
)

type GameStatus string

const (
	StatusWaiting  GameStatus = "waiting"
	StatusActive   GameStatus = "active"
	StatusFinished GameStatus = "finished"
)

type Result string

const (
	ResultNone  Result = ""
	ResultWhite Result = "white"
	ResultBlack Result = "black"
	ResultDraw  Result = "draw"
)

func resultFor(p Player) Result {
	if p == White {
		return ResultWhite
	}
	return ResultBlack
}

type EndMethod string

const (
	MethodNone        EndMethod = ""
	MethodNoMoves     EndMethod = "no-moves"
	MethodResignation EndMethod = "resignation"
)

// EndRule decides when a session is over.
//
// EndRuleBothBlocked follows IsGameOver: the game ends once neither side can move
// or the side to move has no pieces left, and a side that is merely blocked on its
// turn passes. EndRuleSideToMove is the
// conventional rule where a side with no legal move on its turn loses.
type EndRule string

const (
	EndRuleBothBlocked EndRule = "both-blocked"
	EndRuleSideToMove  EndRule = "side-to-move"
)

func ParseEndRule(s string) (EndRule, error) {
	switch r := EndRule(s); r {
	case EndRuleBothBlocked, EndRuleSideToMove:
		return r, nil
	}
	return "", fmt.Errorf("unknown end rule %q", s)
}

// AIPlayerID holds the Black seat in games against the computer.
const AIPlayerID = "ai"

// Conn is the part of a websocket connection a game writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// The connections for a specific game
type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.RWMutex
	// writeMu keeps broadcasts from interleaving on the same connection.
	writeMu sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

type Game struct {
	ID          string
	mu          sync.Mutex
	board       *Board
	toMove      Player
	white       string
	black       string
	history     []Ply
	status      GameStatus
	result      Result
	method      EndMethod
	lastMove    *Move
	endRule     EndRule
	connections *GameConnections
}

// GameSnapshot is a copy of a game's state that is safe to read without locks.
type GameSnapshot struct {
	ID         string
	Board      *Board
	ToMove     Player
	White      string
	Black      string
	Status     GameStatus
	Result     Result
	Method     EndMethod
	History    []Ply
	LastMove   *Move
	LegalMoves []Move
}

func NewGame(id string, endRule EndRule) *Game {
	if endRule == "" {
		endRule = EndRuleBothBlocked
	}
	return &Game{
		ID:          id,
		board:       NewInitialBoard(),
		toMove:      White,
		history:     make([]Ply, 0),
		status:      StatusWaiting,
		endRule:     endRule,
		connections: NewGameConnections(),
	}
}

// AddPlayer seats playerID, White first. A player already seated gets their
// existing color back.
func (g *Game) AddPlayer(playerID string) (Player, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if color, ok := g.colorOf(playerID); ok {
		return color, nil
	}

	var color Player
	switch {
	case g.white == "":
		g.white = playerID
		color = White
	case g.black == "":
		g.black = playerID
		color = Black
	default:
		return White, ErrGameFull
	}
	if g.white != "" && g.black != "" && g.status == StatusWaiting {
		g.status = StatusActive
	}
	return color, nil
}

func (g *Game) colorOf(playerID string) (Player, bool) {
	switch {
	case playerID == "":
		return White, false
	case g.white == playerID:
		return White, true
	case g.black == playerID:
		return Black, true
	}
	return White, false
}

func (g *Game) ColorOf(playerID string) (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.colorOf(playerID)
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	_, ok := g.ColorOf(playerID)
	return ok
}

func (g *Game) canSpectate() bool {
	return g.white == "" || g.black == ""
}

// ToMove returns the side to move and whether the game is still being played.
func (g *Game) ToMove() (Player, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.toMove, g.status == StatusActive
}

// SeatOf returns the player ID holding color's seat.
func (g *Game) SeatOf(color Player) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	if color == White {
		return g.white
	}
	return g.black
}

func (g *Game) Board() *Board {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.board.Clone()
}

func (g *Game) Snapshot() GameSnapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	s := GameSnapshot{
		ID:      g.ID,
		Board:   g.board.Clone(),
		ToMove:  g.toMove,
		White:   g.white,
		Black:   g.black,
		Status:  g.status,
		Result:  g.result,
		Method:  g.method,
		History: slices.Clone(g.history),
	}
	if g.lastMove != nil {
		m := *g.lastMove
		s.LastMove = &m
	}
	if g.status == StatusActive {
		s.LegalMoves = LegalMoves(g.board, g.toMove)
	}
	return s
}

// MakeMove plays req for playerID after checking it against the legal moves of
// the side to move.
func (g *Game) MakeMove(playerID string, req MoveRequest) (Ply, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.status != StatusActive {
		return Ply{}, ErrGameNotActive
	}
	color, ok := g.colorOf(playerID)
	if !ok {
		return Ply{}, ErrPlayerNotInGame
	}
	if color != g.toMove {
		return Ply{}, ErrNotYourTurn
	}

	move, err := matchMove(LegalMoves(g.board, color), req)
	if err != nil {
		return Ply{}, err
	}
	return g.executeMove(move), nil
}

// matchMove finds the legal move a request refers to. Captured squares narrow the
// search when given; they are needed only when distinct chains share from and to.
func matchMove(legal []Move, req MoveRequest) (Move, error) {
	var candidates []Move
	for _, m := range legal {
		if m.From != req.From || m.To != req.To {
			continue
		}
		if len(req.Captured) > 0 && !slices.Equal(m.Captured, req.Captured) {
			continue
		}
		if slices.ContainsFunc(candidates, m.Equal) {
			continue
		}
		candidates = append(candidates, m)
	}
	switch len(candidates) {
	case 0:
		return Move{}, fmt.Errorf("%w: %s-%s", ErrIllegalMove, req.From, req.To)
	case 1:
		return candidates[0], nil
	default:
		return Move{}, fmt.Errorf("%w: %d chains from %s to %s", ErrAmbiguousMove, len(candidates), req.From, req.To)
	}
}

func (g *Game) executeMove(m Move) Ply {
	piece := g.board.at(m.From)
	promoted := piece.Rank == Man && m.To.Row == piece.Owner.PromotionRow()

	g.board = ApplyMove(g.board, m)

	notation := m.String()
	if promoted {
		notation += "=K"
	}
	ply := Ply{
		Number:   len(g.history) + 1,
		Player:   g.toMove,
		Move:     m,
		Promoted: promoted,
		Notation: notation,
	}
	g.history = append(g.history, ply)
	g.lastMove = &m

	g.advanceTurn()
	return ply
}

// advanceTurn hands the move to the opponent and applies the end rule.
func (g *Game) advanceTurn() {
	mover := g.toMove
	next := mover.Opponent()
	g.toMove = next

	switch g.endRule {
	case EndRuleSideToMove:
		if !HasLegalMoves(g.board, next) {
			g.finish(resultFor(mover), MethodNoMoves)
		}
	default:
		// A side without pieces would otherwise pass forever.
		if IsGameOver(g.board) || g.board.Count(next) == 0 {
			g.finish(g.blockedResult(), MethodNoMoves)
			return
		}
		if !HasLegalMoves(g.board, next) {
			log.Debugf("game %s: %s has no legal move and passes", g.ID, next)
			g.history = append(g.history, Ply{
				Number:   len(g.history) + 1,
				Player:   next,
				Pass:     true,
				Notation: "pass",
			})
			g.toMove = mover
		}
	}
}

// blockedResult decides a game where neither side can move: a side with pieces
// left beats a side with none, anything else is a draw.
func (g *Game) blockedResult() Result {
	white, black := g.board.Count(White), g.board.Count(Black)
	switch {
	case white > 0 && black == 0:
		return ResultWhite
	case black > 0 && white == 0:
		return ResultBlack
	}
	return ResultDraw
}

func (g *Game) finish(result Result, method EndMethod) {
	g.status = StatusFinished
	g.result = result
	g.method = method
	log.Infow("game finished", "game", g.ID, "result", result, "method", method)
}

func (g *Game) Resign(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	color, ok := g.colorOf(playerID)
	if !ok {
		return ErrPlayerNotInGame
	}
	if g.status != StatusActive {
		return ErrGameNotActive
	}
	g.finish(resultFor(color.Opponent()), MethodResignation)
	return nil
}

func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.mu.Lock()
	isAuthorized := g.isPlayerInGame(playerID) || g.canSpectate()
	g.mu.Unlock()

	if !isAuthorized {
		return ErrUnauthorized
	}

	g.connections.mu.Lock()
	if _, exists := g.connections.connections[playerID]; exists {
		// Keep the live connection and turn the newcomer away.
		g.connections.mu.Unlock()
		_ = conn.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"),
		)
		_ = conn.Close()
		return nil
	}
	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()

	log.Debugf("game %s: registered connection for player %s", g.ID, playerID)
	return nil
}

func (g *Game) isPlayerInGame(playerID string) bool {
	_, ok := g.colorOf(playerID)
	return ok
}

// UnregisterConnection drops playerID's connection if conn is still the one on
// record; a stale connection closing must not evict its replacement.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Debugf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.RLock()
	defer g.connections.mu.RUnlock()
	return len(g.connections.connections)
}

// Broadcast writes msg to every connection of the game. Connections that fail
// are dropped.
func (g *Game) Broadcast(msg interface{}) {
	g.connections.mu.RLock()
	active := make(map[string]Conn, len(g.connections.connections))
	maps.Copy(active, g.connections.connections)
	g.connections.mu.RUnlock()

	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()

	for playerID, conn := range active {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.UnregisterConnection(playerID, conn)
		}
	}
}
