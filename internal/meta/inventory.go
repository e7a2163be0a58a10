package meta

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"sync"
	"time"

	"chessmancer/internal/model"
)

var log = slog.Default().With("package", "meta")

var ErrNotEnoughGold = errors.New("not enough gold")

const (
	startingGold       = 100
	startingCommand    = 10
	startingTactics    = 5
	startingPerception = 5
	startingArcana     = 5
)

// InventoryState is the serialized form of the inventory: the save-file
// schema and the API response body.
type InventoryState struct {
	Gold       int          `json:"gold"`
	Command    int          `json:"command"`
	Tactics    int          `json:"tactics"`
	Perception int          `json:"perception"`
	Arcana     int          `json:"arcana"`
	Active     []*PieceMeta `json:"activePieces"`
	Reserve    []*PieceMeta `json:"reservePieces"`
}

// Inventory is the player's collection: an active roster capped by the
// command stat, reserve storage, gold, and the dungeon stats. It persists
// itself as JSON at savePath. The single inventory is shared by the reward
// path and the HTTP handlers, so every access goes through the mutex;
// readers get a Snapshot.
type Inventory struct {
	mu         sync.Mutex
	gold       int
	command    int
	tactics    int
	perception int
	arcana     int
	active     []*PieceMeta
	reserve    []*PieceMeta

	savePath string
	rng      *rand.Rand
}

// Load reads the inventory at path, or returns a fresh one with the starter
// set when no save exists. A corrupt save is an error; it is never silently
// replaced.
func Load(path string) (*Inventory, error) {
	inv := &Inventory{
		gold:       startingGold,
		command:    startingCommand,
		tactics:    startingTactics,
		perception: startingPerception,
		arcana:     startingArcana,
		active:     []*PieceMeta{},
		reserve:    []*PieceMeta{},
		savePath:   path,
		rng:        rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		inv.starterSet()
		log.Info("no save found, created starter inventory", "path", path)
		return inv, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read inventory: %w", err)
	}

	var state InventoryState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("parse inventory %s: %w", path, err)
	}
	inv.gold = state.Gold
	inv.command = state.Command
	inv.tactics = state.Tactics
	inv.perception = state.Perception
	inv.arcana = state.Arcana
	if state.Active != nil {
		inv.active = state.Active
	}
	if state.Reserve != nil {
		inv.reserve = state.Reserve
	}
	if len(inv.active) == 0 && len(inv.reserve) == 0 {
		inv.starterSet()
	}
	return inv, nil
}

// Save writes the inventory back to its save path.
func (inv *Inventory) Save() error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	data, err := json.MarshalIndent(inv.stateLocked(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode inventory: %w", err)
	}
	if err := os.WriteFile(inv.savePath, data, 0o644); err != nil {
		return fmt.Errorf("write inventory: %w", err)
	}
	return nil
}

// Snapshot returns a consistent copy of the inventory for display or
// serialization.
func (inv *Inventory) Snapshot() InventoryState {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	return inv.stateLocked()
}

// stateLocked builds the serialized view. Callers hold mu. The slices are
// copied so a snapshot is not invalidated by later roster moves.
func (inv *Inventory) stateLocked() InventoryState {
	active := make([]*PieceMeta, len(inv.active))
	copy(active, inv.active)
	reserve := make([]*PieceMeta, len(inv.reserve))
	copy(reserve, inv.reserve)
	return InventoryState{
		Gold:       inv.gold,
		Command:    inv.command,
		Tactics:    inv.tactics,
		Perception: inv.perception,
		Arcana:     inv.arcana,
		Active:     active,
		Reserve:    reserve,
	}
}

// starterSet stocks a new roster: an uncommon king, four common pawns and a
// common knight.
func (inv *Inventory) starterSet() {
	inv.active = append(inv.active, NewPieceMeta(model.King, model.White, RarityUncommon))
	for i := 0; i < 4; i++ {
		inv.active = append(inv.active, NewPieceMeta(model.Pawn, model.White, RarityCommon))
	}
	inv.active = append(inv.active, NewPieceMeta(model.Knight, model.White, RarityCommon))
}

// AddPiece stores a piece, preferring the active roster when requested and
// there is command capacity, otherwise the reserve.
func (inv *Inventory) AddPiece(p *PieceMeta, toActive bool) {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if toActive && len(inv.active) < inv.command {
		inv.active = append(inv.active, p)
		return
	}
	inv.reserve = append(inv.reserve, p)
}

// MoveToActive promotes the reserve piece at index into the active roster.
func (inv *Inventory) MoveToActive(index int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if len(inv.active) >= inv.command {
		return false
	}
	if index < 0 || index >= len(inv.reserve) {
		return false
	}
	p := inv.reserve[index]
	inv.reserve = append(inv.reserve[:index], inv.reserve[index+1:]...)
	inv.active = append(inv.active, p)
	return true
}

// MoveToReserve demotes the active piece at index into storage.
func (inv *Inventory) MoveToReserve(index int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if index < 0 || index >= len(inv.active) {
		return false
	}
	p := inv.active[index]
	inv.active = append(inv.active[:index], inv.active[index+1:]...)
	inv.reserve = append(inv.reserve, p)
	return true
}

func (inv *Inventory) AddGold(amount int) {
	inv.mu.Lock()
	defer inv.mu.Unlock()
	inv.gold += amount
}

func (inv *Inventory) SpendGold(amount int) error {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	if inv.gold < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrNotEnoughGold, inv.gold, amount)
	}
	inv.gold -= amount
	return nil
}

// IncreaseStat bumps one of the named player stats. Unknown names report
// false.
func (inv *Inventory) IncreaseStat(name string, amount int) bool {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	switch name {
	case "command":
		inv.command += amount
	case "tactics":
		inv.tactics += amount
	case "perception":
		inv.perception += amount
	case "arcana":
		inv.arcana += amount
	default:
		return false
	}
	return true
}

var rarityWeights = []struct {
	rarity Rarity
	weight float64
}{
	{RarityCommon, 60},
	{RarityUncommon, 30},
	{RarityRare, 8},
	{RarityEpic, 1.5},
	{RarityLegendary, 0.5},
}

var kindWeights = []struct {
	kind   model.PieceKind
	weight float64
}{
	{model.Pawn, 50},
	{model.Knight, 15},
	{model.Bishop, 15},
	{model.Rook, 10},
	{model.Queen, 8},
	{model.King, 2},
}

// GenerateRandomPiece rolls a reward piece with rarity bounded to
// [min, max]. Rarity and kind are weighted draws; color is a coin flip.
func (inv *Inventory) GenerateRandomPiece(min, max Rarity) *PieceMeta {
	inv.mu.Lock()
	defer inv.mu.Unlock()

	var candidates []struct {
		rarity Rarity
		weight float64
	}
	for _, rw := range rarityWeights {
		if rw.rarity.atLeast(min) && rw.rarity.atMost(max) {
			candidates = append(candidates, rw)
		}
	}
	if len(candidates) == 0 {
		candidates = append(candidates, struct {
			rarity Rarity
			weight float64
		}{min, 1})
	}

	total := 0.0
	for _, c := range candidates {
		total += c.weight
	}
	roll := inv.rng.Float64() * total
	rarity := candidates[len(candidates)-1].rarity
	for _, c := range candidates {
		if roll < c.weight {
			rarity = c.rarity
			break
		}
		roll -= c.weight
	}

	total = 0
	for _, kw := range kindWeights {
		total += kw.weight
	}
	roll = inv.rng.Float64() * total
	kind := kindWeights[len(kindWeights)-1].kind
	for _, kw := range kindWeights {
		if roll < kw.weight {
			kind = kw.kind
			break
		}
		roll -= kw.weight
	}

	color := model.White
	if inv.rng.Intn(2) == 1 {
		color = model.Black
	}
	return NewPieceMeta(kind, color, rarity)
}
