// Package meta holds the collectible-piece layer: rarity, leveling,
// durability and the player inventory. It is composed alongside the rules
// core rather than baked into it: a PieceMeta is attached to a board piece
// by ID, and nothing in move legality ever consults it.
package meta

import (
	"math"

	"chessmancer/internal/model"

	"github.com/google/uuid"
)

type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

var rarityOrder = map[Rarity]int{
	RarityCommon:    1,
	RarityUncommon:  2,
	RarityRare:      3,
	RarityEpic:      4,
	RarityLegendary: 5,
}

// Multiplier scales base durability and overall effectiveness.
func (r Rarity) Multiplier() float64 {
	switch r {
	case RarityUncommon:
		return 1.3
	case RarityRare:
		return 1.7
	case RarityEpic:
		return 2.2
	case RarityLegendary:
		return 3.0
	}
	return 1.0
}

func (r Rarity) AbilitySlots() int {
	switch r {
	case RarityUncommon, RarityRare:
		return 1
	case RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	}
	return 0
}

func (r Rarity) EquipmentSlots() int {
	switch r {
	case RarityRare, RarityEpic:
		return 2
	case RarityLegendary:
		return 3
	}
	return 1
}

func (r Rarity) atLeast(min Rarity) bool { return rarityOrder[r] >= rarityOrder[min] }
func (r Rarity) atMost(max Rarity) bool  { return rarityOrder[r] <= rarityOrder[max] }

var baseDurability = map[model.PieceKind]int{
	model.Pawn:   10,
	model.Knight: 20,
	model.Bishop: 20,
	model.Rook:   30,
	model.Queen:  40,
	model.King:   50,
}

const (
	durabilityPerLevel = 2
	xpBase             = 100
	xpGrowth           = 1.5
)

// PieceMeta is the RPG record for one collectible piece. It carries its own
// identity so it can live in an inventory with no board piece attached, and
// be bound to one (by ID) when deployed.
type PieceMeta struct {
	ID                string            `json:"id"`
	Kind              model.PieceKind   `json:"kind"`
	Color             model.Color       `json:"color"`
	Rarity            Rarity            `json:"rarity"`
	Level             int               `json:"level"`
	XP                int               `json:"xp"`
	MaxDurability     int               `json:"maxDurability"`
	CurrentDurability int               `json:"currentDurability"`
	SpecialAbilities  []string          `json:"specialAbilities"`
	Equipment         map[string]string `json:"equipment"`
}

func NewPieceMeta(kind model.PieceKind, color model.Color, rarity Rarity) *PieceMeta {
	m := &PieceMeta{
		ID:               uuid.NewString(),
		Kind:             kind,
		Color:            color,
		Rarity:           rarity,
		Level:            1,
		SpecialAbilities: []string{},
		Equipment:        map[string]string{},
	}
	m.MaxDurability = int(float64(baseDurability[kind]) * rarity.Multiplier())
	m.CurrentDurability = m.MaxDurability
	return m
}

// XPToNextLevel returns the XP still required to reach the next level.
// The full cost of level n -> n+1 is 100 * 1.5^(n-1).
func (m *PieceMeta) XPToNextLevel() int {
	cost := float64(xpBase) * math.Pow(xpGrowth, float64(m.Level-1))
	return int(cost) - m.XP
}

// AddXP accumulates experience and applies any level-ups it pays for.
// Leveling raises max durability and restores the piece to full. Reports
// whether at least one level was gained.
func (m *PieceMeta) AddXP(amount int) bool {
	if amount <= 0 {
		return false
	}
	m.XP += amount
	leveled := false
	for {
		cost := int(float64(xpBase) * math.Pow(xpGrowth, float64(m.Level-1)))
		if m.XP < cost {
			break
		}
		m.XP -= cost
		m.Level++
		m.MaxDurability += durabilityPerLevel
		m.CurrentDurability = m.MaxDurability
		leveled = true
	}
	return leveled
}

// TakeDamage lowers durability, floored at zero, and reports whether the
// piece is still usable.
func (m *PieceMeta) TakeDamage(amount int) bool {
	m.CurrentDurability -= amount
	if m.CurrentDurability < 0 {
		m.CurrentDurability = 0
	}
	return m.CurrentDurability > 0
}

// Repair restores durability, capped at the maximum.
func (m *PieceMeta) Repair(amount int) {
	m.CurrentDurability += amount
	if m.CurrentDurability > m.MaxDurability {
		m.CurrentDurability = m.MaxDurability
	}
}

func (m *PieceMeta) Effectiveness() float64 {
	return m.Rarity.Multiplier()
}
