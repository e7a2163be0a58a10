package meta

import (
	"path/filepath"
	"sync"
	"testing"

	"chessmancer/internal/model"
)

func TestNewPieceMetaDefaults(t *testing.T) {
	p := NewPieceMeta(model.Pawn, model.White, RarityCommon)
	if p.Level != 1 {
		t.Fatalf("level = %d, want 1", p.Level)
	}
	if p.MaxDurability != 10 || p.CurrentDurability != 10 {
		t.Fatalf("durability = %d/%d, want 10/10", p.CurrentDurability, p.MaxDurability)
	}
	if len(p.SpecialAbilities) != 0 || len(p.Equipment) != 0 {
		t.Fatal("expected empty abilities and equipment")
	}
}

func TestRarityEffects(t *testing.T) {
	common := NewPieceMeta(model.Pawn, model.White, RarityCommon)
	legendary := NewPieceMeta(model.Pawn, model.White, RarityLegendary)

	if common.MaxDurability != 10 {
		t.Fatalf("common pawn durability = %d, want 10", common.MaxDurability)
	}
	if legendary.MaxDurability != 30 {
		t.Fatalf("legendary pawn durability = %d, want 30", legendary.MaxDurability)
	}
	if got := common.Rarity.AbilitySlots(); got != 0 {
		t.Fatalf("common ability slots = %d, want 0", got)
	}
	if got := legendary.Rarity.AbilitySlots(); got != 3 {
		t.Fatalf("legendary ability slots = %d, want 3", got)
	}
	if got := common.Rarity.EquipmentSlots(); got != 1 {
		t.Fatalf("common equipment slots = %d, want 1", got)
	}
	if got := legendary.Rarity.EquipmentSlots(); got != 3 {
		t.Fatalf("legendary equipment slots = %d, want 3", got)
	}
	if common.Effectiveness() != 1.0 || legendary.Effectiveness() != 3.0 {
		t.Fatalf("effectiveness = %v / %v, want 1.0 / 3.0",
			common.Effectiveness(), legendary.Effectiveness())
	}
}

func TestLevelUp(t *testing.T) {
	p := NewPieceMeta(model.Knight, model.Black, RarityCommon)
	if p.MaxDurability != 20 {
		t.Fatalf("knight durability = %d, want 20", p.MaxDurability)
	}
	if need := p.XPToNextLevel(); need != 100 {
		t.Fatalf("xp to level 2 = %d, want 100", need)
	}

	if !p.AddXP(100) {
		t.Fatal("expected a level up at 100 xp")
	}
	if p.Level != 2 {
		t.Fatalf("level = %d, want 2", p.Level)
	}
	if p.MaxDurability != 22 || p.CurrentDurability != 22 {
		t.Fatalf("durability = %d/%d, want 22/22", p.CurrentDurability, p.MaxDurability)
	}
	if need := p.XPToNextLevel(); need <= 100 {
		t.Fatalf("xp to level 3 = %d, want > 100", need)
	}
}

func TestDamageAndRepair(t *testing.T) {
	p := NewPieceMeta(model.Rook, model.White, RarityCommon)
	if p.CurrentDurability != 30 {
		t.Fatalf("rook durability = %d, want 30", p.CurrentDurability)
	}

	if !p.TakeDamage(10) {
		t.Fatal("piece should survive 10 damage")
	}
	if p.TakeDamage(20) {
		t.Fatal("piece should be broken at 0 durability")
	}
	if p.CurrentDurability != 0 {
		t.Fatalf("durability = %d, want 0", p.CurrentDurability)
	}

	p.Repair(15)
	if p.CurrentDurability != 15 {
		t.Fatalf("durability after repair = %d, want 15", p.CurrentDurability)
	}
	p.Repair(20)
	if p.CurrentDurability != 30 {
		t.Fatalf("durability capped = %d, want 30", p.CurrentDurability)
	}
}

func TestLoadCreatesStarterSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	state := inv.Snapshot()
	if state.Gold != 100 || state.Command != 10 {
		t.Fatalf("gold/command = %d/%d, want 100/10", state.Gold, state.Command)
	}
	if len(state.Active) != 6 {
		t.Fatalf("starter roster size = %d, want 6", len(state.Active))
	}
	counts := map[model.PieceKind]int{}
	for _, p := range state.Active {
		counts[p.Kind]++
	}
	if counts[model.King] != 1 || counts[model.Pawn] != 4 || counts[model.Knight] != 1 {
		t.Fatalf("starter composition = %v", counts)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	queen := NewPieceMeta(model.Queen, model.Black, RarityEpic)
	queen.AddXP(50)
	queen.SpecialAbilities = []string{"teleport", "phantom_strike"}
	queen.Equipment["weapon"] = "magic_staff"
	inv.AddPiece(queen, false)
	inv.AddGold(40)
	if err := inv.Save(); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	state := loaded.Snapshot()
	if state.Gold != 140 {
		t.Fatalf("gold = %d, want 140", state.Gold)
	}
	if len(state.Reserve) != 1 {
		t.Fatalf("reserve size = %d, want 1", len(state.Reserve))
	}
	got := state.Reserve[0]
	if got.Kind != model.Queen || got.Rarity != RarityEpic || got.XP != 50 {
		t.Fatalf("reserve piece mismatch: %+v", got)
	}
	if got.Equipment["weapon"] != "magic_staff" {
		t.Fatalf("equipment not preserved: %v", got.Equipment)
	}
}

func TestRosterMovesRespectCommandCap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	start := inv.Snapshot()
	for i := len(start.Active); i < start.Command; i++ {
		inv.AddPiece(NewPieceMeta(model.Pawn, model.White, RarityCommon), true)
	}
	inv.AddPiece(NewPieceMeta(model.Bishop, model.White, RarityCommon), true)

	state := inv.Snapshot()
	if len(state.Active) != state.Command {
		t.Fatalf("active = %d, want capped at %d", len(state.Active), state.Command)
	}
	if len(state.Reserve) != 1 {
		t.Fatalf("overflow piece should land in reserve, got %d", len(state.Reserve))
	}

	if inv.MoveToActive(0) {
		t.Fatal("move to a full roster should fail")
	}
	if !inv.MoveToReserve(0) {
		t.Fatal("move to reserve should succeed")
	}
	if !inv.MoveToActive(0) {
		t.Fatal("move to roster with room should succeed")
	}
}

func TestSpendGold(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if err := inv.SpendGold(60); err != nil {
		t.Fatal(err)
	}
	if err := inv.SpendGold(60); err == nil {
		t.Fatal("expected overdraft to fail")
	}
	if got := inv.Snapshot().Gold; got != 40 {
		t.Fatalf("gold = %d, want 40", got)
	}
}

func TestIncreaseStat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if !inv.IncreaseStat("command", 2) {
		t.Fatal("command should be a known stat")
	}
	if got := inv.Snapshot().Command; got != 12 {
		t.Fatalf("command = %d, want 12", got)
	}
	if inv.IncreaseStat("charisma", 1) {
		t.Fatal("unknown stat should report false")
	}
}

func TestConcurrentAccess(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	// Reward payouts and HTTP handlers hit the one shared inventory at the
	// same time. Run with -race.
	const workers = 8
	const rounds = 50
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < rounds; i++ {
				inv.AddGold(1)
				inv.AddPiece(inv.GenerateRandomPiece(RarityCommon, RarityRare), false)
				_ = inv.Snapshot()
				inv.MoveToReserve(0)
				inv.MoveToActive(0)
			}
		}()
	}
	wg.Wait()

	state := inv.Snapshot()
	if want := 100 + workers*rounds; state.Gold != want {
		t.Fatalf("gold = %d, want %d", state.Gold, want)
	}
	if total := len(state.Active) + len(state.Reserve); total != 6+workers*rounds {
		t.Fatalf("piece count = %d, want %d", total, 6+workers*rounds)
	}
}

func TestGenerateRandomPieceRespectsBounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	inv, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 200; i++ {
		p := inv.GenerateRandomPiece(RarityUncommon, RarityEpic)
		if !p.Rarity.atLeast(RarityUncommon) || !p.Rarity.atMost(RarityEpic) {
			t.Fatalf("rarity %s out of bounds", p.Rarity)
		}
	}
}
