package engine

import (
	"testing"

	"github.com/nathoo/skirmish/engine/events"
	"github.com/nathoo/skirmish/engine/events/mocks"
	"github.com/nathoo/skirmish/types"
	"go.uber.org/mock/gomock"
)

// recorder collects kill events in delivery order.
type recorder struct {
	kills []types.KillEvent
}

func (r *recorder) OnKill(ev types.KillEvent) { r.kills = append(r.kills, ev) }

func (r *recorder) pairs() []string {
	out := make([]string, len(r.kills))
	for i, k := range r.kills {
		out[i] = k.Killer.Name + ">" + k.Killed.Name
	}
	return out
}

func names(e *Engine) []string {
	var out []string
	for _, s := range e.NPCs() {
		out = append(out, s.Name)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBattle_SquirrelKillsWerewolf(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindSquirrel, 10, 10, "S")
	mustAdd(t, e, types.KindWerewolf, 11, 11, "W")

	rec := &recorder{}
	e.AddObserver(rec)

	report := e.Battle(20)

	if len(rec.kills) != 1 {
		t.Fatalf("expected 1 kill, got %d", len(rec.kills))
	}
	ev := rec.kills[0]
	if ev.Killer.Name != "S" || ev.Killed.Name != "W" {
		t.Errorf("kill = %s>%s, want S>W", ev.Killer.Name, ev.Killed.Name)
	}
	if ev.Killed.Alive {
		t.Error("killed snapshot should not be alive")
	}
	if !ev.Killer.Alive {
		t.Error("killer snapshot should be alive")
	}
	if ev.Battle != report.ID {
		t.Errorf("event battle %v, report %v", ev.Battle, report.ID)
	}
	if got := names(e); !equalStrings(got, []string{"S"}) {
		t.Errorf("roster = %v, want [S]", got)
	}
	if report.Before != 2 || report.After != 1 {
		t.Errorf("report = %+v", report)
	}
}

func TestBattle_NotifiesEachObserverOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	first := mocks.NewMockObserver(ctrl)
	second := mocks.NewMockObserver(ctrl)

	gomock.InOrder(
		first.EXPECT().OnKill(gomock.Any()).Times(1),
		second.EXPECT().OnKill(gomock.Any()).Times(1),
	)

	e := testEngine()
	mustAdd(t, e, types.KindSquirrel, 10, 10, "S")
	mustAdd(t, e, types.KindWerewolf, 11, 11, "W")
	e.AddObserver(first)
	e.AddObserver(second)

	e.Battle(20)
	// The werewolf is gone, a second battle has nothing to report.
	e.Battle(20)
}

func TestBattle_DruidsNeverKill(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindDruid, 10, 10, "D1")
	mustAdd(t, e, types.KindDruid, 11, 11, "D2")

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(100)

	if len(rec.kills) != 0 {
		t.Errorf("expected no kills, got %v", rec.pairs())
	}
	if e.Len() != 2 {
		t.Errorf("Len = %d, want 2", e.Len())
	}
}

func TestBattle_OutOfRange(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindSquirrel, 0, 0, "S")
	mustAdd(t, e, types.KindWerewolf, 100, 0, "W")

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(1)

	if len(rec.kills) != 0 || e.Len() != 2 {
		t.Errorf("expected no change, kills %v, roster %v", rec.pairs(), names(e))
	}
}

func TestBattle_ExactDistanceIsNotInRange(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindSquirrel, 0, 0, "S")
	mustAdd(t, e, types.KindWerewolf, 3, 4, "W")

	e.Battle(5)
	if e.Len() != 2 {
		t.Errorf("NPCs exactly at the limit fought: roster %v", names(e))
	}

	e.Battle(5.01)
	if got := names(e); !equalStrings(got, []string{"S"}) {
		t.Errorf("roster = %v, want [S]", got)
	}
}

func TestBattle_EmptyAndSingle(t *testing.T) {
	e := testEngine()
	report := e.Battle(50)
	if report.Before != 0 || report.After != 0 {
		t.Errorf("empty battle report = %+v", report)
	}

	mustAdd(t, e, types.KindWerewolf, 1, 1, "W")
	e.Battle(50)
	if e.Len() != 1 {
		t.Errorf("a lone NPC cannot die, roster %v", names(e))
	}
}

func TestBattle_FirstKillerWins(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindWerewolf, 10, 10, "W")
	mustAdd(t, e, types.KindSquirrel, 11, 11, "S1")
	mustAdd(t, e, types.KindSquirrel, 12, 12, "S2")

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(20)

	if got := rec.pairs(); !equalStrings(got, []string{"S1>W"}) {
		t.Errorf("kills = %v, want [S1>W]", got)
	}
	if got := names(e); !equalStrings(got, []string{"S1", "S2"}) {
		t.Errorf("roster = %v, want [S1 S2]", got)
	}
}

func TestBattle_DeadCannotAttack(t *testing.T) {
	// W dies first, so it cannot take D afterwards; S gets D instead.
	e := testEngine()
	mustAdd(t, e, types.KindWerewolf, 10, 10, "W")
	mustAdd(t, e, types.KindSquirrel, 11, 11, "S")
	mustAdd(t, e, types.KindDruid, 12, 12, "D")

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(20)

	if got := rec.pairs(); !equalStrings(got, []string{"S>W", "S>D"}) {
		t.Errorf("kills = %v, want [S>W S>D]", got)
	}
	if got := names(e); !equalStrings(got, []string{"S"}) {
		t.Errorf("roster = %v, want [S]", got)
	}
}

func TestBattle_SweepOrder(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindDruid, 10, 10, "D")
	mustAdd(t, e, types.KindWerewolf, 11, 11, "W")
	mustAdd(t, e, types.KindSquirrel, 12, 12, "S")

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(20)

	if got := rec.pairs(); !equalStrings(got, []string{"W>D", "S>W"}) {
		t.Errorf("kills = %v, want [W>D S>W]", got)
	}
	if got := names(e); !equalStrings(got, []string{"S"}) {
		t.Errorf("roster = %v, want [S]", got)
	}
}

func TestBattle_ChainRespectsRange(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindWerewolf, 10, 10, "W")
	mustAdd(t, e, types.KindDruid, 12, 12, "D")
	mustAdd(t, e, types.KindSquirrel, 14, 14, "S")

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(5)

	if got := rec.pairs(); !equalStrings(got, []string{"W>D"}) {
		t.Errorf("kills = %v, want [W>D]", got)
	}
	if got := names(e); !equalStrings(got, []string{"W", "S"}) {
		t.Errorf("roster = %v, want [W S]", got)
	}
}

func TestBattle_PurgeKeepsOrder(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindDruid, 0, 0, "D1")
	mustAdd(t, e, types.KindWerewolf, 200, 200, "W1")
	mustAdd(t, e, types.KindDruid, 400, 400, "D2")
	mustAdd(t, e, types.KindSquirrel, 201, 201, "S1")
	mustAdd(t, e, types.KindDruid, 500, 500, "D3")

	e.Battle(10)

	if got := names(e); !equalStrings(got, []string{"D1", "D2", "S1", "D3"}) {
		t.Errorf("roster = %v, want [D1 D2 S1 D3]", got)
	}
}

func TestBattle_ObserverFunc(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindSquirrel, 10, 10, "S")
	mustAdd(t, e, types.KindDruid, 11, 11, "D")

	var killed string
	e.AddObserver(events.ObserverFunc(func(ev types.KillEvent) { killed = ev.Killed.Name }))
	e.Battle(20)

	if killed != "D" {
		t.Errorf("killed = %q, want D", killed)
	}
	if e.Observers() != 1 {
		t.Errorf("Observers = %d, want 1", e.Observers())
	}
}

func TestBattle_Idempotent(t *testing.T) {
	e := testEngine()
	mustAdd(t, e, types.KindSquirrel, 10, 10, "S")
	mustAdd(t, e, types.KindWerewolf, 11, 11, "W")
	mustAdd(t, e, types.KindDruid, 300, 300, "D")

	e.Battle(20)
	after := dump(t, e)

	rec := &recorder{}
	e.AddObserver(rec)
	e.Battle(20)

	if len(rec.kills) != 0 {
		t.Errorf("second battle killed %v", rec.pairs())
	}
	if got := dump(t, e); got != after {
		t.Errorf("roster changed:\n%s\n---\n%s", after, got)
	}
}
