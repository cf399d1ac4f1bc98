package resolve

import (
	"testing"

	"github.com/bluelinehq/rinkline/internal/domain/dimension"
	"github.com/bluelinehq/rinkline/internal/domain/event"
	"github.com/bluelinehq/rinkline/internal/domain/qa"
)

func testRegistry() *dimension.Registry {
	return dimension.NewRegistry([]dimension.Entity{
		{
			Type: dimension.TypePlayer, Key: "PLR-001", Name: "Alex Petersson",
			PotentialValues: []string{"A. Petersson", "Petersson"},
			OldEquivalents:  []string{"Peterson A"},
			Scope:           "TEAM-A",
		},
		{
			Type: dimension.TypePlayer, Key: "PLR-002", Name: "Alex Peterssen",
			Scope: "TEAM-B",
		},
		{
			Type: dimension.TypeTeam, Key: "TEAM-A", Name: "Anchorage Avalanche",
			PotentialValues: []string{"Avalanche", "ANC"},
		},
		{
			Type: dimension.TypeZone, Key: "ZONE-OFF", Name: "Offensive",
			PotentialValues: []string{"Off", "O-Zone"},
		},
	})
}

func newTestResolver(t *testing.T, required map[dimension.EntityType]bool) *Resolver {
	t.Helper()
	r, err := NewResolver(testRegistry(), NewLevenshteinScorer(), 0.8, 0.05, required)
	if err != nil {
		t.Fatalf("new resolver: %v", err)
	}
	return r
}

func TestResolver_ExactAndAliasTiers(t *testing.T) {
	r := newTestResolver(t, nil)

	res := r.Resolve("PLR-001", dimension.TypePlayer, "")
	if res.Confidence != dimension.ConfidenceExact || res.Key != "PLR-001" {
		t.Fatalf("canonical key must resolve exact, got %+v", res)
	}

	res = r.Resolve("Peterson A", dimension.TypePlayer, "")
	if res.Confidence != dimension.ConfidenceExact || res.Key != "PLR-001" {
		t.Fatalf("old equivalent must resolve exact, got %+v", res)
	}

	res = r.Resolve("a. petersson", dimension.TypePlayer, "")
	if res.Confidence != dimension.ConfidenceAlias || res.Key != "PLR-001" {
		t.Fatalf("registered variant must resolve at alias tier, got %+v", res)
	}
}

func TestResolver_FuzzyWithinScope(t *testing.T) {
	r := newTestResolver(t, nil)

	// misspelled mention, roster scope excludes the confusable TEAM-B player
	res := r.Resolve("Alex Peterssen", dimension.TypePlayer, "TEAM-A")
	if res.Confidence != dimension.ConfidenceFuzzy {
		t.Fatalf("expected fuzzy match, got %+v", res)
	}
	if res.Key != "PLR-001" {
		t.Fatalf("expected PLR-001, got %s", res.Key)
	}
}

func TestResolver_AmbiguousMatchStaysUnresolved(t *testing.T) {
	r := newTestResolver(t, nil)

	// unscoped, the mention sits exactly between both confusable players
	res := r.Resolve("Alex Peterssan", dimension.TypePlayer, "")
	if res.Confidence != dimension.ConfidenceUnresolved {
		t.Fatalf("ambiguous mention must stay unresolved, got %+v", res)
	}
	if res.Reason == "" {
		t.Fatalf("unresolved result must carry a reason")
	}
}

func TestResolver_BelowThresholdUnresolved(t *testing.T) {
	r := newTestResolver(t, nil)

	res := r.Resolve("Completely Different Name", dimension.TypePlayer, "TEAM-A")
	if res.Confidence != dimension.ConfidenceUnresolved {
		t.Fatalf("low-similarity mention must stay unresolved, got %+v", res)
	}
}

func TestResolver_Deterministic(t *testing.T) {
	r := newTestResolver(t, nil)

	first := r.Resolve("Alex Peterssen", dimension.TypePlayer, "TEAM-A")
	for i := 0; i < 5; i++ {
		again := r.Resolve("Alex Peterssen", dimension.TypePlayer, "TEAM-A")
		if again != first {
			t.Fatalf("re-resolution diverged: %+v vs %+v", again, first)
		}
	}

	// a fresh resolver over the same registry snapshot must agree
	fresh := newTestResolver(t, nil)
	if got := fresh.Resolve("Alex Peterssen", dimension.TypePlayer, "TEAM-A"); got != first {
		t.Fatalf("fresh resolver diverged: %+v vs %+v", got, first)
	}
}

func TestResolver_ResolveEvents(t *testing.T) {
	r := newTestResolver(t, map[dimension.EntityType]bool{
		dimension.TypePlayer: true,
		dimension.TypeTeam:   true,
	})

	events := []event.Event{
		{GameID: "g1", Type: event.TypeShot, TeamRef: "Avalanche", PlayerRef: "Petersson", Zone: event.ZoneOffensive},
		{GameID: "g1", Type: event.TypeShot, TeamRef: "Avalanche", PlayerRef: "Nobody Known", Zone: event.ZoneOffensive},
	}

	resolved, resolutions, findings := r.ResolveEvents(events)

	if resolved[0].TeamKey != "TEAM-A" || resolved[0].PlayerKey != "PLR-001" || resolved[0].ZoneKey != "ZONE-OFF" {
		t.Fatalf("unexpected keys on resolved event: %+v", resolved[0])
	}
	if resolved[1].PlayerKey != "" {
		t.Fatalf("unresolved mention must propagate as an explicit empty key")
	}

	if len(resolutions) != 6 {
		t.Fatalf("expected 6 resolution records, got %d", len(resolutions))
	}

	var blocking int
	for _, finding := range findings {
		if finding.Tier == qa.TierBlocking {
			blocking++
		}
	}
	if blocking != 1 {
		t.Fatalf("unresolved player is a required grain key and must block, got %d blocking findings", blocking)
	}
}

func TestNewResolver_RejectsDegenerateThresholds(t *testing.T) {
	if _, err := NewResolver(testRegistry(), NewLevenshteinScorer(), 0.3, 0.4, nil); err == nil {
		t.Fatalf("expected error when ambiguity margin exceeds min confidence")
	}
}
