package routes

import (
	"testing"

	"backend/trips"
)

func TestGroundingSnapshot_ProjectsFormWhenSnapshotIsEmpty(t *testing.T) {
	t.Parallel()

	req := travelAssistantRequest{
		Form: &trips.FormState{
			Destination: "Lisbon",
			StartDate:   "2026-04-01",
			Days: []trips.TripDay{
				{Date: "2026-04-01", Type: trips.DayTypeFlight, Title: "TP82"},
				{Date: "", Title: ""},
			},
		},
	}

	snap := groundingSnapshot(req)
	if snap.Destination == nil || *snap.Destination != "Lisbon" {
		t.Fatalf("snapshot destination=%v, want Lisbon", snap.Destination)
	}
	if len(snap.Days) != 1 || snap.Days[0].Title != "TP82" {
		t.Fatalf("snapshot days=%+v, want the single filled day", snap.Days)
	}
}

func TestGroundingSnapshot_PrefersAnExplicitSnapshot(t *testing.T) {
	t.Parallel()

	dest := "Porto"
	req := travelAssistantRequest{
		Snapshot: trips.Snapshot{Destination: &dest},
		Form:     &trips.FormState{Destination: "Lisbon"},
	}

	snap := groundingSnapshot(req)
	if snap.Destination == nil || *snap.Destination != "Porto" {
		t.Fatalf("snapshot destination=%v, want the explicit Porto", snap.Destination)
	}
}

func TestGroundingSnapshot_EmptyWithoutForm(t *testing.T) {
	t.Parallel()

	snap := groundingSnapshot(travelAssistantRequest{})
	if !snap.IsZero() {
		t.Fatalf("snapshot=%+v, want zero", snap)
	}
}
