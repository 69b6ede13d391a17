package trips

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"
)

func newDayId(index int) string {
	return fmt.Sprintf("temp-day-%d-%d", time.Now().UnixMilli(), index)
}

func newActivityId(dayIndex, activityIndex int) string {
	return fmt.Sprintf("temp-activity-%d-%d-%d", time.Now().UnixMilli(), dayIndex, activityIndex)
}

// NewEmptyDay returns a blank day entry with a single blank activity, the
// shape the form starts from.
func NewEmptyDay(index int) TripDay {
	return TripDay{
		Id:         newDayId(index),
		Type:       DayTypeActivity,
		Details:    map[string]string{},
		Activities: []DayActivity{{Id: newActivityId(index, 0), Title: ""}},
	}
}

// ApplyAgentUpdates merges an assistant patch into the form state.
//
// Scalars are overwritten only when the patch provides them. A non-empty day
// list replaces the prior days positionally: day i of the patch keeps the
// identity and attachments of prior day i while fully overwriting its
// structured fields, so a patched day that omits notes ends with empty notes.
// Days beyond the prior list length are new. Activities are regenerated from
// the patch; when a patched day carries identifying content but no activities,
// one activity is synthesized from the day-level fields so nothing is dropped.
func ApplyAgentUpdates(prev FormState, updates Snapshot) FormState {
	next := prev

	if updates.Destination != nil {
		next.Destination = *updates.Destination
	}
	if updates.StartDate != nil {
		next.StartDate = NormalizeDateOnly(*updates.StartDate)
	}
	if updates.EndDate != nil {
		next.EndDate = NormalizeDateOnly(*updates.EndDate)
	}
	if len(updates.Days) == 0 {
		return next
	}

	next.Days = lo.Map(updates.Days, func(d DayPatch, i int) TripDay {
		acts := lo.Map(d.Activities, func(a ActivityPatch, j int) DayActivity {
			return DayActivity{
				Id:       newActivityId(i, j),
				Title:    a.Title,
				Time:     a.Time,
				Location: a.Location,
			}
		})
		if len(acts) == 0 && hasDayContent(d) {
			acts = []DayActivity{{
				Id:       newActivityId(i, 0),
				Title:    d.Title,
				Time:     d.Time,
				Location: d.Location,
			}}
		}
		if len(acts) == 0 {
			acts = []DayActivity{{Id: newActivityId(i, 0), Title: ""}}
		}

		day := TripDay{
			Id:             newDayId(i),
			Date:           NormalizeDateOnly(d.Date),
			Type:           NormalizeDayType(d.Type),
			Title:          d.Title,
			Time:           d.Time,
			Location:       d.Location,
			Notes:          d.Notes,
			Details:        d.Details,
			Activities:     acts,
			ChecklistItems: d.ChecklistItems,
		}
		if day.Details == nil {
			day.Details = map[string]string{}
		}
		if i < len(prev.Days) {
			day.Id = prev.Days[i].Id
			day.Attachments = prev.Days[i].Attachments
		}
		return day
	})

	return next
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func hasDayContent(d DayPatch) bool {
	return trimmed(d.Title) != "" || trimmed(d.Time) != "" || trimmed(d.Location) != ""
}

// FormToSnapshot projects the form into the patch shape the assistant is
// grounded with. Days without a date or title are still blank placeholders
// and are left out.
func FormToSnapshot(form FormState) Snapshot {
	snap := Snapshot{
		Destination: optional(form.Destination),
		StartDate:   optional(form.StartDate),
		EndDate:     optional(form.EndDate),
	}

	filled := lo.Filter(form.Days, func(d TripDay, _ int) bool {
		return trimmed(d.Date) != "" || trimmed(d.Title) != ""
	})
	snap.Days = lo.Map(filled, func(d TripDay, _ int) DayPatch {
		return DayPatch{
			Date:     d.Date,
			Type:     d.Type,
			Title:    d.Title,
			Time:     d.Time,
			Location: d.Location,
			Notes:    d.Notes,
			Details:  d.Details,
			Activities: lo.Map(d.Activities, func(a DayActivity, _ int) ActivityPatch {
				return ActivityPatch{Title: a.Title, Time: a.Time, Location: a.Location}
			}),
			ChecklistItems: d.ChecklistItems,
		}
	})

	return snap
}
