package trips

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"
)

const (
	CollectionTrips    = "trips"
	CollectionTripDays = "trip_days"
)

var (
	ErrDestinationRequired = errors.New("trip destination is required")
	ErrDayWithoutDate      = errors.New("every day entry needs a date before the trip can be saved")
)

// ValidateForSave enforces the invariants of a persisted trip. The assistant
// is never allowed to invent a date, so a day that reaches finalization
// without one is rejected rather than patched up.
func ValidateForSave(trip Trip) error {
	if strings.TrimSpace(trip.Destination) == "" {
		return ErrDestinationRequired
	}
	for i, day := range trip.Days {
		if NormalizeDateOnly(day.Date) == "" {
			return fmt.Errorf("day %d: %w", i+1, ErrDayWithoutDate)
		}
	}
	return nil
}

// Finalize writes a fully merged trip into the trips and trip_days
// collections, replacing any previously stored days. A trip with a known Id
// is updated in place; otherwise a new record is created.
func Finalize(app core.App, trip Trip) (Trip, error) {
	if err := ValidateForSave(trip); err != nil {
		return Trip{}, err
	}

	record, err := findOrCreateTripRecord(app, trip.Id)
	if err != nil {
		return Trip{}, err
	}

	record.Set("destination", trip.Destination)
	record.Set("startDate", NormalizeDateOnly(trip.StartDate))
	record.Set("endDate", NormalizeDateOnly(trip.EndDate))
	if err := app.Save(record); err != nil {
		return Trip{}, fmt.Errorf("save trip: %w", err)
	}

	if err := replaceDays(app, record.Id, trip.Days); err != nil {
		return Trip{}, err
	}

	return TripFromRecord(app, record)
}

func findOrCreateTripRecord(app core.App, id string) (*core.Record, error) {
	if id != "" {
		record, err := app.FindRecordById(CollectionTrips, id)
		if err == nil {
			return record, nil
		}
	}
	collection, err := app.FindCollectionByNameOrId(CollectionTrips)
	if err != nil {
		return nil, fmt.Errorf("find trips collection: %w", err)
	}
	return core.NewRecord(collection), nil
}

func replaceDays(app core.App, tripId string, days []TripDay) error {
	existing, err := app.FindAllRecords(CollectionTripDays,
		dbx.NewExp("trip = {:tripId}", dbx.Params{"tripId": tripId}))
	if err != nil {
		return fmt.Errorf("load stored days: %w", err)
	}
	for _, record := range existing {
		if err := app.Delete(record); err != nil {
			return fmt.Errorf("remove stored day: %w", err)
		}
	}

	collection, err := app.FindCollectionByNameOrId(CollectionTripDays)
	if err != nil {
		return fmt.Errorf("find trip_days collection: %w", err)
	}
	for position, day := range days {
		record := core.NewRecord(collection)
		record.Set("trip", tripId)
		record.Set("position", position)
		record.Set("date", NormalizeDateOnly(day.Date))
		record.Set("type", NormalizeDayType(day.Type))
		record.Set("title", day.Title)
		record.Set("time", day.Time)
		record.Set("location", day.Location)
		record.Set("notes", day.Notes)
		record.Set("details", day.Details)
		record.Set("activities", day.Activities)
		record.Set("checklistItems", day.ChecklistItems)
		record.Set("attachments", day.Attachments)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("save day %d: %w", position+1, err)
		}
	}
	return nil
}

// TripFromRecord loads a trip record together with its ordered day entries.
func TripFromRecord(app core.App, record *core.Record) (Trip, error) {
	days, err := loadDays(app, record.Id)
	if err != nil {
		return Trip{}, err
	}
	return Trip{
		Id:          record.Id,
		Destination: record.GetString("destination"),
		StartDate:   record.GetString("startDate"),
		EndDate:     record.GetString("endDate"),
		Days:        days,
		Created:     record.GetDateTime("created").String(),
		Updated:     record.GetDateTime("updated").String(),
	}, nil
}

func loadDays(app core.App, tripId string) ([]TripDay, error) {
	records, err := app.FindAllRecords(CollectionTripDays,
		dbx.NewExp("trip = {:tripId}", dbx.Params{"tripId": tripId}))
	if err != nil {
		return nil, fmt.Errorf("load days: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].GetInt("position") < records[j].GetInt("position")
	})

	days := make([]TripDay, 0, len(records))
	for _, record := range records {
		var details map[string]string
		var activities []DayActivity
		var checklist []string
		var attachments []Attachment

		_ = record.UnmarshalJSONField("details", &details)
		_ = record.UnmarshalJSONField("activities", &activities)
		_ = record.UnmarshalJSONField("checklistItems", &checklist)
		_ = record.UnmarshalJSONField("attachments", &attachments)

		days = append(days, TripDay{
			Id:             record.Id,
			Date:           record.GetString("date"),
			Type:           record.GetString("type"),
			Title:          record.GetString("title"),
			Time:           record.GetString("time"),
			Location:       record.GetString("location"),
			Notes:          record.GetString("notes"),
			Details:        details,
			Activities:     activities,
			ChecklistItems: checklist,
			Attachments:    attachments,
		})
	}
	return days, nil
}

// ListTrips returns every stored trip ordered by start date.
func ListTrips(app core.App) ([]Trip, error) {
	records, err := app.FindAllRecords(CollectionTrips)
	if err != nil {
		return nil, fmt.Errorf("load trips: %w", err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].GetString("startDate") < records[j].GetString("startDate")
	})

	result := make([]Trip, 0, len(records))
	for _, record := range records {
		trip, err := TripFromRecord(app, record)
		if err != nil {
			return nil, err
		}
		result = append(result, trip)
	}
	return result, nil
}
