package trips

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
)

// BuildCalendar renders a stored trip as an iCalendar document with one event
// per day entry. Entries with a recognizable HH:MM time become one-hour timed
// events; the rest are all-day.
func BuildCalendar(trip Trip) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//backend//trip planner//EN")
	if trip.Destination != "" {
		cal.SetName(trip.Destination)
	}

	now := time.Now().UTC()
	for i, day := range trip.Days {
		date := NormalizeDateOnly(day.Date)
		start, err := time.Parse("2006-01-02", date)
		if err != nil {
			return "", fmt.Errorf("day %d has an unparseable date %q", i+1, day.Date)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-day-%d", trip.Id, i))
		event.SetDtStampTime(now)
		event.SetSummary(eventSummary(day))
		if day.Location != "" {
			event.SetLocation(day.Location)
		}
		if desc := eventDescription(day); desc != "" {
			event.SetDescription(desc)
		}

		if at, ok := parseDayTime(start, day.Time); ok {
			event.SetStartAt(at)
			event.SetEndAt(at.Add(time.Hour))
		} else {
			event.SetAllDayStartAt(start)
			event.SetAllDayEndAt(start.AddDate(0, 0, 1))
		}
	}

	return cal.Serialize(), nil
}

func parseDayTime(date time.Time, value string) (time.Time, bool) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("15:04", v)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hour(), t.Minute(), 0, 0, time.UTC), true
}

func eventSummary(day TripDay) string {
	label := map[string]string{
		DayTypeFlight:    "Flight",
		DayTypeHotel:     "Hotel",
		DayTypeActivity:  "Activity",
		DayTypeLogistics: "Transfer",
	}[NormalizeDayType(day.Type)]

	if strings.TrimSpace(day.Title) == "" {
		return label
	}
	return label + ": " + day.Title
}

func eventDescription(day TripDay) string {
	var lines []string
	if day.Notes != "" {
		lines = append(lines, day.Notes)
	}
	for _, key := range detailKeysFor(day.Type) {
		if v := day.Details[key]; v != "" {
			lines = append(lines, key+": "+v)
		}
	}
	for _, a := range day.Activities {
		if strings.TrimSpace(a.Title) == "" {
			continue
		}
		line := a.Title
		if a.Time != "" {
			line = a.Time + " " + line
		}
		if a.Location != "" {
			line += " (" + a.Location + ")"
		}
		lines = append(lines, line)
	}
	if len(day.ChecklistItems) > 0 {
		lines = append(lines, "Checklist: "+strings.Join(day.ChecklistItems, ", "))
	}
	return strings.Join(lines, "\n")
}

func detailKeysFor(dayType string) []string {
	switch NormalizeDayType(dayType) {
	case DayTypeFlight:
		return FlightDetailKeys
	case DayTypeHotel:
		return HotelDetailKeys
	case DayTypeLogistics:
		return LogisticsDetailKeys
	default:
		return ActivityDetailKeys
	}
}
