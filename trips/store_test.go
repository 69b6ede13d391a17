package trips

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateForSave_RejectsDaysWithoutADate(t *testing.T) {
	t.Parallel()

	for _, date := range []string{"", "   ", "\t \n"} {
		trip := Trip{
			Destination: "Lisbon",
			Days: []TripDay{
				{Date: "2026-04-01", Type: DayTypeFlight},
				{Date: date, Type: DayTypeActivity},
			},
		}
		err := ValidateForSave(trip)
		if !errors.Is(err, ErrDayWithoutDate) {
			t.Fatalf("ValidateForSave with day date %q: err=%v, want ErrDayWithoutDate", date, err)
		}
		if !strings.Contains(err.Error(), "day 2") {
			t.Fatalf("error %q does not name the offending day", err)
		}
	}
}

func TestValidateForSave_RequiresADestination(t *testing.T) {
	t.Parallel()

	for _, dest := range []string{"", "  "} {
		err := ValidateForSave(Trip{Destination: dest})
		if !errors.Is(err, ErrDestinationRequired) {
			t.Fatalf("ValidateForSave with destination %q: err=%v, want ErrDestinationRequired", dest, err)
		}
	}
}

func TestValidateForSave_AcceptsDatedTrips(t *testing.T) {
	t.Parallel()

	trip := Trip{
		Destination: "Lisbon",
		Days: []TripDay{
			{Date: "2026-04-01", Type: DayTypeFlight},
			{Date: "2026-04-02T00:00:00.000Z", Type: DayTypeHotel},
		},
	}
	if err := ValidateForSave(trip); err != nil {
		t.Fatalf("ValidateForSave(valid trip)=%v, want nil", err)
	}
}
