package trips

// Day entry types. Unknown values coming back from the assistant are coerced
// to DayTypeActivity.
const (
	DayTypeFlight    = "flight"
	DayTypeHotel     = "hotel"
	DayTypeActivity  = "activity"
	DayTypeLogistics = "logistics"
)

// Known detail keys per day type. The merge tolerates keys outside these sets;
// they are only used for documentation and summary building.
var (
	FlightDetailKeys    = []string{"airline", "flightNumber", "terminalGate", "departure", "arrival", "departureDate", "arrivalDate"}
	HotelDetailKeys     = []string{"hotelName", "checkIn", "checkOut", "reservationCode"}
	ActivityDetailKeys  = []string{"activityCategory", "ticketInfo"}
	LogisticsDetailKeys = []string{"transportMode", "origin", "destination"}
)

type Attachment struct {
	Name     string `json:"name"`
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
}

type DayActivity struct {
	Id       string `json:"id"`
	Title    string `json:"title"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}

type TripDay struct {
	Id             string            `json:"id"`
	Date           string            `json:"date"`
	Type           string            `json:"type"`
	Title          string            `json:"title"`
	Time           string            `json:"time,omitempty"`
	Location       string            `json:"location,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Details        map[string]string `json:"details,omitempty"`
	Activities     []DayActivity     `json:"activities"`
	ChecklistItems []string          `json:"checklistItems,omitempty"`
	Attachments    []Attachment      `json:"attachments,omitempty"`
}

type Trip struct {
	Id          string    `json:"id"`
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Days        []TripDay `json:"days"`
	Created     string    `json:"created,omitempty"`
	Updated     string    `json:"updated,omitempty"`
}

// Snapshot is the partial, patch-shaped view of a trip exchanged with the
// assistant. Nil scalar fields mean "not provided" and leave the prior value
// untouched; a nil or empty Days list leaves the day list untouched.
type Snapshot struct {
	Destination *string    `json:"destination,omitempty"`
	StartDate   *string    `json:"startDate,omitempty"`
	EndDate     *string    `json:"endDate,omitempty"`
	Days        []DayPatch `json:"days,omitempty"`
}

// IsZero reports whether the snapshot carries no trip data at all.
func (s Snapshot) IsZero() bool {
	return s.Destination == nil && s.StartDate == nil && s.EndDate == nil && len(s.Days) == 0
}

type DayPatch struct {
	Date           string            `json:"date"`
	Type           string            `json:"type,omitempty"`
	Title          string            `json:"title,omitempty"`
	Time           string            `json:"time,omitempty"`
	Location       string            `json:"location,omitempty"`
	Notes          string            `json:"notes,omitempty"`
	Details        map[string]string `json:"details,omitempty"`
	Activities     []ActivityPatch   `json:"activities,omitempty"`
	ChecklistItems []string          `json:"checklistItems,omitempty"`
}

type ActivityPatch struct {
	Title    string `json:"title,omitempty"`
	Time     string `json:"time,omitempty"`
	Location string `json:"location,omitempty"`
}

// FormState is the live, editable form the chat flow keeps enriching. Day
// identity and voucher attachments live here and survive assistant updates.
type FormState struct {
	Destination string    `json:"destination"`
	StartDate   string    `json:"startDate"`
	EndDate     string    `json:"endDate"`
	Days        []TripDay `json:"days"`
}

// NormalizeDayType maps assistant-provided day types onto the known enum.
func NormalizeDayType(t string) string {
	switch t {
	case DayTypeFlight, DayTypeHotel, DayTypeActivity, DayTypeLogistics:
		return t
	default:
		return DayTypeActivity
	}
}
