package domain

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// Default calendar
const DefaultTimezone = "Africa/Nairobi"

var (
	DefaultWeekdayHours  = OperatingHours{StartHour: 8, EndHour: 16}
	DefaultSaturdayHours = OperatingHours{StartHour: 9, EndHour: 16}
	DefaultSundayHours   = OperatingHours{StartHour: 10, EndHour: 16}
)

// Booking policy defaults
const (
	DefaultBookingWindowDays = 30
	DefaultPageSize          = 20
	MaxPageSize              = 100
	MaxPage                  = 100000
)

// Widths of the bookings text columns; request validation must not accept more
const (
	MaxLongFieldLength   = 255 // full_name, email
	MaxShortFieldLength  = 50  // phone_number, kra_pin, block_number, house_number
	MaxMediumFieldLength = 100 // package, wifi_username, wifi_password
)

// LiveStatuses statuses of bookings that may hold a slot
var LiveStatuses = []BookingStatus{
	StatusPending,
	StatusConfirmed,
	StatusCompleted,
}

// LiveStatusStrings returns LiveStatuses as plain strings for SQL arrays
func LiveStatusStrings() []string {
	out := make([]string, len(LiveStatuses))
	for i, s := range LiveStatuses {
		out[i] = string(s)
	}
	return out
}

// SortableBookingColumns columns the admin list may be ordered by
var SortableBookingColumns = map[string]bool{
	"id":           true,
	"full_name":    true,
	"booking_date": true,
	"status":       true,
	"created_at":   true,
}

// DefaultResources estates served by the installer
var DefaultResources = []string{
	"Saifee Park Nairobi Langata",
	"Kerina Apartments Nairobi Rongai",
	"AZIZ Apartments Nairobi Rongai",
	"Sir Henry's Apartments Kakamega",
	"Milimani Apartments Nakuru",
	"Kings Saaphire Nakuru",
	"Lavena Apartments Rongai",
	"Orange House Uthiru",
}

// DefaultPremiumResource estate with its own package list
const DefaultPremiumResource = "Saifee Park Nairobi Langata"

// DefaultPremiumPackages packages offered at DefaultPremiumResource
var DefaultPremiumPackages = []string{
	"Bronze 10 mbps @1000",
	"Silver 20 mbps @2000",
	"Platinum 40mbps@4000",
	"Gold 80mbps @8000",
	"Diamond 120mbps @10000",
}

// DefaultStandardPackages packages offered at every other estate
var DefaultStandardPackages = []string{
	"Starter 5mbps @1500",
	"Bronze 10mbps @2500",
	"Silver Pack 20mbps @3500",
	"Gold 40mbps @4500",
	"Diamond 80mbps @8500",
}
