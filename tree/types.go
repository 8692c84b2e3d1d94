package tree

const (
	GenderMale    = "male"
	GenderFemale  = "female"
	GenderUnknown = "unknown"

	VitalStatusLiving   = "living"
	VitalStatusDeceased = "deceased"
	VitalStatusUnknown  = "unknown"

	NameTypeLegal      = "legal"
	NameTypeBirth      = "birth"
	NameTypeMarried    = "married"
	NameTypeAlias      = "alias"
	NameTypeReligious  = "religious"
	NameTypePosthumous = "posthumous"

	EventTypeBirth       = "birth"
	EventTypeDeath       = "death"
	EventTypeMarriage    = "marriage"
	EventTypeDivorce     = "divorce"
	EventTypeBurial      = "burial"
	EventTypeBaptism     = "baptism"
	EventTypeImmigration = "immigration"
	EventTypeMilitary    = "military"
	EventTypeOccupation  = "occupation"
	EventTypeResidence   = "residence"

	PrecisionDay     = "day"
	PrecisionMonth   = "month"
	PrecisionYear    = "year"
	PrecisionDecade  = "decade"
	PrecisionCentury = "century"
	PrecisionTime    = "time"

	QualifierExact       = "exact"
	QualifierApproximate = "approximate"
	QualifierBefore      = "before"
	QualifierAfter       = "after"
	QualifierBetween     = "between"

	UnionTypeMarriage    = "marriage"
	UnionTypePartnership = "partnership"
	UnionTypeCommonLaw   = "common_law"

	UnionStatusCurrent = "current"
	UnionStatusEnded   = "ended"
)

var (
	enumGenders      = []string{GenderMale, GenderFemale, GenderUnknown}
	enumVitalStatus  = []string{VitalStatusLiving, VitalStatusDeceased, VitalStatusUnknown}
	enumNameTypes    = []string{NameTypeLegal, NameTypeBirth, NameTypeMarried, NameTypeAlias, NameTypeReligious, NameTypePosthumous}
	enumEventTypes   = []string{EventTypeBirth, EventTypeDeath, EventTypeMarriage, EventTypeDivorce, EventTypeBurial, EventTypeBaptism, EventTypeImmigration, EventTypeMilitary, EventTypeOccupation, EventTypeResidence}
	enumPrecisions   = []string{PrecisionDay, PrecisionMonth, PrecisionYear, PrecisionDecade, PrecisionCentury, PrecisionTime}
	enumQualifiers   = []string{QualifierExact, QualifierApproximate, QualifierBefore, QualifierAfter, QualifierBetween}
	enumUnionTypes   = []string{UnionTypeMarriage, UnionTypePartnership, UnionTypeCommonLaw}
	enumUnionStatus  = []string{UnionStatusCurrent, UnionStatusEnded}
)

// Person is one stored record of the roster. FatherId and MotherId are
// references by id; an empty value means the parent is unknown, not
// nonexistent. DisplayName, Birth and Death are the pre-events document
// shape and are still accepted for records that were never migrated.
type Person struct {
	Id           string   `json:"id"`
	Names        []Name   `json:"names"`
	DisplayName  string   `json:"displayName,omitempty"`
	Gender       string   `json:"gender"`
	VitalStatus  string   `json:"vitalStatus"`
	Events       []Event  `json:"events"`
	Birth        *VitalRecord `json:"birth,omitempty"`
	Death        *VitalRecord `json:"death,omitempty"`
	FatherId     string   `json:"fatherId,omitempty"`
	MotherId     string   `json:"motherId,omitempty"`
	Unions       []Union  `json:"unions"`
	SiblingOrder int      `json:"siblingOrder,omitempty"`
	Biography    string   `json:"biography,omitempty"`
}

// Name is one name variant. Exactly one variant per person carries
// Current, downstream display depends on it.
type Name struct {
	Type    string `json:"type"`
	First   string `json:"first"`
	Middle  string `json:"middle,omitempty"`
	Last    string `json:"last"`
	Current bool   `json:"current"`
}

// Event is a dated life event. Date is a pointer on purpose: nil means
// genuinely unknown, while the empty string has a field-dependent meaning
// (see FormatBirthDate / FormatDeathDate).
type Event struct {
	Type      string   `json:"type"`
	Date      *string  `json:"date"`
	Precision string   `json:"precision,omitempty"`
	Qualifier string   `json:"qualifier,omitempty"`
	Place     string   `json:"place,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	UnionId   string   `json:"unionId,omitempty"`
}

// Union models a partnership between two persons. Ordinal is 1-based.
type Union struct {
	Id        string `json:"id"`
	SpouseId  string `json:"spouseId"`
	Type      string `json:"type"`
	Ordinal   int    `json:"ordinal"`
	Status    string `json:"status"`
	EndReason string `json:"endReason,omitempty"`
}

// VitalRecord is the legacy dedicated birth/death sub-record.
type VitalRecord struct {
	Date  *string `json:"date"`
	Place string  `json:"place,omitempty"`
}

// CurrentName returns the name variant flagged current, or false when the
// record has none (legacy records fall back to DisplayName).
func (p Person) CurrentName() (Name, bool) {
	for _, name := range p.Names {
		if name.Current {
			return name, true
		}
	}
	return Name{}, false
}

// EventOfType returns the first event with the given type, scanning in
// stored order.
func (p Person) EventOfType(eventType string) (Event, bool) {
	for _, event := range p.Events {
		if event.Type == eventType {
			return event, true
		}
	}
	return Event{}, false
}

func (p Person) unionById(unionId string) (Union, bool) {
	for _, union := range p.Unions {
		if union.Id == unionId {
			return union, true
		}
	}
	return Union{}, false
}

func isMember(value string, enum []string) bool {
	for _, member := range enum {
		if value == member {
			return true
		}
	}
	return false
}
