package records

import (
	"strings"

	"github.com/carefinder/listingkit/pkg/address"
	"github.com/carefinder/listingkit/pkg/amenities"
	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/taxonomy"
	"github.com/carefinder/listingkit/pkg/titles"
)

// Normalized is the derived, read-only view of a Record used for matching and
// reporting. It is computed once by Normalize and never updated.
type Normalized struct {
	Record

	CanonicalType      taxonomy.Set
	CanonicalAmenities []string
	// CleanedAmenities is the cleaned list, or nil when the record has no
	// amenities field.
	CleanedAmenities *string
	NormalizedAddress  string
	StrictAddress      string
	CleanTitle         string
}

// Option configures which fields Normalize reads.
type Option func(*options)

type options struct {
	typeField      string
	amenitiesField string
	addressField   string
}

func defaultOptions() *options {
	return &options{
		typeField:      constants.FieldType,
		amenitiesField: constants.FieldAmenities,
		addressField:   constants.FieldAddress,
	}
}

// WithTypeField reads the facility type from field.
func WithTypeField(field string) Option {
	return func(o *options) { o.typeField = field }
}

// WithAmenitiesField reads amenities from field.
func WithAmenitiesField(field string) Option {
	return func(o *options) { o.amenitiesField = field }
}

// WithAddressField reads the street address from field.
func WithAddressField(field string) Option {
	return func(o *options) { o.addressField = field }
}

// Normalize derives the canonical fields of r. Missing fields produce neutral
// values: no address key, no amenities and an Uncategorized type. A missing
// amenities field leaves CleanedAmenities nil.
func Normalize(r Record, opts ...Option) Normalized {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	addr := r.Value(o.addressField)
	var rawAmenities *string
	if v, ok := r.Get(o.amenitiesField); ok {
		rawAmenities = &v
	}
	return Normalized{
		Record:             r.Clone(),
		CanonicalType:      taxonomy.Decode(r.Value(o.typeField)),
		CanonicalAmenities: amenities.Tokens(r.Value(o.amenitiesField)),
		CleanedAmenities:   amenities.CleanOptional(rawAmenities),
		NormalizedAddress:  address.Normalize(addr),
		StrictAddress:      address.StrictKey(addr),
		CleanTitle:         titles.Clean(r.Title()),
	}
}

// NormalizeAll normalizes every record, preserving order.
func NormalizeAll(rs []Record, opts ...Option) []Normalized {
	out := make([]Normalized, len(rs))
	for i, r := range rs {
		out[i] = Normalize(r, opts...)
	}
	return out
}

// Amenities returns the cleaned amenity list as a single string.
func (n Normalized) Amenities() string {
	return strings.Join(n.CanonicalAmenities, amenities.Separator)
}

// HasAmenities reports whether the source record carried an amenities field.
func (n Normalized) HasAmenities() bool {
	return n.CleanedAmenities != nil
}
