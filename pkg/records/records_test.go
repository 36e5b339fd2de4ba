package records_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/records"
	"github.com/carefinder/listingkit/pkg/taxonomy"
)

func TestRecordGet(t *testing.T) {
	tests := []struct {
		name  string
		rec   records.Record
		field string
		want  string
		ok    bool
	}{
		{name: "exact", rec: records.Record{"ID": "1"}, field: "ID", want: "1", ok: true},
		{name: "lowercase header", rec: records.Record{"id": "2"}, field: "ID", want: "2", ok: true},
		{name: "mixed case header", rec: records.Record{"Id": "3"}, field: "ID", want: "3", ok: true},
		{name: "bom header", rec: records.Record{"\ufeffID": "4"}, field: "ID", want: "4", ok: true},
		{name: "padded header", rec: records.Record{" Title ": "Oak"}, field: "Title", want: "Oak", ok: true},
		{name: "exact wins", rec: records.Record{"ID": "5", "id": "6"}, field: "id", want: "6", ok: true},
		{name: "smallest key wins", rec: records.Record{"iD": "7", "Id": "8"}, field: "ID", want: "8", ok: true},
		{name: "missing", rec: records.Record{"Title": "Oak"}, field: "ID", want: "", ok: false},
		{name: "nil record", rec: nil, field: "ID", want: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.rec.Get(tt.field)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordRequire(t *testing.T) {
	r := records.New("ID", "42", "Title", "Oak House")

	v, err := r.Require("Title")
	require.NoError(t, err)
	assert.Equal(t, "Oak House", v)

	_, err = r.Require("address")
	require.Error(t, err)
	assert.True(t, errors.IsMissingField(err))

	var mf *errors.MissingFieldError
	require.ErrorAs(t, err, &mf)
	assert.Equal(t, "address", mf.Field)
	assert.Equal(t, "42", mf.RecordID)
}

func TestRecordAccessors(t *testing.T) {
	r := records.New("ID", "9", "title", "Desert Rose", "address", "1 Main St", "dangling")
	assert.Equal(t, "9", r.ID())
	assert.Equal(t, "Desert Rose", r.Title())
	assert.Equal(t, "1 Main St", r.Address())
	assert.Equal(t, []string{"ID", "address", "title"}, r.Fields())
	assert.False(t, r.Has("dangling"))
}

func TestRecordCloneAndWith(t *testing.T) {
	r := records.New("ID", "1")
	c := r.Clone()
	c["ID"] = "2"
	assert.Equal(t, "1", r.ID())

	w := r.With("type", "Memory Care")
	assert.Equal(t, "Memory Care", w.Value("type"))
	assert.False(t, r.Has("type"))

	var empty records.Record
	assert.Nil(t, empty.Clone())
	assert.Equal(t, "x", empty.With("a", "x").Value("a"))
}

func TestNormalize(t *testing.T) {
	r := records.New(
		"ID", "7",
		"Title", "Sunrise Villa / private pay only",
		"address", "123 Main St., Apt 4",
		"type", "a:2:{i:0;i:162;i:1;i:1;}",
		"amenities", "Pool; About the Chef; Garden",
	)

	n := records.Normalize(r)
	assert.Equal(t, "123 main street apartment 4", n.NormalizedAddress)
	assert.Equal(t, "123mainstapt4", n.StrictAddress)
	assert.Equal(t, "Assisted Living Home", n.CanonicalType.String())
	assert.Equal(t, []string{"Pool", "Garden"}, n.CanonicalAmenities)
	assert.Equal(t, "Pool, Garden", n.Amenities())
	require.NotNil(t, n.CleanedAmenities)
	assert.Equal(t, "Pool, Garden", *n.CleanedAmenities)
	assert.True(t, n.HasAmenities())
	assert.Equal(t, "Sunrise Villa", n.CleanTitle)
	assert.Equal(t, "7", n.ID())

	n.Record["ID"] = "changed"
	assert.Equal(t, "7", r.ID(), "normalizing must not alias the input")
}

func TestNormalizeMissingFields(t *testing.T) {
	n := records.Normalize(records.New("ID", "1"))
	assert.Equal(t, "", n.NormalizedAddress)
	assert.Equal(t, "", n.StrictAddress)
	assert.True(t, n.CanonicalType.IsUncategorized())
	assert.Empty(t, n.CanonicalAmenities)
	assert.Nil(t, n.CleanedAmenities)
	assert.False(t, n.HasAmenities())
}

func TestNormalizeEmptyAmenitiesIsPresent(t *testing.T) {
	n := records.Normalize(records.New("ID", "1", "amenities", "  "))
	require.NotNil(t, n.CleanedAmenities)
	assert.Equal(t, "", *n.CleanedAmenities)
	assert.True(t, n.HasAmenities())
}

func TestNormalizeOptions(t *testing.T) {
	r := records.New("ID", "1", "care_types", "Memory Care", "features", "Spa", "street", "9 Elm Ln")
	n := records.Normalize(r,
		records.WithTypeField("care_types"),
		records.WithAmenitiesField("features"),
		records.WithAddressField("street"),
	)
	assert.True(t, n.CanonicalType.Contains(taxonomy.MemoryCare))
	assert.Equal(t, []string{"Spa"}, n.CanonicalAmenities)
	assert.Equal(t, "9 elm lane", n.NormalizedAddress)
}

func TestNormalizeAll(t *testing.T) {
	in := []records.Record{records.New("ID", "1"), records.New("ID", "2")}
	out := records.NormalizeAll(in)
	require.Len(t, out, 2)
	assert.Equal(t, "1", out[0].ID())
	assert.Equal(t, "2", out[1].ID())
}
