package matching_test

import (
	"math/rand"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/matching"
	"github.com/carefinder/listingkit/pkg/records"
)

func rec(id, title, addr string) records.Record {
	return records.New("ID", id, "Title", title, "address", addr)
}

func TestMatchScenario(t *testing.T) {
	crm := []records.Record{rec("1", "Oak House", "100 Oak Dr")}
	market := []records.Record{records.New("title", "Oak House AZ", "address", "100 Oak Drive", "type", "Memory Care")}

	results, err := matching.Match(crm, market)
	require.NoError(t, err)
	require.Len(t, results, 1)

	r := results[0]
	assert.True(t, r.Matched())
	assert.Equal(t, "100 oak drive", r.Key)
	assert.Equal(t, "1", r.A.ID())
	require.NotNil(t, r.B)
	assert.Equal(t, "Oak House AZ", r.B.Title())
}

func TestMatchScrapedWhitespace(t *testing.T) {
	crm := []records.Record{rec("1", "Oak House", "100 Oak Dr")}
	market := []records.Record{records.New("title", "Oak House AZ", "address", "100\u00a0Oak\u00a0Dr")}

	results, err := matching.Match(crm, market)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[0].Matched())
	assert.Equal(t, "100 oak drive", results[0].Key)
}

func TestMatch(t *testing.T) {
	a := []records.Record{
		rec("3", "Pine", "9 Pine Ln"),
		rec("1", "Oak", "100 Oak Dr"),
		rec("2", "Nowhere", ""),
		rec("4", "Elm", "5 Elm St Ste 2"),
	}
	b := []records.Record{
		rec("b2", "Oak Campus B", "100 Oak Drive"),
		rec("b1", "Oak Campus A", "100 oak drive."),
		rec("b3", "Pine", "9 Pine Lane"),
		rec("b4", "Blank", ""),
		rec("b5", "Elm", "5 Elm Street"),
	}

	results, err := matching.Match(a, b)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// sorted by key: "" < "100 oak drive" < "5 elm ..." < "9 pine lane"
	assert.Equal(t, "2", results[0].A.ID())
	assert.False(t, results[0].Matched(), "empty address never matches")

	assert.Equal(t, "1", results[1].A.ID())
	require.NotNil(t, results[1].B)
	assert.Equal(t, "b1", results[1].B.ID(), "lowest ID represents a shared key")

	assert.Equal(t, "4", results[2].A.ID())
	assert.False(t, results[2].Matched(), "suite numbers are not reconciled")

	assert.Equal(t, "3", results[3].A.ID())
	assert.Equal(t, "b3", results[3].B.ID())

	assert.Equal(t, matching.Summary{Total: 4, Matched: 2, Unmatched: 2}, matching.Summarize(results))
	assert.Len(t, matching.Unmatched(results), 2)
}

func TestMatchPreconditions(t *testing.T) {
	_, err := matching.Match(nil, []records.Record{})
	require.Error(t, err)
	assert.True(t, errors.IsPrecondition(err))
	assert.Contains(t, err.Error(), "a")

	_, err = matching.Match([]records.Record{}, nil)
	require.Error(t, err)
	var pe *errors.PreconditionError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "b", pe.Argument)

	results, err := matching.Match([]records.Record{}, []records.Record{})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMatchOrderIndependent(t *testing.T) {
	faker := gofakeit.New(42)
	streets := make([]string, 15)
	for i := range streets {
		streets[i] = faker.Street()
	}

	var a, b []records.Record
	for i := 0; i < 60; i++ {
		a = append(a, rec(faker.Numerify("a###"), faker.Company(), streets[faker.Number(0, len(streets)-1)]))
		b = append(b, rec(faker.Numerify("b###"), faker.Company(), streets[faker.Number(0, len(streets)-1)]))
	}

	want, err := matching.Match(a, b)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		pa := shuffled(rng, a)
		pb := shuffled(rng, b)
		got, err := matching.Match(pa, pb)
		require.NoError(t, err)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("match depends on input order (-want +got):\n%s", diff)
		}
	}
}

func shuffled(rng *rand.Rand, in []records.Record) []records.Record {
	out := make([]records.Record, len(in))
	copy(out, in)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

func TestMatchDoesNotMutateInputs(t *testing.T) {
	a := []records.Record{rec("2", "B", "1 Main St"), rec("1", "A", "2 Main St")}
	b := []records.Record{rec("9", "Z", "1 Main Street")}

	_, err := matching.Match(a, b)
	require.NoError(t, err)
	assert.Equal(t, "2", a[0].ID(), "input order must be preserved")
	assert.Equal(t, "1 Main St", a[0].Address())
}
