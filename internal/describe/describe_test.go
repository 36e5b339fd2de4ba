package describe

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/carefinder/listingkit/pkg/errors"
)

type fakeModels struct {
	model   string
	prompts []string
	reply   string
	err     error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.reply, genai.RoleModel)}},
	}, nil
}

func TestGeminiDescribe(t *testing.T) {
	fake := &fakeModels{reply: "  Mesa offers sunshine and care.  "}
	g := newGemini(fake, "")

	got, err := g.Describe(context.Background(), "Mesa", "AZ")
	require.NoError(t, err)
	assert.Equal(t, "Mesa offers sunshine and care.", got)
	assert.Equal(t, DefaultModel, fake.model)
	require.Len(t, fake.prompts, 1)
	assert.Contains(t, fake.prompts[0], "Mesa, AZ")
}

func TestGeminiDescribeErrors(t *testing.T) {
	g := newGemini(&fakeModels{}, "custom-model")
	_, err := g.Describe(context.Background(), " ", "AZ")
	assert.True(t, errors.IsValidationError(err))

	_, err = g.Describe(context.Background(), "Mesa", "AZ")
	require.Error(t, err, "empty reply is an error")

	g = newGemini(&fakeModels{err: fmt.Errorf("quota")}, "custom-model")
	_, err = g.Describe(context.Background(), "Mesa", "AZ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestNewGeminiRequiresKey(t *testing.T) {
	_, err := NewGemini(context.Background(), "", "")
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

type mapDescriber map[string]string

func (m mapDescriber) Describe(_ context.Context, city, _ string) (string, error) {
	if d, ok := m[city]; ok {
		return d, nil
	}
	return "", fmt.Errorf("no description for %s", city)
}

func TestAll(t *testing.T) {
	d := mapDescriber{"Mesa": "sunny", "Tempe": "lively"}
	out, err := All(context.Background(), d, "AZ", []string{"Mesa", "Nowhere", "Tempe"}, 0)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, Description{City: "Mesa", State: "AZ", Description: "sunny"}, out[0])
	assert.NotEmpty(t, out[1].Error)
	assert.Equal(t, "lively", out[2].Description)
}

func TestAllCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	out, err := All(ctx, mapDescriber{}, "AZ", []string{"Mesa"}, 0)
	require.Error(t, err)
	assert.Empty(t, out)
}

func TestPrompt(t *testing.T) {
	assert.Contains(t, Prompt("Mesa", ""), "why Mesa is a good place")
}
