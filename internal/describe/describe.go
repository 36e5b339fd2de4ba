// Package describe generates short senior-living descriptions for cities.
// Generated text is opaque to the rest of listingkit.
package describe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/carefinder/listingkit/pkg/errors"
	"github.com/carefinder/listingkit/pkg/logging"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// Describer produces a description for a city.
type Describer interface {
	Describe(ctx context.Context, city, state string) (string, error)
}

// generator is the subset of genai.Models used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini is a Describer backed by the Gemini API.
type Gemini struct {
	models generator
	model  string
}

var _ Describer = (*Gemini)(nil)

// NewGemini creates a Gemini describer. An empty model selects DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.NewConfigError("describe", "GOOGLE_API_KEY is required", nil)
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  apiKey,
	})
	if err != nil {
		return nil, errors.NewConfigError("describe", "failed to create Gemini client", err)
	}
	return newGemini(client.Models, model), nil
}

func newGemini(models generator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: models, model: model}
}

// Prompt returns the instruction sent for a city.
func Prompt(city, state string) string {
	place := city
	if state != "" {
		place = city + ", " + state
	}
	return fmt.Sprintf("Write a short paragraph (2-4 sentences) describing why %s is a good place for senior living. "+
		"Focus on healthcare, climate, cost of living, peacefulness, and lifestyle. "+
		"Match this tone: 'Tucson combines natural beauty with rich cultural history, offering seniors warm weather, "+
		"affordable living, and access to excellent healthcare.'", place)
}

// Describe implements Describer.
func (g *Gemini) Describe(ctx context.Context, city, state string) (string, error) {
	city = strings.TrimSpace(city)
	if city == "" {
		return "", errors.NewValidationError("city", city, "city is required")
	}

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(Prompt(city, state)), &genai.GenerateContentConfig{
		Temperature: genai.Ptr[float32](0.7),
	})
	if err != nil {
		return "", errors.WrapAPI("gemini", 0, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.NewAPIError("gemini", 0, "empty response for "+city)
	}
	return text, nil
}

// Description is one generated result.
type Description struct {
	City        string `json:"City" yaml:"City"`
	State       string `json:"State" yaml:"State"`
	Description string `json:"Description" yaml:"Description"`
	Error       string `json:"Error,omitempty" yaml:"Error,omitempty"`
}

// All describes every city, waiting at least interval between requests.
// Failures are kept in the result rather than aborting the batch;
// cancellation stops it.
func All(ctx context.Context, d Describer, state string, cities []string, interval time.Duration) ([]Description, error) {
	logger := logging.FromContext(ctx)
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	limiter := rate.NewLimiter(limit, 1)

	out := make([]Description, 0, len(cities))
	for i, city := range cities {
		if err := limiter.Wait(ctx); err != nil {
			return out, err
		}
		desc := Description{City: city, State: state}
		text, err := d.Describe(ctx, city, state)
		if err != nil {
			logger.Warn().Err(err).Str("city", city).Msg("Failed to describe city")
			desc.Error = err.Error()
		} else {
			desc.Description = text
		}
		out = append(out, desc)
		logger.Debug().Int("progress", i+1).Int("total", len(cities)).Msg("Described city")
	}
	return out, nil
}
