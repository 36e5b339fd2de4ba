// Package config reads listingkit settings from viper and validates the
// sections a command needs before it talks to a remote service.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/carefinder/listingkit/pkg/constants"
	"github.com/carefinder/listingkit/pkg/errors"
)

// Settings are the service settings shared by commands.
type Settings struct {
	CMS       CMS
	Snapshots Snapshots
	Describe  Describe
}

// CMS configures the WordPress REST sink.
type CMS struct {
	URL           string  `validate:"required,url"`
	Username      string  `validate:"required"`
	AppPassword   string  `validate:"required"`
	PostType      string  `validate:"required,post_type"`
	RatePerSecond float64 `validate:"gt=0,lte=50"`
}

// Snapshots configures the snapshot store.
type Snapshots struct {
	Path string `validate:"required"`
}

// Describe configures the description generator.
type Describe struct {
	APIKey string `validate:"required"`
	Model  string
}

// Config keys.
const (
	KeyCMSURL         = "cms.url"
	KeyCMSUsername    = "cms.username"
	KeyCMSAppPassword = "cms.app_password"
	KeyCMSPostType    = "cms.post_type"
	KeyCMSRate        = "cms.rate_per_second"
	KeySnapshotsPath  = "snapshots.path"
	KeyDescribeModel  = "describe.model"
	KeyGoogleAPIKey   = "GOOGLE_API_KEY"
)

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyCMSPostType, "listing")
	v.SetDefault(KeyCMSRate, constants.DefaultRatePerSecond)
	v.SetDefault(KeySnapshotsPath, constants.DefaultSnapshotPath)
}

// Load reads settings from v. Nothing is validated here; call the Validate
// method for the section a command uses.
func Load(v *viper.Viper) *Settings {
	SetDefaults(v)
	return &Settings{
		CMS: CMS{
			URL:           GetString(v, KeyCMSURL),
			Username:      GetString(v, KeyCMSUsername),
			AppPassword:   GetString(v, KeyCMSAppPassword),
			PostType:      GetString(v, KeyCMSPostType),
			RatePerSecond: v.GetFloat64(KeyCMSRate),
		},
		Snapshots: Snapshots{
			Path: GetString(v, KeySnapshotsPath),
		},
		Describe: Describe{
			APIKey: GetString(v, KeyGoogleAPIKey),
			Model:  GetString(v, KeyDescribeModel),
		},
	}
}

// GetString reads key from v, falling back to the matching environment
// variable (CMS_URL for cms.url) when v has no value.
func GetString(v *viper.Viper, key string) string {
	if value := v.GetString(key); value != "" {
		return value
	}
	env := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	return os.Getenv(env)
}

var postTypeRe = regexp.MustCompile(`^[a-z0-9_-]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("post_type", func(fl validator.FieldLevel) bool {
		return postTypeRe.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}

// ValidateCMS checks the CMS section.
func (s *Settings) ValidateCMS() error {
	return check("cms", s.CMS)
}

// ValidateSnapshots checks the snapshot section.
func (s *Settings) ValidateSnapshots() error {
	return check("snapshots", s.Snapshots)
}

// ValidateDescribe checks the describe section.
func (s *Settings) ValidateDescribe() error {
	return check("describe", s.Describe)
}

func check(section string, v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.NewConfigError(section, err.Error(), err)
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s.%s: %s", section, strings.ToLower(fe.Field()), describeTag(fe)))
	}
	first := verrs[0]
	return &errors.ValidationError{
		Field:   section + "." + strings.ToLower(first.Field()),
		Value:   first.Value(),
		Message: strings.Join(messages, "; "),
	}
}

func describeTag(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "url":
		return "must be an absolute URL"
	case "post_type":
		return "must contain only lowercase letters, digits, '-' or '_'"
	case "gt", "lte":
		return fmt.Sprintf("must satisfy %s=%s", fe.Tag(), fe.Param())
	default:
		return fmt.Sprintf("failed %q", fe.Tag())
	}
}
