package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type (
	Database struct {
		Driver string `validate:"required|in:postgres,mysql"`
		Port   int    `validate:"min:1|max:65535"`
	}

	Server struct {
		Host   string   `validate:"regexp:^[a-z0-9.]+$"`
		Secret string   `validate:"required"`
		Key    string   `validate:"len:4"`
		Codes  []string `validate:"len:2"`
		Level  int      `validate:"in:1,2,3"`
		Ratio  float64  `validate:"max:1"`
		note   string   `validate:"required"`
	}

	Config struct {
		Server   Server    `validate:"nested"`
		Database *Database `validate:"nested"`
		Name     string
	}

	BadTag struct {
		Value string `validate:"unknown"`
	}

	BadTagValue struct {
		Value string `validate:"len:abc"`
	}

	BadNested struct {
		Value string `validate:"nested"`
	}
)

func validServer() Server {
	return Server{Host: "127.0.0.1", Secret: "s", Key: "abcd", Codes: []string{"a", "b"}, Level: 2, Ratio: 0.5}
}

func TestValidateCorrectValues(t *testing.T) {
	tests := []interface{}{
		validServer(),
		&Config{Server: validServer(), Database: &Database{Driver: "mysql", Port: 3306}},
		Config{Server: validServer()},
	}

	for _, tt := range tests {
		require.NoError(t, Validate(tt))
	}
}

func TestValidateIncorrectValues(t *testing.T) {
	tests := []struct {
		name     string
		in       interface{}
		expected ValidationErrors
	}{
		{
			name: "required",
			in: func() Server {
				s := validServer()
				s.Secret = ""
				return s
			}(),
			expected: ValidationErrors{{Field: "Secret", Err: ErrValidateRequired}},
		},
		{
			name: "len and regexp",
			in: func() Server {
				s := validServer()
				s.Host = "Bad Host"
				s.Key = "abc"
				s.Codes = []string{"a"}
				return s
			}(),
			expected: ValidationErrors{
				{Field: "Codes", Err: ErrValidateIncorrectLen},
				{Field: "Host", Err: ErrValidateNotMatchRegexp},
				{Field: "Key", Err: ErrValidateIncorrectLen},
			},
		},
		{
			name: "in and range",
			in: func() Server {
				s := validServer()
				s.Level = 5
				s.Ratio = 1.5
				return s
			}(),
			expected: ValidationErrors{
				{Field: "Level", Err: ErrValidateNotFoundInList},
				{Field: "Ratio", Err: ErrValidateOutOfRange},
			},
		},
		{
			name: "nested",
			in:   Config{Server: validServer(), Database: &Database{Driver: "oracle", Port: 0}},
			expected: ValidationErrors{
				{Field: "Database.Driver", Err: ErrValidateNotFoundInList},
				{Field: "Database.Port", Err: ErrValidateOutOfRange},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			var vErrors ValidationErrors
			require.True(t, errors.As(err, &vErrors))
			require.ElementsMatch(t, tt.expected, vErrors)
		})
	}
}

func TestValidateIncorrectInput(t *testing.T) {
	var nilConfig *Config
	require.ErrorIs(t, Validate(nil), ErrIncorrectStruct)
	require.ErrorIs(t, Validate(nilConfig), ErrIncorrectStruct)
	require.ErrorIs(t, Validate("string"), ErrIncorrectStruct)
	require.ErrorIs(t, Validate(BadTag{}), ErrIncorrectTag)
	require.ErrorIs(t, Validate(BadTagValue{}), ErrIncorrectTagValue)
	require.ErrorIs(t, Validate(BadNested{}), ErrIncorrectTag)
}

func TestValidationErrorsMessage(t *testing.T) {
	err := ValidationErrors{
		{Field: "b", Err: ErrValidateRequired},
		{Field: "a", Err: ErrValidateIncorrectLen},
	}
	require.Equal(t, "a: value has incorrect length; b: value is required", err.Error())
}
