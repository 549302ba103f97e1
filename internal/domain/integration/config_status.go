package integration

// ConfigStatus reports whether a provider has every credential it needs.
// It is computed on demand and never cached.
type ConfigStatus struct {
	Configured bool     `json:"configured"`
	Missing    []string `json:"missing"`
}

// Err returns a configuration error for provider when the status is incomplete, nil otherwise
func (s ConfigStatus) Err(provider string) error {
	if s.Configured {
		return nil
	}
	return NewConfigurationError(provider, s.Missing)
}

// ConfigReporter is implemented by every provider adapter
type ConfigReporter interface {
	// IsConfigured returns true iff every required credential is non-empty
	IsConfigured() bool
	// ConfigStatus lists the canonical key names of the empty required credentials
	ConfigStatus() ConfigStatus
}

// RequiredField pairs a canonical configuration key with its current value
type RequiredField struct {
	Key   string
	Value string
}

// Require builds a RequiredField
func Require(key, value string) RequiredField {
	return RequiredField{Key: key, Value: value}
}

// CheckRequired evaluates a required-field table in order.
// Missing is never nil so it serializes as an empty list.
func CheckRequired(fields ...RequiredField) ConfigStatus {
	missing := make([]string, 0, len(fields))
	for _, f := range fields {
		if f.Value == "" {
			missing = append(missing, f.Key)
		}
	}
	return ConfigStatus{
		Configured: len(missing) == 0,
		Missing:    missing,
	}
}
