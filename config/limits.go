package config

// Limits are the operational caps for the tracker. They used to be
// hard-coded; keeping them in one struct makes them injectable in tests.
//
// Env overrides (optional):
// - MAX_UPDATES_PER_PROJECT (default 30)
// - FORECAST_LIMIT (default 100, global across all projects)
// - MIN_PASSWORD_LENGTH (default 8)
type Limits struct {
	MaxUpdatesPerProject int
	ForecastLimit        int
	MinPasswordLength    int
}

func GetLimits() Limits {
	return Limits{
		MaxUpdatesPerProject: intFromEnv("MAX_UPDATES_PER_PROJECT", 30),
		ForecastLimit:        intFromEnv("FORECAST_LIMIT", 100),
		MinPasswordLength:    intFromEnv("MIN_PASSWORD_LENGTH", 8),
	}
}
