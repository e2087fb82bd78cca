package courier

// SpeedexProviderID is the stable id of the Speedex courier integration.
const SpeedexProviderID = "speedex"

// SpeedexProvider integrates Speedex.
//
// Format shape: 10-14 digits. Speedex issues no recognizable test sequences,
// so only the shared phone/order collision rules apply.
type SpeedexProvider struct {
	numericProvider
}

// NewSpeedexProvider creates the Speedex integration using the given status fetcher.
func NewSpeedexProvider(fetcher StatusFetcher) *SpeedexProvider {
	return &SpeedexProvider{numericProvider{
		id:        SpeedexProviderID,
		label:     "Speedex",
		minDigits: 10,
		maxDigits: 14,
		payloadFields: map[string]any{
			"channel": "speedex-api",
		},
		fetcher: fetcher,
	}}
}
