package courier

// GenikiProviderID is the stable id of the Geniki Taxydromiki courier integration.
const GenikiProviderID = "geniki"

// GenikiProvider integrates Geniki Taxydromiki.
//
// Format shape: 8-12 digits. Rejects all-zero and all-one runs and the literal
// placeholder "12345678", plus the shared phone/order collision rules.
type GenikiProvider struct {
	numericProvider
}

// NewGenikiProvider creates the Geniki integration using the given status fetcher.
func NewGenikiProvider(fetcher StatusFetcher) *GenikiProvider {
	return &GenikiProvider{numericProvider{
		id:                 GenikiProviderID,
		label:              "Geniki Taxydromiki",
		minDigits:          8,
		maxDigits:          12,
		rejectZeroOneRun:   true,
		forbiddenSequences: []string{"12345678"},
		payloadFields: map[string]any{
			"service": "geniki",
		},
		fetcher: fetcher,
	}}
}
