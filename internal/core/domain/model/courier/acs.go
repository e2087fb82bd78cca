package courier

// ACSProviderID is the stable id of the ACS courier integration.
const ACSProviderID = "acs"

// ACSProvider integrates the ACS courier.
//
// Format shape: 10-12 digits with an optional leading "00". Besides the shared
// phone/order collision rules it rejects repeated-digit runs and the literal
// placeholder "1234567890" that shops paste while testing.
type ACSProvider struct {
	numericProvider
}

// NewACSProvider creates the ACS integration using the given status fetcher.
func NewACSProvider(fetcher StatusFetcher) *ACSProvider {
	return &ACSProvider{numericProvider{
		id:                 ACSProviderID,
		label:              "ACS Courier",
		minDigits:          10,
		maxDigits:          12,
		optionalPrefix:     "00",
		rejectSameDigitRun: true,
		forbiddenSequences: []string{"1234567890"},
		payloadFields: map[string]any{
			"systemCode": "ACS",
			"language":   "el",
		},
		fetcher: fetcher,
	}}
}
