package courier

// ELTAProviderID is the stable id of the ELTA Courier integration.
const ELTAProviderID = "elta"

// ELTAProvider integrates ELTA Courier.
//
// Format shape: 9-13 digits. Rejects all-zero and all-one runs and the literal
// placeholder "123456789", plus the shared phone/order collision rules.
type ELTAProvider struct {
	numericProvider
}

// NewELTAProvider creates the ELTA integration using the given status fetcher.
func NewELTAProvider(fetcher StatusFetcher) *ELTAProvider {
	return &ELTAProvider{numericProvider{
		id:                 ELTAProviderID,
		label:              "ELTA Courier",
		minDigits:          9,
		maxDigits:          13,
		rejectZeroOneRun:   true,
		forbiddenSequences: []string{"123456789"},
		payloadFields: map[string]any{
			"carrier": "ELTA",
		},
		fetcher: fetcher,
	}}
}
