package core

// Benchmarks is the named threshold table every classifier reads from.
// Pure configuration; values come from the config layer and are never
// mutated after construction.
type Benchmarks struct {
	// Campaign thresholds
	MinDataThreshold   int     // sends below this mean not enough data to judge
	NotViableContacted int     // contacted at or above this with few opportunities means not viable
	NotViableOppMax    int     // opportunity ceiling for the not-viable rule
	MinReplyRate       float64 // reply-rate floor in percent
	LowLeadsWarning    int     // uncontacted below this warns about runway
	LowLeadsCritical   int     // uncontacted below this is urgent
	TargetConversion   float64 // positive-reply-to-meeting target in percent
	SubsequenceFloor   int     // positive replies above this with zero meetings means broken follow-up

	// Client thresholds
	EarlyStageSent      int
	CriticalUncontacted int
	CriticalReplyRate   float64
	GoodReplyRate       float64
	CriticalConversion  float64
	TAMExhaustedSent    int
	LowReplyRate        float64
	ViableSentThreshold int
	MinClientOpps       int
	MaxLowHealthInboxes int

	// Inbox thresholds
	HealthScoreFloor   float64
	HealthScoreSevere  float64
	HealthScoreOptimal float64
}

// DefaultBenchmarks returns the built-in threshold table. The config layer
// overrides individual values from benchmarks.* keys.
func DefaultBenchmarks() Benchmarks {
	return Benchmarks{
		MinDataThreshold:   1000,
		NotViableContacted: 5000,
		NotViableOppMax:    2,
		MinReplyRate:       1.0,
		LowLeadsWarning:    2000,
		LowLeadsCritical:   1000,
		TargetConversion:   25.0,
		SubsequenceFloor:   10,

		EarlyStageSent:      2000,
		CriticalUncontacted: 1000,
		CriticalReplyRate:   0.5,
		GoodReplyRate:       1.5,
		CriticalConversion:  10.0,
		TAMExhaustedSent:    50000,
		LowReplyRate:        1.0,
		ViableSentThreshold: 10000,
		MinClientOpps:       10,
		MaxLowHealthInboxes: 2,

		HealthScoreFloor:   70,
		HealthScoreSevere:  50,
		HealthScoreOptimal: 90,
	}
}
