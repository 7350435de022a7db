package models

// BrokerInput is one broker handed to a qualification run by the API caller.
type BrokerInput struct {
	Name       string `json:"name"`
	ProfileURL string `json:"profile_url"`
	Company    string `json:"company"`
}

// BrokerReference points at one broker profile found during discovery.
// References are deduplicated by canonical profile URL within a run.
type BrokerReference struct {
	ProfileURL string `json:"profile_url"`
	Region     string `json:"region"`
}

// DealRecord is one deal link scraped from a broker's deal history.
type DealRecord struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// ClassificationResult aggregates the keyword scoring of one broker's deals.
type ClassificationResult struct {
	Good        int     `json:"good"`
	Bad         int     `json:"bad"`
	Skipped     int     `json:"skipped"`
	PercentGood float64 `json:"percent_good"`
	Qualifies   bool    `json:"qualifies"`
	// SampleURL is the first good deal's canonical URL, in encounter order.
	SampleURL string `json:"sample_url,omitempty"`
}

// Categorized returns how many deals landed in the good or bad bucket.
// Skipped deals never count toward the qualification denominator.
func (c ClassificationResult) Categorized() int {
	return c.Good + c.Bad
}

// BrokerProfile is the terminal output unit: contact/identity fields merged
// with the classification verdict.
type BrokerProfile struct {
	Name          string `json:"name"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name"`
	Company       string `json:"company"`
	JobTitle      string `json:"job_title"`
	BusinessEmail string `json:"business_email,omitempty"`
	Phone         string `json:"phone,omitempty"`
	SocialProfile string `json:"social_profile,omitempty"`
	ProfileURL    string `json:"profile_url"`
	LoanSampleURL string `json:"loan_sample_url,omitempty"`
	Region        string `json:"region,omitempty"`

	Classification ClassificationResult `json:"classification"`
}

// RegionBatch is the webhook payload for one region's discovered brokers.
type RegionBatch struct {
	Region  string          `json:"region"`
	Count   int             `json:"count"`
	Brokers []BrokerProfile `json:"brokers"`
}

// RegionResult reports one region's discovery outcome back to the caller.
type RegionResult struct {
	Region  string
	Brokers []BrokerProfile
	Err     error
}
