package utils

import (
	"encoding/json"
	"os"

	"github.com/safeer-maker/traded.com-scraping-for-keystone/models"
)

// WriteJSON writes broker profiles into a single flat JSON array.
// Returns the number of records written.
func WriteJSON(filename string, profiles []models.BrokerProfile) (int, error) {
	f, err := os.Create(filename)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(profiles); err != nil {
		return 0, err
	}

	return len(profiles), nil
}
