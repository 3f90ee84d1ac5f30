package models

import "time"

// Food is a user-owned catalog entry. Nutrients are per serving.
// Foods live in the schemaless "foods" collection of the document
// store, so there are no gorm columns here.
type Food struct {
	ID          string    `json:"id,omitempty"`
	Name        string    `json:"name"`
	Calories    float64   `json:"calories"`
	Protein     float64   `json:"protein"`
	Carbs       float64   `json:"carbs"`
	Fat         float64   `json:"fat"`
	ServingSize string    `json:"servingSize"`
	DateAdded   time.Time `json:"dateAdded"`
	UserID      string    `json:"userId"`
}
