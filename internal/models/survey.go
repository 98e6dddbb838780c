package models

// SurveyResponse is one vaccine clinic attendee's answers.
type SurveyResponse struct {
	Year          int    `json:"year"`
	Event         string `json:"event"`
	Employment    string `json:"employment"`
	GovAssistance string `json:"gov_assistance"`
	Income        string `json:"income"`
	Microchipped  string `json:"microchipped"`
	PostalCode    string `json:"postal_code"`
	Zip           string `json:"zip"`
}
