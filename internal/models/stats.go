package models

// StatsOverview holds published-content counts for the public stats endpoint.
type StatsOverview struct {
	Challenges  int `json:"challenges"`
	CustomCodes int `json:"customCodes"`
	Tournaments int `json:"tournaments"`
}
