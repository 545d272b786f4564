// Package transport defines request/response DTOs for the leads module.
package transport

// ScoreResponse is the recomputed qualification snapshot for one contact.
type ScoreResponse struct {
	ContactID     string         `json:"contactId"`
	Score         int            `json:"score"`
	Qualification string         `json:"qualification"`
	Breakdown     map[string]int `json:"breakdown"`
}

// BatchScoreResponse reports a batch scoring run.
type BatchScoreResponse struct {
	Enqueued bool `json:"enqueued"`
	Updated  int  `json:"updated"`
	Errors   int  `json:"errors"`
}
