package model

import (
	"encoding/json"
	"time"
)

type CandidateRef struct {
	ID       ID     `json:"id"`
	Username string `json:"username"`
	Class    string `json:"class"`
}

type Campaign struct {
	ID          ID           `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Candidate   CandidateRef `json:"candidate"`
	CreatedAt   time.Time    `json:"created_at"`
}

// UnmarshalJSON also accepts the content/createdAt spellings used by older backends.
func (c *Campaign) UnmarshalJSON(data []byte) error {
	type plain Campaign
	var raw struct {
		plain
		Content        string     `json:"content"`
		CreatedAtCamel *time.Time `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*c = Campaign(raw.plain)
	if c.Description == "" {
		c.Description = raw.Content
	}
	if c.CreatedAt.IsZero() && raw.CreatedAtCamel != nil {
		c.CreatedAt = *raw.CreatedAtCamel
	}

	return nil
}

type VoteTallyEntry struct {
	Candidate CandidateRef `json:"candidate"`
	Count     int          `json:"count"`
}

// UnmarshalJSON also accepts votes as the count field name.
func (e *VoteTallyEntry) UnmarshalJSON(data []byte) error {
	type plain VoteTallyEntry
	var raw struct {
		plain
		Votes *int `json:"votes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = VoteTallyEntry(raw.plain)
	if e.Count == 0 && raw.Votes != nil {
		e.Count = *raw.Votes
	}
	if e.Count < 0 {
		e.Count = 0
	}

	return nil
}
