package model

// Passage is a retrieved fragment of a standards document together with the
// metadata recorded at ingestion time (at minimum a "content" field naming
// the standard the fragment belongs to).
type Passage struct {
	Text     string
	Metadata map[string]string
}

// Standard returns the standard code this passage was filed under, if any.
func (p Passage) Standard() string {
	if p.Metadata == nil {
		return ""
	}
	return p.Metadata["content"]
}
