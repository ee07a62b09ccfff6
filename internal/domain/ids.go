package domain

// SubjectID is the authenticated subject extracted from JWT claims (the "sub"
// claim). Its format is controlled by the token issuer; we treat it as opaque.
type SubjectID string
