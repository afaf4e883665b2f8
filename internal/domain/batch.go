package domain

// RecipientFailure records why one recipient's delivery failed.
// Reason is the error kind of the final attempt for that recipient;
// Detail keeps the full per-provider history for diagnostics.
type RecipientFailure struct {
	Recipient string    `json:"recipient"`
	Reason    ErrorKind `json:"reason"`
	Detail    string    `json:"detail,omitempty"`
}

// BatchResult aggregates per-recipient outcomes of a group send.
// Invariant: Sent + Failed == TotalRecipients, and Failures is ordered
// by recipient iteration order.
type BatchResult struct {
	TotalRecipients int                `json:"total_recipients"`
	Sent            int                `json:"sent"`
	Failed          int                `json:"failed"`
	NoRecipients    bool               `json:"no_recipients,omitempty"`
	Failures        []RecipientFailure `json:"failures,omitempty"`
}
