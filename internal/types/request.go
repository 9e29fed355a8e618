package types

import "time"

// RequestStatus is the lifecycle state of a stored service request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestAssigned RequestStatus = "assigned"
	RequestClosed   RequestStatus = "closed"
)

// ServiceRequest is the durable record created when the pipeline resolves to
// request_created. Simulated marks demo records that were never written to the
// store because identifying data (location, requester) was incomplete; real
// records always carry a store-assigned ID.
type ServiceRequest struct {
	ID             int64         `json:"id"`
	RequesterID    *int64        `json:"requester_id,omitempty"`
	RequesterName  string        `json:"requester_name,omitempty"`
	CategoryID     int64         `json:"category_id"`
	Description    string        `json:"description"`
	Urgency        Urgency       `json:"urgency"`
	NeighborhoodID *int64        `json:"neighborhood_id,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	Status         RequestStatus `json:"status"`
	EstimatedPrice int64         `json:"estimated_price"`
	Flagged        bool          `json:"flagged"`
	Simulated      bool          `json:"simulated"`
}
