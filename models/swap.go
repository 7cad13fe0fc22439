package models

// SwapItem defines the structure for swap records
type SwapItem struct {
	SwapID        string   `json:"swapId" dynamodbav:"swapId"`
	UserID        string   `json:"userId" dynamodbav:"userId"`
	CreatedAt     string   `json:"createdAt" dynamodbav:"createdAt"`
	Description   string   `json:"description" dynamodbav:"description"`
	DueDate       string   `json:"dueDate" dynamodbav:"dueDate"`
	AttachmentURL string   `json:"attachmentUrl" dynamodbav:"attachmentUrl"`
	Offers        []string `json:"offers" dynamodbav:"offers"`
}

// CreateSwapRequest is the payload for creating a new swap
type CreateSwapRequest struct {
	Description string `json:"description"`
	DueDate     string `json:"dueDate"`
}

// UpdateSwapRequest is the payload for updating a swap. Description is a
// pointer so an absent field can be told apart from an empty string; any
// other field in the request body is ignored.
type UpdateSwapRequest struct {
	Description *string `json:"description"`
}
