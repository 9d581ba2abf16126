package packers

// Packer represents an item in the Packers DynamoDB table. Orders reference
// packers by id; nothing cascades either way.
type Packer struct {
	PackerID string `dynamodbav:"packer_id" json:"packerId"` // PK
	Username string `dynamodbav:"username,omitempty" json:"username,omitempty"`
	Email    string `dynamodbav:"email,omitempty" json:"email,omitempty"`
}
